package llm

import "github.com/invopop/jsonschema"

// Answer is the structured chat answer requested from the model.
type Answer struct {
	Reply      string   `json:"reply" jsonschema_description:"Answer to the user in Russian, based only on the knowledge graph facts"`
	Components []string `json:"components" jsonschema_description:"Names of the car components the answer is about"`
	Urgent     bool     `json:"urgent" jsonschema_description:"True when the car should not be driven before a repair"`
}

var AnswerSchemaParam = GenerateSchema[Answer]("diagnostic_answer", "Answer to a car diagnostics question")

type Schema struct {
	Name        string
	Description string
	Schema      interface{}
}

func GenerateSchema[T any](name, description string) Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return Schema{
		Schema:      schema,
		Name:        name,
		Description: description,
	}
}
