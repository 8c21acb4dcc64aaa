package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var chatModel = openai.ChatModelGPT4oMini

type openaiClient struct {
	openai    *openai.Client
	chatModel openai.ChatModel
}

type ClientOption func(*openaiClient)

// WithChatModel overrides the chat model. An empty name keeps the default.
func WithChatModel(model string) ClientOption {
	return func(c *openaiClient) {
		if model != "" {
			c.chatModel = openai.ChatModel(model)
		}
	}
}

func NewOpenAIClient(apiKey string, opts ...ClientOption) Client {
	client := openaiClient{
		openai:    openai.NewClient(option.WithAPIKey(apiKey)),
		chatModel: chatModel, // default chat model
	}

	for _, opt := range opts {
		opt(&client)
	}

	return client
}

// GenerateCompletion requests a structured completion that conforms to schema.
// https://github.com/openai/openai-go/blob/8a8855d08ef84f47163deb4ce9febc4a7e02dd3d/examples/structured-outputs/main.go#L49
func (c openaiClient) GenerateCompletion(ctx context.Context, messages []Message, schema Schema) (string, error) {
	msgs := c.convertMessages(messages)
	chat, err := c.openai.Chat.Completions.New(ctx,
		openai.ChatCompletionNewParams{
			Model:    openai.F(c.chatModel),
			Messages: openai.F(msgs),
			ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
				openai.ResponseFormatJSONSchemaParam{
					Type: openai.F(openai.ResponseFormatJSONSchemaTypeJSONSchema),
					JSONSchema: openai.F(openai.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:        openai.F(schema.Name),
						Description: openai.F(schema.Description),
						Schema:      openai.F(schema.Schema),
						Strict:      openai.Bool(true),
					}),
				},
			),
		})
	if err != nil {
		return "", err
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return chat.Choices[0].Message.Content, nil
}

func (c openaiClient) convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, m := range messages {
		if m.Role == RoleUser {
			msgs[i] = openai.UserMessage(m.Content)
		} else {
			msgs[i] = openai.SystemMessage(m.Content)
		}
	}
	return msgs
}
