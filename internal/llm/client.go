package llm

import (
	"context"
)

type Client interface {
	GenerateCompletion(ctx context.Context, messages []Message, schema Schema) (string, error)
}

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role   `json:"type"`
	Content string `json:"content"`
}

// DummyClient returns a fixed completion and records the last request.
type DummyClient struct {
	ReturnValue string
	Err         error
	Messages    *[]Message
}

func (d DummyClient) GenerateCompletion(ctx context.Context, messages []Message, schema Schema) (string, error) {
	if d.Messages != nil {
		*d.Messages = messages
	}
	if d.Err != nil {
		return "", d.Err
	}
	if d.ReturnValue != "" {
		return d.ReturnValue, nil
	}
	return `{"reply": "dummy result", "components": [], "urgent": false}`, nil
}
