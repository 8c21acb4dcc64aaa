package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nakamasato/cardiag/internal/llm"
)

func TestGenerateCompletion(t *testing.T) {
	client := llm.DummyClient{ReturnValue: "test completion"}
	ctx := context.Background()
	messages := []llm.Message{}
	schema := llm.Schema{}

	result, err := client.GenerateCompletion(ctx, messages, schema)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "test completion" {
		t.Errorf("expected 'test completion', got %v", result)
	}
}

func TestGenerateCompletionDefault(t *testing.T) {
	var got []llm.Message
	client := llm.DummyClient{Messages: &got}
	messages := []llm.Message{{Role: llm.RoleUser, Content: "скрип"}}

	result, err := client.GenerateCompletion(context.Background(), messages, llm.AnswerSchemaParam)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result == "" {
		t.Errorf("expected default result, got empty string")
	}
	if len(got) != 1 || got[0].Content != "скрип" {
		t.Errorf("expected recorded messages, got %v", got)
	}
}

func TestGenerateCompletionError(t *testing.T) {
	client := llm.DummyClient{Err: errors.New("boom")}
	if _, err := client.GenerateCompletion(context.Background(), nil, llm.Schema{}); err == nil {
		t.Errorf("expected error, got nil")
	}
}

func TestAnswerSchemaParam(t *testing.T) {
	if llm.AnswerSchemaParam.Name != "diagnostic_answer" {
		t.Errorf("unexpected schema name %q", llm.AnswerSchemaParam.Name)
	}
	if llm.AnswerSchemaParam.Schema == nil {
		t.Errorf("expected schema to be generated")
	}
}
