package llm

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/nakamasato/cardiag/internal/chat"
	"github.com/nakamasato/cardiag/internal/resolver"
	"go.uber.org/zap"
)

//go:embed templates/answer.tmpl
var promptAnswerTemplate string

var answerTmpl = template.Must(template.New("answer").Parse(promptAnswerTemplate))

// Answerer composes a chat answer from resolver matches with an LLM.
type Answerer struct {
	client Client
	log    *zap.Logger
}

func NewAnswerer(client Client, logger *zap.Logger) *Answerer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Answerer{client: client, log: logger.Named("answerer")}
}

// Answer returns the model's answer for responses with matches. Every other
// kind gets the canned chat reply without calling the model.
func (a *Answerer) Answer(ctx context.Context, resp resolver.Response) (Answer, error) {
	if resp.Kind != resolver.KindMatches {
		return Answer{Reply: chat.Reply(resp), Components: []string{}}, nil
	}

	prompt, err := makePrompt(resp)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to make prompt: %w", err)
	}

	content, err := a.client.GenerateCompletion(ctx, []Message{
		{Role: RoleSystem, Content: prompt},
		{Role: RoleUser, Content: resp.Query},
	}, AnswerSchemaParam)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to generate completion: %w", err)
	}

	var answer Answer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return Answer{}, fmt.Errorf("failed to unmarshal answer: %w", err)
	}
	if answer.Components == nil {
		answer.Components = []string{}
	}
	a.log.Debug("Generated answer", zap.String("query", resp.Query), zap.Bool("urgent", answer.Urgent))
	return answer, nil
}

func makePrompt(resp resolver.Response) (string, error) {
	data := struct {
		Query   string
		Context string
	}{
		Query:   resp.Query,
		Context: chat.Reply(resp),
	}

	var buf bytes.Buffer
	if err := answerTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
