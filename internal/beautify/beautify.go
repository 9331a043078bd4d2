// Package beautify optionally rewrites outbound copy into warmer, more
// varied phrasing. A failure here never blocks the conversation: callers
// always fall back to the templated text.
package beautify

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Beautifier rewrites a templated message. hint carries short conversation
// context ("user agreed to a 2 minute task").
type Beautifier interface {
	Rewrite(ctx context.Context, text, hint string) (string, error)
}

// Noop returns the text unchanged. Used when the beautifier is disabled.
type Noop struct{}

func (Noop) Rewrite(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

const systemPrompt = `You rewrite short accountability-bot messages.
Keep the exact meaning and intent, change only the wording so it sounds warm,
human and a little varied. Keep it brief. Keep or swap emoji sensibly.
Reply with the rewritten message only, no explanations.`

// Model rewrites messages through the Anthropic API.
type Model struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewModel(apiKey, model string) (*Model, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("beautifier api key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("beautifier model is required")
	}
	return &Model{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}, nil
}

func (m *Model) Rewrite(ctx context.Context, text, hint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	prompt := fmt.Sprintf("Message: %q", text)
	if hint != "" {
		prompt += fmt.Sprintf("\nContext: %s", hint)
	}

	msg, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     m.model,
		MaxTokens: 256,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	out := strings.TrimSpace(strings.Join(parts, "\n"))
	if out == "" {
		return "", fmt.Errorf("empty rewrite")
	}
	// A rewrite ballooning past 3x the original is a model going off-script.
	if len(out) > 3*len(text) {
		return "", fmt.Errorf("rewrite too long (%d chars)", len(out))
	}
	return out, nil
}
