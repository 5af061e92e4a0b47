package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/egelkids/egel/internal/llm"
)

// ExplainConfig holds explanation generation settings.
type ExplainConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultExplainConfig returns the defaults used by the CLI and TUI.
func DefaultExplainConfig() ExplainConfig {
	return ExplainConfig{MaxTokens: 600, Temperature: 0.3}
}

// LLMTracer computes the trace locally and asks an LLM to narrate it for
// a child. The local trace keeps the numbers honest; the model only
// supplies wording.
type LLMTracer struct {
	provider llm.Provider
	local    Tracer
	cfg      ExplainConfig
}

// NewLLMTracer returns an LLMTracer using provider.
func NewLLMTracer(provider llm.Provider, cfg ExplainConfig) *LLMTracer {
	return &LLMTracer{provider: provider, local: NewLocalTracer(), cfg: cfg}
}

// ExplanationSchema is the structured output requested from the model.
var ExplanationSchema = &llm.Schema{
	Name:        "worked-explanation",
	Description: "A short step-by-step explanation of a worked arithmetic solution for a child",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One encouraging sentence describing the method",
			},
			"steps": map[string]any{
				"type":        "array",
				"description": "One short sentence per step, in the order of the trace",
				"items":       map[string]any{"type": "string"},
			},
		},
		"required":             []any{"summary", "steps"},
		"additionalProperties": false,
	},
}

const explainSystemPrompt = `You explain arithmetic to children aged 6 to 10. You receive a problem and its worked solution as JSON. Narrate the solution step by step in short, friendly sentences. Use exactly the numbers in the worked solution. Never invent a different method or answer.`

func (t *LLMTracer) Trace(ctx context.Context, req Request) (*Trace, error) {
	tr, err := t.local.Trace(ctx, req)
	if err != nil {
		return nil, err
	}

	detail, err := json.Marshal(tr.Detail())
	if err != nil {
		return nil, fmt.Errorf("marshal trace: %w", err)
	}

	resp, err := t.provider.Generate(llm.WithPurpose(ctx, llm.PurposeExplain), llm.Request{
		System: explainSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplainMessage(tr, detail)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: t.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explain %s %d %d: %w", req.Op, req.A, req.B, err)
	}

	var exp Explanation
	if err := json.Unmarshal(resp.Content, &exp); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	if len(exp.Steps) == 0 {
		return nil, fmt.Errorf("explanation has no steps")
	}

	tr.Source = SourceLLM
	tr.Explanation = &exp
	return tr, nil
}

func buildExplainMessage(tr *Trace, detail []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %d %s %d\n\n", tr.A, tr.Op.Symbol(), tr.B)
	b.WriteString("Worked solution (JSON):\n")
	b.Write(detail)
	b.WriteString("\n\nPlain steps:\n")
	for i, line := range tr.Lines() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	return b.String()
}
