package llm

import "context"

type contextKey struct{}

// Purposes recorded with each request event.
const (
	PurposeExplain = "explain"
	PurposeTrace   = "trace"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, contextKey{}, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return "unknown"
}
