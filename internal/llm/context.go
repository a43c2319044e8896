package llm

import "context"

// Purposes tag every generation so events and logs can be grouped by the
// tutor operation that caused them.
const (
	PurposeRoadmap = "roadmap"
	PurposeContent = "content"
	PurposeQuiz    = "quiz"
	PurposeClarify = "clarify"
)

type purposeKey struct{}

func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unknown"
}
