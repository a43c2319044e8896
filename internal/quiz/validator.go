package quiz

import (
	"fmt"
	"strings"
)

// Validator checks a generated batch of questions.
type Validator interface {
	Name() string
	Validate(qs []Question, in Input) *ValidationError
}

// CountValidator requires an exact number of questions.
type CountValidator struct {
	Want int
}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(qs []Question, _ Input) *ValidationError {
	if len(qs) != v.Want {
		return &ValidationError{
			Validator: v.Name(),
			Index:     -1,
			Message:   fmt.Sprintf("got %d questions, want %d", len(qs), v.Want),
		}
	}
	return nil
}

// StructuralValidator checks that every question has text, four
// non-empty options, a correct label among them and an explanation.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []Question, _ Input) *ValidationError {
	for i, q := range qs {
		if msg := checkQuestion(q); msg != "" {
			return &ValidationError{Validator: v.Name(), Index: i, Message: msg}
		}
	}
	return nil
}

func checkQuestion(q Question) string {
	if strings.TrimSpace(q.Text) == "" {
		return "question text is empty"
	}
	if len(q.Options) != len(Labels) {
		return fmt.Sprintf("has %d options, want %d", len(q.Options), len(Labels))
	}
	for _, l := range Labels {
		if strings.TrimSpace(q.Options[l]) == "" {
			return fmt.Sprintf("option %s is empty", l)
		}
	}
	if _, ok := q.Options[q.CorrectAnswer]; !ok {
		return fmt.Sprintf("correct answer %q is not one of A-D", q.CorrectAnswer)
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return "explanation is empty"
	}
	return ""
}
