package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Label identifies one of the four options of a question.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// Labels lists the option labels in display order.
var Labels = []Label{LabelA, LabelB, LabelC, LabelD}

// ParseLabel accepts "a", " B ", "C)" and similar spellings.
func ParseLabel(s string) (Label, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimRight(s, ").:")
	for _, l := range Labels {
		if s == string(l) {
			return l, true
		}
	}
	return "", false
}

// Question is a generated multiple-choice question. Questions are never
// persisted.
type Question struct {
	Text          string
	Options       map[Label]string
	CorrectAnswer Label
	Explanation   string

	// SubTopicLayer1 is the subtopic of the main topic the question is
	// about; SubTopicLayer2 narrows it one level further.
	SubTopicLayer1 string
	SubTopicLayer2 string
}

// IsCorrect reports whether label is the correct answer.
func (q Question) IsCorrect(label Label) bool {
	return label == q.CorrectAnswer
}

// wireQuestion is the JSON shape exchanged with the model and over HTTP:
// options is an array holding a single object keyed A-D.
type wireQuestion struct {
	Question       string             `json:"question"`
	Options        []map[Label]string `json:"options"`
	CorrectAnswer  string             `json:"correctAnswer"`
	Explanation    string             `json:"explanation"`
	SubTopicLayer1 string             `json:"subTopicLayer1"`
	SubTopicLayer2 string             `json:"subTopicLayer2"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireQuestion{
		Question:       q.Text,
		Options:        []map[Label]string{q.Options},
		CorrectAnswer:  string(q.CorrectAnswer),
		Explanation:    q.Explanation,
		SubTopicLayer1: q.SubTopicLayer1,
		SubTopicLayer2: q.SubTopicLayer2,
	})
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	opts := make(map[Label]string, len(Labels))
	for _, o := range w.Options {
		for k, v := range o {
			opts[k] = v
		}
	}

	*q = Question{
		Text:           w.Question,
		Options:        opts,
		CorrectAnswer:  normalizeAnswer(w.CorrectAnswer, opts),
		Explanation:    w.Explanation,
		SubTopicLayer1: w.SubTopicLayer1,
		SubTopicLayer2: w.SubTopicLayer2,
	}
	return nil
}

// normalizeAnswer maps the correct answer to a label. Models occasionally
// answer with the option text instead of its letter.
func normalizeAnswer(answer string, opts map[Label]string) Label {
	if l, ok := ParseLabel(answer); ok {
		return l
	}
	for _, l := range Labels {
		if text, ok := opts[l]; ok && strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(answer)) {
			return l
		}
	}
	return Label(answer)
}

// Input holds the context for generating one quiz.
type Input struct {
	Topic      string
	Subtopic   string
	WeakTopics []string
}

// ValidationError describes why a generated quiz was rejected.
type ValidationError struct {
	Validator string
	Index     int // question index, -1 for the whole batch
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
	}
	return fmt.Sprintf("validator %q: question %d: %s", e.Validator, e.Index+1, e.Message)
}
