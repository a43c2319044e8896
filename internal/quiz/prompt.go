package quiz

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a multiple choice question generator that generates 10 questions related to a given topic.

Rules:
- First generate 5 questions strictly on the main topic and subtopic provided.
- Then generate the remaining 5 questions slightly related to the weak topics of the player, without deviating from the main topic.
- Every question has exactly four options labelled A, B, C and D, and exactly one of them is correct.
- correctAnswer is the label of the correct option, not its text.
- Distractors should reflect common misunderstandings, not random values.`

func buildUserMessage(in Input, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Main topic: %s\n", in.Topic)
	if in.Subtopic != "" {
		fmt.Fprintf(&b, "Subtopic: %s\n", in.Subtopic)
	}

	b.WriteString("\nWeak topics of the player:\n")
	b.WriteString(buildWeakTopics(in.WeakTopics, cfg.MaxWeakTopics))

	fmt.Fprintf(&b, "\n\nNow generate 10 multiple choice questions on the main topic %q.", mainTopic(in))

	return b.String()
}

func mainTopic(in Input) string {
	if in.Subtopic == "" {
		return in.Topic
	}
	return in.Topic + ": " + in.Subtopic
}

// buildWeakTopics keeps the most recently added topics when over the limit.
func buildWeakTopics(topics []string, max int) string {
	if len(topics) == 0 {
		return "None"
	}
	if max > 0 && len(topics) > max {
		topics = topics[len(topics)-max:]
	}

	var b strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	return strings.TrimRight(b.String(), "\n")
}
