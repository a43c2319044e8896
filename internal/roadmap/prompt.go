package roadmap

import (
	"fmt"
	"strings"

	"github.com/abhisek/pathwise/internal/capability"
)

const roadmapSystemPrompt = `You are a curriculum designer. You turn a subject into a complete, ordered study roadmap of topics and subtopics that a learner can follow from start to finish.`

func buildRoadmapUserMessage(topic string, learner capability.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a roadmap for studying complete %s with all topics and subtopics.\n", topic)
	b.WriteString("\nLearner capabilities:\n")
	b.WriteString(capability.LearnerContext(learner).String())

	b.WriteString(`
Instructions:
1. Order topics from foundational to advanced.
2. Give every topic at least one subtopic, in the order they should be studied.
3. Match the depth and vocabulary to the learner capabilities above.`)

	return b.String()
}

const contentSystemPrompt = `You are a patient, thorough tutor. You write complete text lessons adapted to the learner's level and learning style.`

func buildContentUserMessage(topic, subtopic string, learner capability.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Subtopic: %s\n", subtopic)
	b.WriteString("\nLearner capabilities:\n")
	b.WriteString(capability.LearnerContext(learner).String())

	b.WriteString(`
Instructions:
Generate a complete, detailed text lesson on the subtopic. Use as many sections as needed, each with a heading.
End the lesson with a fun fact related to the subtopic.`)

	return b.String()
}

const clarifySystemPrompt = `You are a tutor answering a learner's question about a lesson they just read. Answer the doubt directly and briefly, staying within the subtopic.`

func buildClarifyUserMessage(topic, subtopic, doubt string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Subtopic: %s\n", subtopic)
	fmt.Fprintf(&b, "\nI have a doubt on this: %s\n", doubt)

	return b.String()
}
