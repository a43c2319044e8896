package quiz

import "github.com/abhisek/pathwise/internal/llm"

// QuestionCount is the number of questions in every quiz.
const QuestionCount = 10

func optionSchema(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

// QuizSchema defines the JSON schema for a batch of quiz questions.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "Exactly ten multiple choice questions with four options each",
	Definition: map[string]any{
		"type":     "array",
		"minItems": QuestionCount,
		"maxItems": QuestionCount,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "A multiple choice question on the given topic. Only the question text, without options or answer.",
				},
				"options": map[string]any{
					"type":     "array",
					"minItems": 1,
					"maxItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"A": optionSchema("first option"),
							"B": optionSchema("second option"),
							"C": optionSchema("third option"),
							"D": optionSchema("fourth option"),
						},
						"required":             []any{"A", "B", "C", "D"},
						"additionalProperties": false,
					},
				},
				"correctAnswer": map[string]any{
					"type":        "string",
					"enum":        []any{"A", "B", "C", "D"},
					"description": "The label of the correct option.",
				},
				"explanation": map[string]any{
					"type":        "string",
					"description": "Why the answer is correct. Length should follow the complexity of the question.",
				},
				"subTopicLayer1": map[string]any{
					"type":        "string",
					"description": "The subtopic of the main topic to which the question belongs.",
				},
				"subTopicLayer2": map[string]any{
					"type":        "string",
					"description": "The subtopic of subTopicLayer1 to which the question belongs.",
				},
			},
			"required":             []any{"question", "options", "correctAnswer", "explanation", "subTopicLayer1", "subTopicLayer2"},
			"additionalProperties": false,
		},
	},
}
