package roadmap

import "github.com/abhisek/pathwise/internal/llm"

// RoadmapSchema defines the JSON schema for a study roadmap.
var RoadmapSchema = &llm.Schema{
	Name:        "roadmap",
	Description: "An ordered study roadmap of topics, each with its subtopics",
	Definition: map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"Topic_Name": map[string]any{
					"type":        "string",
					"description": "The name of the topic.",
				},
				"subtopics": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":        "string",
						"description": "A subtopic of the topic, with a short explanation.",
					},
				},
			},
			"required":             []any{"Topic_Name", "subtopics"},
			"additionalProperties": false,
		},
	},
}

// ContentSchema defines the JSON schema for a subtopic lesson. An empty
// array passes the schema and is rejected by the service.
var ContentSchema = &llm.Schema{
	Name:        "lesson-content",
	Description: "A detailed text lesson split into headed sections",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"heading": map[string]any{
					"type":        "string",
					"description": "Heading of the section.",
				},
				"lesson": map[string]any{
					"type":        "string",
					"description": "Complete, detailed text lesson for the section. End with a fun fact related to the subtopic.",
				},
			},
			"required":             []any{"heading", "lesson"},
			"additionalProperties": false,
		},
	},
}

// ClarificationSchema defines the JSON schema for answering a doubt.
var ClarificationSchema = &llm.Schema{
	Name:        "clarification",
	Description: "A direct answer to the learner's doubt",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"description": "Plain-language answer to the doubt, with a short example when it helps.",
			},
		},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}
