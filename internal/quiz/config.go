package quiz

// Config controls quiz generation.
type Config struct {
	// Validators run in order on every generated batch; the first failure
	// rejects the batch.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxWeakTopics caps how many weak topics are named in the prompt.
	MaxWeakTopics int
}

// DefaultConfig returns the standard validator chain and defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&CountValidator{Want: QuestionCount},
			&StructuralValidator{},
		},
		MaxTokens:     8192,
		Temperature:   0.7,
		MaxWeakTopics: 8,
	}
}
