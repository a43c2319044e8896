package roadmap

// Config holds generation settings.
type Config struct {
	RoadmapMaxTokens int
	ContentMaxTokens int
	ClarifyMaxTokens int
	Temperature      float64
}

// DefaultConfig returns sensible defaults for roadmap and lesson generation.
func DefaultConfig() Config {
	return Config{
		RoadmapMaxTokens: 4096,
		ContentMaxTokens: 8192,
		ClarifyMaxTokens: 1024,
		Temperature:      0.4,
	}
}
