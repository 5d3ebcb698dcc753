package quizgen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order over the decoded batch; the first failure
	// rejects the whole batch.
	Validators []Validator

	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&CountValidator{},
			&StructuralValidator{},
			&OptionsValidator{MinOptions: 2, MaxOptions: 6},
			&UniqueValidator{},
		},
		MaxTokens:   16384,
		Temperature: 0.9,
	}
}
