package imagegen

import (
	"context"

	"github.com/abhisek/visiq/internal/llm"
)

// PurposeQuizImage labels question visuals in the usage log.
const PurposeQuizImage = "quiz-image"

// Source adapts a Provider to the quiz's image source: one prompt in,
// one data URL out.
type Source struct {
	provider Provider
}

// NewSource wraps p.
func NewSource(p Provider) *Source {
	return &Source{provider: p}
}

// ImageURL generates a single image for prompt and returns it as a data URL.
func (s *Source) ImageURL(ctx context.Context, prompt string) (string, error) {
	res, err := s.provider.Generate(llm.WithPurpose(ctx, PurposeQuizImage), Request{Prompt: prompt, Count: 1})
	if err != nil {
		return "", err
	}
	if res == nil || len(res.Images) == 0 || len(res.Images[0].Data) == 0 {
		return "", ErrNoImage
	}
	return res.Images[0].DataURL(), nil
}
