// Package quizgen produces quiz questions with a text model.
package quizgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/visiq/internal/llm"
	"github.com/abhisek/visiq/internal/quiz"
)

// PurposeQuizGen labels question generation in the usage log.
const PurposeQuizGen = "quiz-gen"

// Generator asks an llm.Provider for a batch of questions.
type Generator struct {
	provider llm.Provider
	config   Config
	logger   logrus.FieldLogger
}

// New creates a Generator.
func New(provider llm.Provider, cfg Config, logger logrus.FieldLogger) *Generator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Generator{provider: provider, config: cfg, logger: logger}
}

// quizOutput is the raw model response before validation.
type quizOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	ImagePrompt   string   `json:"image_prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// Generate returns at least count validated questions, in model order.
// Any failure rejects the whole batch.
func (g *Generator) Generate(ctx context.Context, count int) ([]quiz.Question, error) {
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", count)
	}
	ctx = llm.WithPurpose(ctx, PurposeQuizGen)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(count)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}

	qs := make([]quiz.Question, len(raw.Questions))
	for i, r := range raw.Questions {
		qs[i] = quiz.Question{
			ID:            r.ID,
			Question:      r.Question,
			ImagePrompt:   r.ImagePrompt,
			Options:       r.Options,
			CorrectAnswer: r.CorrectAnswer,
		}
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(qs, count); verr != nil {
			g.logger.WithFields(logrus.Fields{
				"validator":   verr.Validator,
				"question_id": verr.QuestionID,
			}).Warn(verr.Message)
			return nil, verr
		}
	}

	g.logger.WithFields(logrus.Fields{
		"session_id": llm.SessionFrom(ctx),
		"questions":  len(qs),
		"tokens_out": resp.Usage.OutputTokens,
	}).Info("quiz generated")
	return qs, nil
}
