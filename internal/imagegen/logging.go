package imagegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/visiq/internal/llm"
	"github.com/abhisek/visiq/internal/store"
)

// LoggingProvider records every image call as a usage event.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	logger   logrus.FieldLogger
}

// WithLogging wraps a Provider with usage logging.
func WithLogging(p Provider, providerName string, repo store.EventRepo, logger logrus.FieldLogger) Provider {
	if logger == nil {
		logger = logrus.New()
	}
	return &LoggingProvider{inner: p, provider: providerName, repo: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	res, err := l.inner.Generate(ctx, req)

	data := store.GenerationEventData{
		SessionID:   llm.SessionFrom(ctx),
		Kind:        store.KindImage,
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     llm.PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: req.Prompt,
	}
	if res != nil {
		data.Images = len(res.Images)
		data.ResponseBody = summarize(res)
		if res.Model != "" {
			data.Model = res.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	entry := l.logger.WithFields(logrus.Fields{
		"purpose":    data.Purpose,
		"session_id": data.SessionID,
		"model":      data.Model,
		"latency_ms": data.LatencyMs,
		"images":     data.Images,
	})
	if err != nil {
		entry.WithError(err).Warn("image generation failed")
	} else {
		entry.Debug("image generation done")
	}

	if logErr := l.repo.AppendGeneration(ctx, data); logErr != nil {
		l.logger.WithError(logErr).Warn("failed to record generation event")
	}

	return res, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// summarize describes the images without storing their bytes.
func summarize(res *Result) string {
	parts := make([]string, len(res.Images))
	for i, img := range res.Images {
		parts[i] = fmt.Sprintf("%s %d bytes", img.MIMEType, len(img.Data))
	}
	return strings.Join(parts, "; ")
}
