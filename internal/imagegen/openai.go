package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/abhisek/visiq/internal/llm"
)

// OpenAIProvider generates images with the OpenAI images API.
type OpenAIProvider struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAIProvider creates an OpenAI images provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(config), cfg: cfg}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          p.cfg.Model,
		N:              req.count(),
		Size:           p.cfg.Size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	res := &Result{Model: p.cfg.Model}
	for _, d := range resp.Data {
		if d.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decode image payload: %w", err)
		}
		res.Images = append(res.Images, Image{Data: data, MIMEType: "image/png"})
	}
	if len(res.Images) == 0 {
		return nil, ErrNoImage
	}
	return res, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.cfg.Model
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &llm.ErrRateLimit{Err: err}
		case apiErr.Code == "content_policy_violation":
			return &ErrFiltered{Reason: apiErr.Message}
		}
	}
	return &llm.ErrProviderUnavailable{Err: err}
}
