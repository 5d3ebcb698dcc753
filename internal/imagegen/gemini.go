package imagegen

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/abhisek/visiq/internal/llm"
)

// GeminiProvider generates images with Imagen through the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGeminiProvider creates an Imagen-backed provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := llm.NewGenAIClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client, cfg: cfg}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	resp, err := p.client.Models.GenerateImages(ctx, p.cfg.Model, req.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: int32(req.count()),
		OutputMIMEType: p.cfg.MIMEType,
		AspectRatio:    p.cfg.AspectRatio,
	})
	if err != nil {
		return nil, llm.MapGenAIError(err)
	}

	res := &Result{Model: p.cfg.Model}
	var filtered string
	for _, gi := range resp.GeneratedImages {
		if gi == nil {
			continue
		}
		if gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			if gi.RAIFilteredReason != "" {
				filtered = gi.RAIFilteredReason
			}
			continue
		}
		mime := gi.Image.MIMEType
		if mime == "" {
			mime = p.cfg.MIMEType
		}
		res.Images = append(res.Images, Image{Data: gi.Image.ImageBytes, MIMEType: mime})
	}

	if len(res.Images) == 0 {
		if filtered != "" {
			return nil, &ErrFiltered{Reason: filtered}
		}
		return nil, ErrNoImage
	}
	return res, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.cfg.Model
}
