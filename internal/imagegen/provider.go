// Package imagegen turns text prompts into images for quiz questions.
package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Provider generates images from a prompt.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Result, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single image generation call.
type Request struct {
	Prompt string

	// Count is the number of images wanted. Zero means one.
	Count int
}

// Image is a single generated image.
type Image struct {
	Data     []byte
	MIMEType string
}

// DataURL returns the image as a data:<mime>;base64,... reference.
func (img Image) DataURL() string {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ParseDataURL decodes a base64 data URL produced by DataURL.
func ParseDataURL(url string) (Image, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return Image{}, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("data URL has no payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Image{}, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("decode data URL: %w", err)
	}
	return Image{Data: data, MIMEType: mime}, nil
}

// Result holds the images returned by one call.
type Result struct {
	Images []Image

	// Model is the model that served the request.
	Model string
}

// ErrNoImage indicates the provider answered but returned no usable image.
var ErrNoImage = errors.New("no image generated from prompt")

// ErrFiltered indicates the provider's safety filter dropped the image.
type ErrFiltered struct {
	Reason string
}

func (e *ErrFiltered) Error() string {
	return fmt.Sprintf("image filtered by provider: %s", e.Reason)
}

func (r Request) count() int {
	if r.Count <= 0 {
		return 1
	}
	return r.Count
}
