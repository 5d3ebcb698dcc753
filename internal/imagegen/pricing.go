package imagegen

import "strings"

// ImageCost is the USD price of one generated image.
type ImageCost struct {
	PerImage float64
}

// Cost returns the USD cost of n images.
func (c ImageCost) Cost(n int) float64 {
	return float64(n) * c.PerImage
}

// LookupImageCost returns pricing for an image model, or nil if unknown.
// Versioned IDs fall back to their family prefix.
func LookupImageCost(modelID string) *ImageCost {
	if c, ok := imageCosts[modelID]; ok {
		return &c
	}
	for prefix, c := range imageCostPrefixes {
		if strings.HasPrefix(modelID, prefix) {
			return &c
		}
	}
	return nil
}

// Standard-quality square images.
var imageCosts = map[string]ImageCost{
	"imagen-4.0-generate-001":       {0.04},
	"imagen-4.0-fast-generate-001":  {0.02},
	"imagen-4.0-ultra-generate-001": {0.06},
	"imagen-3.0-generate-002":       {0.03},
	"dall-e-3":                      {0.04},
	"dall-e-2":                      {0.02},
	"gpt-image-1":                   {0.042},
	"mock":                          {0},
}

var imageCostPrefixes = map[string]ImageCost{
	"imagen-4.0-fast":  {0.02},
	"imagen-4.0-ultra": {0.06},
}
