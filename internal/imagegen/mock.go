package imagegen

import (
	"bytes"
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"sync"
)

// MockResponse is a canned result for the MockProvider.
type MockResponse struct {
	Images []Image
	Err    error
}

// MockProvider is a deterministic Provider for tests and offline play.
// Queued responses are returned in FIFO order; once the queue is empty
// it draws a small pattern seeded by the prompt.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Prompts   []string
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, req.Prompt)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(m.responses) > 0 {
		resp := m.responses[0]
		m.responses = m.responses[1:]
		if resp.Err != nil {
			return nil, resp.Err
		}
		if len(resp.Images) == 0 {
			return nil, ErrNoImage
		}
		return &Result{Images: resp.Images, Model: "mock"}, nil
	}

	return &Result{Images: []Image{PatternImage(req.Prompt, 24)}, Model: "mock"}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// PatternImage renders a size x size symmetric block pattern as PNG.
// The same seed always yields the same image.
func PatternImage(seed string, size int) Image {
	h := fnv.New64a()
	h.Write([]byte(seed))
	bits := h.Sum64()

	fg := color.RGBA{R: uint8(bits >> 8), G: uint8(bits >> 16), B: uint8(bits >> 24), A: 255}
	bg := color.RGBA{R: 24, G: 24, B: 32, A: 255}

	const cells = 6
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			cx, cy := x*cells/size, y*cells/size
			if cx >= cells/2 {
				cx = cells - 1 - cx
			}
			c := bg
			if bits>>(uint(cy*cells/2+cx)+32)&1 == 1 {
				c = fg
			}
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	// Encoding an in-memory RGBA image cannot fail.
	_ = png.Encode(&buf, img)
	return Image{Data: buf.Bytes(), MIMEType: "image/png"}
}
