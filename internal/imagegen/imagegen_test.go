package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/visiq/internal/llm"
	"github.com/abhisek/visiq/internal/store"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDataURLRoundTrip(t *testing.T) {
	img := Image{Data: []byte{0xff, 0xd8, 0xff}, MIMEType: "image/jpeg"}
	url := img.DataURL()
	if url != "data:image/jpeg;base64,/9j/" {
		t.Fatalf("DataURL = %q", url)
	}

	back, err := ParseDataURL(url)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if back.MIMEType != "image/jpeg" || !bytes.Equal(back.Data, img.Data) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestDataURL_DefaultMIME(t *testing.T) {
	if got := (Image{Data: []byte("x")}).DataURL(); !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Fatalf("DataURL = %q", got)
	}
}

func TestParseDataURL_Errors(t *testing.T) {
	for _, in := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,***",
	} {
		if _, err := ParseDataURL(in); err == nil {
			t.Errorf("ParseDataURL(%q) expected error", in)
		}
	}
}

func TestPatternImage_Deterministic(t *testing.T) {
	a := PatternImage("three rotating triangles", 24)
	b := PatternImage("three rotating triangles", 24)
	c := PatternImage("a cube net", 24)

	if !bytes.Equal(a.Data, b.Data) {
		t.Fatal("same seed produced different images")
	}
	if bytes.Equal(a.Data, c.Data) {
		t.Fatal("different seeds produced identical images")
	}
	decoded, err := png.Decode(bytes.NewReader(a.Data))
	if err != nil {
		t.Fatalf("pattern is not a PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 24 {
		t.Fatalf("width = %d, want 24", decoded.Bounds().Dx())
	}
}

func TestMockProvider_QueueThenPattern(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrFiltered{Reason: "unsafe"}},
		MockResponse{},
	)
	ctx := context.Background()

	var filtered *ErrFiltered
	if _, err := mock.Generate(ctx, Request{Prompt: "a"}); !errors.As(err, &filtered) {
		t.Fatalf("expected ErrFiltered, got %v", err)
	}
	if _, err := mock.Generate(ctx, Request{Prompt: "b"}); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	res, err := mock.Generate(ctx, Request{Prompt: "c"})
	if err != nil || len(res.Images) != 1 {
		t.Fatalf("expected fallback pattern, got %v, %v", res, err)
	}
	if mock.CallCount() != 3 || mock.Prompts[2] != "c" {
		t.Fatalf("prompts = %v", mock.Prompts)
	}
}

func TestSource_ImageURL(t *testing.T) {
	mock := NewMockProvider(MockResponse{Images: []Image{{Data: []byte("png"), MIMEType: "image/png"}}})
	src := NewSource(mock)

	url, err := src.ImageURL(context.Background(), "spiral")
	if err != nil {
		t.Fatalf("ImageURL: %v", err)
	}
	if url != "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("png")) {
		t.Fatalf("url = %q", url)
	}
}

type emptyProvider struct{}

func (emptyProvider) Generate(context.Context, Request) (*Result, error) { return &Result{}, nil }
func (emptyProvider) ModelID() string                                    { return "empty" }

func TestSource_NoImage(t *testing.T) {
	if _, err := NewSource(emptyProvider{}).ImageURL(context.Background(), "x"); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestLoggingProvider_RecordsImageEvent(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(MockResponse{Images: []Image{{Data: make([]byte, 10), MIMEType: "image/jpeg"}}})
	src := NewSource(WithLogging(mock, "mock", s.EventRepo(), quietLogger()))

	ctx := llm.WithSession(context.Background(), "sess-9")
	if _, err := src.ImageURL(ctx, "nested squares"); err != nil {
		t.Fatalf("ImageURL: %v", err)
	}

	events, err := s.EventRepo().QueryGenerations(ctx, store.QueryOpts{Purpose: PurposeQuizImage})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Kind != store.KindImage || ev.Images != 1 || ev.SessionID != "sess-9" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.RequestBody != "nested squares" || ev.ResponseBody != "image/jpeg 10 bytes" {
		t.Fatalf("bodies = %q / %q", ev.RequestBody, ev.ResponseBody)
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (blockingProvider) ModelID() string { return "block" }

func TestTimeoutProvider(t *testing.T) {
	_, err := WithTimeout(blockingProvider{}, 5*time.Millisecond).Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("VISIQ_IMAGE_PROVIDER", "openai")
	t.Setenv("VISIQ_IMAGE_MODEL", "gpt-image-1")
	t.Setenv("VISIQ_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-bare")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" || cfg.OpenAI.Model != "gpt-image-1" || cfg.OpenAI.APIKey != "sk-bare" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := (Config{Provider: "gemini"}).Validate(); err == nil {
		t.Fatal("expected missing gemini key error")
	}
	if err := (Config{Provider: "midjourney"}).Validate(); err == nil {
		t.Fatal("expected unknown provider error")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, quietLogger())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}

func TestLookupImageCost(t *testing.T) {
	if c := LookupImageCost("imagen-4.0-generate-001"); c == nil || math.Abs(c.Cost(3)-0.12) > 1e-9 {
		t.Fatalf("imagen cost = %+v", c)
	}
	if c := LookupImageCost("imagen-4.0-fast-generate-002"); c == nil || c.PerImage != 0.02 {
		t.Fatalf("prefix fallback = %+v", c)
	}
	if LookupImageCost("unknown") != nil {
		t.Fatal("expected nil for unknown model")
	}
}

func TestOpenAIProvider_CreateImage(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data": []map[string]any{
				{"b64_json": base64.StdEncoding.EncodeToString([]byte("pngbytes"))},
			},
		})
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig().OpenAI
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL + "/v1"
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	res, err := p.Generate(context.Background(), Request{Prompt: "a 3x3 grid with one missing tile"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if body["model"] != "dall-e-3" || body["response_format"] != "b64_json" || body["size"] != "1024x1024" {
		t.Fatalf("unexpected request: %v", body)
	}
	if string(res.Images[0].Data) != "pngbytes" || res.Images[0].MIMEType != "image/png" {
		t.Fatalf("unexpected image: %+v", res.Images[0])
	}
}

func TestOpenAIProvider_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"created": 1, "data": []any{}})
	}))
	t.Cleanup(server.Close)

	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "dall-e-3", BaseURL: server.URL + "/v1"})
	if _, err := p.Generate(context.Background(), Request{Prompt: "x"}); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestGeminiProvider_GenerateImages(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"predictions": []map[string]any{
				{"bytesBase64Encoded": base64.StdEncoding.EncodeToString([]byte("jpegbytes")), "mimeType": "image/jpeg"},
			},
		})
	}))
	t.Cleanup(server.Close)

	cfg := DefaultConfig().Gemini
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL
	p, err := NewGeminiProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}

	res, err := p.Generate(context.Background(), Request{Prompt: "mirror image of an arrow"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(gotPath, "imagen-4.0-generate-001:predict") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if string(res.Images[0].Data) != "jpegbytes" || res.Images[0].MIMEType != "image/jpeg" {
		t.Fatalf("unexpected image: %+v", res.Images[0])
	}
}
