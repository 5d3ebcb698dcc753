package store

import (
	"context"
	"time"
)

// Kind distinguishes text generation calls from image generation calls.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// GenerationEventData captures a single provider call.
type GenerationEventData struct {
	SessionID    string
	Kind         Kind
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	Images       int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// GenerationEvent is a stored provider call.
type GenerationEvent struct {
	ID        int
	Timestamp time.Time
	GenerationEventData
}

// PurposeUsage aggregates calls by purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	Images       int
	AvgLatencyMs int64
}

// ModelUsage aggregates calls by kind and model for cost estimates.
type ModelUsage struct {
	Kind         Kind
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	Images       int
}

// EventRepo provides append and query access to the usage log.
type EventRepo interface {
	// AppendGeneration records a provider call.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// QueryGenerations returns events newest first.
	QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error)

	// GetGeneration returns a single event, or nil if it does not exist.
	GetGeneration(ctx context.Context, id int) (*GenerationEvent, error)

	// UsageByPurpose aggregates successful and failed calls per purpose.
	UsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// UsageByModel aggregates successful calls per kind and model.
	UsageByModel(ctx context.Context) ([]ModelUsage, error)
}
