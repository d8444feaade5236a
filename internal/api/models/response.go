package models

import (
	"time"

	"github.com/ethan-geography-nea/price-paid/internal/pipeline"
)

// ErrorResponse is the envelope for all error responses
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RankedProperty is one row of a ranking response
type RankedProperty struct {
	Rank     int       `json:"rank"`
	Property string    `json:"property"`
	Score    float64   `json:"score"`
	Sales    int       `json:"sales"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
	SpanDays int64     `json:"span_days"`
}

// RankResponse lists properties descending by score
type RankResponse struct {
	Properties []RankedProperty `json:"properties"`
}

// AnalyseResponse reports a completed pipeline run
type AnalyseResponse struct {
	Status  string           `json:"status"`
	Summary *pipeline.Result `json:"summary"`
}
