package result

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Metadata describes one transform call.
type Metadata struct {
	RunID      string         `json:"run_id"`
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters"`
	DurationMs float64        `json:"duration_ms"`
	Quality    Quality        `json:"quality"`
}

// Quality groups the optional metrics of a run. A nil block was not computed.
type Quality struct {
	Counts           *Counts `json:"counts,omitempty"`
	Errors           *Errors `json:"errors,omitempty"`
	CompressionRatio float64 `json:"compression_ratio,omitempty"`
}

// Counts tallies output samples.
type Counts struct {
	NValid        int `json:"n_valid"`
	NInterpolated int `json:"n_interpolated,omitempty"`
	NNaN          int `json:"n_nan"`
}

// Errors carries reconstruction errors against the original samples.
type Errors struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
}

// NewMetadata stamps a fresh run id and the time elapsed since started.
// params is copied so later caller mutations do not leak into the envelope.
func NewMetadata(op string, params map[string]any, started time.Time, q Quality) Metadata {
	p := make(map[string]any, len(params))
	maps.Copy(p, params)

	return Metadata{
		RunID:      uuid.Must(uuid.NewV7()).String(),
		Operation:  op,
		Parameters: p,
		DurationMs: float64(time.Since(started)) / float64(time.Millisecond),
		Quality:    q,
	}
}
