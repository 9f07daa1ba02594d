// Package cache stores computed layout plans and rendered artifacts keyed by
// content hashes, so an unchanged topology is never laid out or drawn twice.
//
// Backends:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP service and workers
//   - [MongoCache]: shared cache with a TTL index
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer]; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache TTLs.
const (
	// TTLPlan is how long a computed layout plan stays cached.
	TTLPlan = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// PlanKeyOpts are the layout parameters that change a plan.
type PlanKeyOpts struct {
	RowHeight      float64 `json:"row_height"`
	NAPSpacing     float64 `json:"nap_spacing"`
	LCPStartX      float64 `json:"lcp_start_x"`
	LCPsPerRow     int     `json:"lcps_per_row"`
	ColumnGutter   float64 `json:"column_gutter"`
	ClosureOffsetX float64 `json:"closure_offset_x"`
	ClosureRise    float64 `json:"closure_rise"`
	Margin         float64 `json:"margin"`
	BaseY          float64 `json:"base_y"`
}

// ArtifactKeyOpts are the rendering parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Theme     string `json:"theme"`
	DPI       int    `json:"dpi"`
	Footer    string `json:"footer"`
	Converter string `json:"converter"`
}

// Keyer builds cache keys.
type Keyer interface {
	// PlanKey keys a layout plan by the topology content hash.
	PlanKey(topologyHash string, opts PlanKeyOpts) string
	// ArtifactKey keys a rendered artifact by the plan content hash.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes all options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey returns "plan:<sha256>".
func (DefaultKeyer) PlanKey(topologyHash string, opts PlanKeyOpts) string {
	return hashKey("plan", topologyHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
