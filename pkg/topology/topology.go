package topology

import (
	"fmt"

	"github.com/matzehuels/fibersld/pkg/errors"
)

// Topology is the root aggregate of an FTTH as-built plan.
// Coordinates are display strings and are never validated.
type Topology struct {
	ProjectName  string `json:"project_name" yaml:"project_name"`
	Latitude     string `json:"lat" yaml:"lat"`
	Longitude    string `json:"long" yaml:"long"`
	FeederCable  string `json:"feeder_cable" yaml:"feeder_cable"`
	FeederLength string `json:"feeder_length" yaml:"feeder_length"`
	LCPs         []LCP  `json:"lcps" yaml:"lcps"`
}

// LCP is a local convergence point: a splitter fed by the feeder cable.
type LCP struct {
	ID               string `json:"id" yaml:"id"`
	SpanFromPrevious string `json:"span_from_prev" yaml:"span_from_prev"`
	FibersUsed       string `json:"fibers_used" yaml:"fibers_used"`
	CoLocator        string `json:"co_locator" yaml:"co_locator"`
	Landmark         string `json:"landmark" yaml:"landmark"`
	NAPs             []NAP  `json:"naps" yaml:"naps"`
}

// NAP is a network access point, the subscriber-facing leaf.
type NAP struct {
	ID         string `json:"id" yaml:"id"`
	Span       string `json:"span" yaml:"span"`
	FibersUsed string `json:"fibers_used" yaml:"fibers_used"`
	CoLocator  string `json:"co_locator" yaml:"co_locator"`
	Landmark   string `json:"landmark" yaml:"landmark"`
}

// IsEmpty reports whether the topology has nothing to draw.
func (t *Topology) IsEmpty() bool {
	return t == nil || len(t.LCPs) == 0
}

// NAPCount returns the number of NAPs across all LCPs.
func (t *Topology) NAPCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, l := range t.LCPs {
		n += len(l.NAPs)
	}
	return n
}

// Validate checks that every LCP and NAP carries an id.
// The first offending node is reported as a *MissingIDError.
func (t *Topology) Validate() error {
	if t == nil {
		return nil
	}
	for i, l := range t.LCPs {
		if isBlank(l.ID) {
			return newMissingID(i, -1)
		}
		for j, n := range l.NAPs {
			if isBlank(n.ID) {
				return newMissingID(i, j)
			}
		}
	}
	return nil
}

// MissingIDError reports an LCP or NAP without an id.
// NAP is -1 when the LCP itself is missing its id. Row and Column are the
// node's grid slot when known (set by the layout engine), -1 otherwise.
type MissingIDError struct {
	LCP    int
	NAP    int
	Row    int
	Column int
}

func newMissingID(lcp, nap int) *MissingIDError {
	return &MissingIDError{LCP: lcp, NAP: nap, Row: -1, Column: -1}
}

// Path returns the JSON-style location of the node, e.g. "lcps[2].naps[0]".
func (e *MissingIDError) Path() string {
	if e.NAP < 0 {
		return fmt.Sprintf("lcps[%d]", e.LCP)
	}
	return fmt.Sprintf("lcps[%d].naps[%d]", e.LCP, e.NAP)
}

func (e *MissingIDError) Error() string {
	if e.Row >= 0 && e.Column >= 0 {
		return fmt.Sprintf("%s (row %d, column %d): missing id", e.Path(), e.Row, e.Column)
	}
	return e.Path() + ": missing id"
}

// Unwrap exposes the MISSING_ID code to errors.Is and errors.GetCode.
func (e *MissingIDError) Unwrap() error {
	return errors.New(errors.ErrCodeMissingID, "%s has no id", e.Path())
}

// WithGrid returns a copy of e carrying the node's grid slot.
func (e *MissingIDError) WithGrid(row, column int) *MissingIDError {
	c := *e
	c.Row, c.Column = row, column
	return &c
}
