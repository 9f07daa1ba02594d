package topology

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/matzehuels/fibersld/pkg/errors"
)

// Parse decodes a topology document. See the package documentation for the
// coercion rules; only malformed JSON and missing ids are errors.
func Parse(data []byte) (*Topology, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty topology document")
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode topology document")
	}

	t := &Topology{
		ProjectName:  string(doc.ProjectName),
		Latitude:     string(doc.Lat),
		Longitude:    string(doc.Long),
		FeederCable:  string(doc.FeederCable),
		FeederLength: string(doc.FeederLength),
	}

	lcps := rawList(doc.LCPs)
	t.LCPs = make([]LCP, 0, len(lcps))
	for i, raw := range lcps {
		var rl rawLCP
		if err := json.Unmarshal(raw, &rl); err != nil || rl.ID == nil || isBlank(string(*rl.ID)) {
			return nil, newMissingID(i, -1)
		}

		l := LCP{
			ID:               strings.TrimSpace(string(*rl.ID)),
			SpanFromPrevious: string(rl.SpanFromPrev),
			FibersUsed:       string(rl.FibersUsed),
			CoLocator:        string(rl.CoLocator),
			Landmark:         string(rl.Landmark),
		}

		naps := rawList(rl.NAPs)
		l.NAPs = make([]NAP, 0, len(naps))
		for j, rawNap := range naps {
			var rn rawNAP
			if err := json.Unmarshal(rawNap, &rn); err != nil || rn.ID == nil || isBlank(string(*rn.ID)) {
				return nil, newMissingID(i, j)
			}
			l.NAPs = append(l.NAPs, NAP{
				ID:         strings.TrimSpace(string(*rn.ID)),
				Span:       string(rn.Span),
				FibersUsed: string(rn.FibersUsed),
				CoLocator:  string(rn.CoLocator),
				Landmark:   string(rn.Landmark),
			})
		}
		t.LCPs = append(t.LCPs, l)
	}
	return t, nil
}

var fenceRe = regexp.MustCompile("```(?:json|JSON)?")

// CleanModelOutput removes Markdown code fences around a JSON payload.
func CleanModelOutput(raw []byte) []byte {
	return bytes.TrimSpace(fenceRe.ReplaceAll(raw, nil))
}

type rawDocument struct {
	ProjectName  text            `json:"project_name"`
	Lat          text            `json:"lat"`
	Long         text            `json:"long"`
	FeederCable  text            `json:"feeder_cable"`
	FeederLength text            `json:"feeder_length"`
	LCPs         json.RawMessage `json:"lcps"`
}

type rawLCP struct {
	ID           *text           `json:"id"`
	SpanFromPrev text            `json:"span_from_prev"`
	FibersUsed   text            `json:"fibers_used"`
	CoLocator    text            `json:"co_locator"`
	Landmark     text            `json:"landmark"`
	NAPs         json.RawMessage `json:"naps"`
}

type rawNAP struct {
	ID         *text `json:"id"`
	Span       text  `json:"span"`
	FibersUsed text  `json:"fibers_used"`
	CoLocator  text  `json:"co_locator"`
	Landmark   text  `json:"landmark"`
}

// text decodes any JSON value into its display string.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
	case data[0] == '{', data[0] == '[':
		*t = ""
	default:
		*t = text(data)
	}
	return nil
}

// rawList splits a JSON array into its elements. Anything that is not an
// array yields no elements.
func rawList(data json.RawMessage) []json.RawMessage {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
