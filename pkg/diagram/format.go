package diagram

import (
	"strings"

	"github.com/matzehuels/fibersld/pkg/errors"
)

// Format is an export format.
type Format string

const (
	PNG Format = "png"
	PDF Format = "pdf"
	SVG Format = "svg"
)

// Formats lists every export format.
var Formats = []Format{PNG, PDF, SVG}

// ParseFormat accepts a format name in any case, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case PNG, PDF, SVG:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want png, pdf or svg)", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case PDF:
		return "application/pdf"
	case SVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// Ext returns the file extension of f, including the dot.
func (f Format) Ext() string { return "." + string(f) }
