package report

import (
	"context"
	"io"
	"strings"

	"github.com/matzehuels/hardref/pkg/errors"
	"github.com/matzehuels/hardref/pkg/hardref"
)

// Format is an output format name.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// ParseFormat validates s and returns it as a Format. Case and surrounding
// space are ignored; the empty string selects [FormatText].
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatText, nil
	}
	if err := errors.ValidateFormat(s); err != nil {
		return "", err
	}
	return Format(s), nil
}

// Options configures rendering.
type Options struct {
	// Sites lists each group's reference sites under the table (text only).
	Sites bool
	// Sizes adds the size in bytes to graph node labels (dot and svg).
	Sizes bool
}

// Write renders res to w in the given format.
func Write(ctx context.Context, w io.Writer, res *hardref.Result, format Format, opts Options) error {
	switch format {
	case FormatText, "":
		return Text(w, res, opts)
	case FormatJSON:
		return JSON(w, res)
	case FormatDOT:
		_, err := io.WriteString(w, DOT(res, opts))
		return err
	case FormatSVG:
		svg, err := SVG(ctx, DOT(res, opts))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}
