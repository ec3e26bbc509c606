// Package export renders a fully-hydrated deck aggregate into one of two
// binary deliverable formats. Renderers are pure: they read the aggregate and
// either return a complete buffer or fail without partial output.
package export

import (
	"fmt"

	"github.com/allana0-dev/refynely-backend/internal/layout"
	"github.com/allana0-dev/refynely-backend/internal/model"
)

// Format selects the deliverable container.
type Format string

const (
	FormatDocument Format = "document"
	FormatPackage  Format = "package"
)

// MIME types for the two containers.
const (
	MIMEDocument = "application/pdf"
	MIMEPackage  = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// ParseFormat validates a format selector. Anything outside the two
// recognized values is a validation error for the caller to map.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatDocument, FormatPackage:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", model.ErrValidation, s)
	}
}

// MIME returns the container MIME type for a parsed format.
func (f Format) MIME() string {
	if f == FormatPackage {
		return MIMEPackage
	}
	return MIMEDocument
}

// Hydrate returns a copy of the deck in which every slide carries a layout,
// synthesizing the default title+text layout where one is missing. The input
// is not modified.
func Hydrate(deck *model.Deck) *model.Deck {
	out := *deck
	out.Slides = make([]*model.Slide, len(deck.Slides))
	for i, sl := range deck.Slides {
		cp := *sl
		if cp.Layout == nil {
			cp.Layout = layout.BuildDefault(cp.Title, cp.Content)
		}
		out.Slides[i] = &cp
	}
	return &out
}

// Render dispatches to the renderer for the given format.
func Render(deck *model.Deck, f Format) ([]byte, error) {
	hydrated := Hydrate(deck)
	switch f {
	case FormatDocument:
		return Document(hydrated)
	case FormatPackage:
		return Package(hydrated)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", model.ErrValidation, string(f))
	}
}
