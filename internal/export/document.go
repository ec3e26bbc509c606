package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/allana0-dev/refynely-backend/internal/model"
)

// Page geometry and type sizes for the paginated document, in points.
const (
	docCoverSize   = 24.0
	docHeadingSize = 20.0
	docBodySize    = 12.0
	docLabelSize   = 14.0
	docNotesSize   = 10.0

	docHeadingLead = 26.0
	docBodyLead    = 16.0
	docNotesLead   = 14.0
)

// Document renders the deck as a paginated PDF: one cover page, one content
// page per slide, and one notes page after each slide with speaker notes.
func Document(deck *model.Deck) ([]byte, error) {
	pdf, err := buildDocument(deck)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

// buildDocument assembles the page sequence. Split out so tests can inspect
// page counts without parsing PDF output.
func buildDocument(deck *model.Deck) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, pageH := pdf.GetPageSize()

	// Cover: deck title centered on both axes using measured text width.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", docCoverSize)
	title := tr(deck.Title)
	textW := pdf.GetStringWidth(title)
	pdf.Text((pageW-textW)/2, (pageH+docCoverSize)/2, title)

	for _, slide := range deck.Slides {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", docHeadingSize)
		pdf.MultiCell(0, docHeadingLead, tr(slide.Title), "", "L", false)
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", docBodySize)
		// MultiCell keeps the outline's own line breaks and word-wraps long
		// lines; no further reflow.
		pdf.MultiCell(0, docBodyLead, tr(slide.Content), "", "L", false)

		if slide.SpeakerNotes != "" {
			pdf.AddPage()
			pdf.SetTextColor(128, 128, 128)
			pdf.SetFont("Helvetica", "U", docLabelSize)
			pdf.MultiCell(0, docHeadingLead, "Speaker Notes", "", "L", false)
			pdf.Ln(6)
			pdf.SetFont("Helvetica", "", docNotesSize)
			pdf.MultiCell(0, docNotesLead, tr(slide.SpeakerNotes), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}
	return pdf, nil
}
