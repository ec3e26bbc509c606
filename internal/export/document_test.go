package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allana0-dev/refynely-backend/internal/model"
)

func testDeck() *model.Deck {
	return &model.Deck{
		DeckID:  "d1",
		OwnerID: "u1",
		Title:   "Q3 Review",
		Slides: []*model.Slide{
			{SlideID: "s1", DeckID: "d1", Title: "Agenda", Content: "One\nTwo", OrderIndex: 0},
			{SlideID: "s2", DeckID: "d1", Title: "Numbers", Content: "Revenue up", SpeakerNotes: "pause here", OrderIndex: 1},
		},
	}
}

func TestDocumentPageCount(t *testing.T) {
	pdf, err := buildDocument(Hydrate(testDeck()))
	require.NoError(t, err)

	// Cover, two slide pages, one notes page.
	assert.Equal(t, 4, pdf.PageCount())
}

func TestDocumentEmptyDeckHasCoverOnly(t *testing.T) {
	deck := &model.Deck{DeckID: "d1", OwnerID: "u1", Title: "Empty"}
	pdf, err := buildDocument(Hydrate(deck))
	require.NoError(t, err)
	assert.Equal(t, 1, pdf.PageCount())
}

func TestDocumentNoNotesNoNotesPages(t *testing.T) {
	deck := testDeck()
	deck.Slides[1].SpeakerNotes = ""
	pdf, err := buildDocument(Hydrate(deck))
	require.NoError(t, err)
	assert.Equal(t, 3, pdf.PageCount())
}

func TestDocumentOutputIsPDF(t *testing.T) {
	out, err := Document(Hydrate(testDeck()))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("document")
	require.NoError(t, err)
	assert.Equal(t, FormatDocument, f)
	assert.Equal(t, MIMEDocument, f.MIME())

	f, err = ParseFormat("package")
	require.NoError(t, err)
	assert.Equal(t, FormatPackage, f)
	assert.Equal(t, MIMEPackage, f.MIME())

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestHydrateFillsMissingLayouts(t *testing.T) {
	deck := testDeck()
	deck.Slides[0].Layout = nil

	h := Hydrate(deck)
	require.NotNil(t, h.Slides[0].Layout)
	assert.NotEmpty(t, h.Slides[0].Layout.Elements)

	// The source deck is untouched.
	assert.Nil(t, deck.Slides[0].Layout)
}
