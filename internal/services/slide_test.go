package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allana0-dev/refynely-backend/internal/model"
)

func strptr(s string) *string { return &s }

func TestUpdateContentSnapshotsBeforeWrite(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)
	ctx := context.Background()
	id := deck.Slides[0].SlideID

	updated, err := svc.UpdateContent(ctx, "u1", id, SlideContentUpdate{
		Content:      strptr("revised"),
		SpeakerNotes: strptr("breathe"),
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)
	assert.Equal(t, "breathe", updated.SpeakerNotes)
	// Untouched field keeps its value.
	assert.Equal(t, "Intro", updated.Title)

	versions, err := fs.Versions().ListBySlide(ctx, id)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "hello", versions[0].Content)
	assert.Equal(t, "smile", versions[0].SpeakerNotes)
	require.NotNil(t, versions[0].Layout)
}

func TestUpdateContentRejectsEmptyUpdate(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)

	_, err := svc.UpdateContent(context.Background(), "u1", deck.Slides[0].SlideID, SlideContentUpdate{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateContentForeignOwnerReadsAsAbsent(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)

	_, err := svc.UpdateContent(context.Background(), "u2", deck.Slides[0].SlideID, SlideContentUpdate{Content: strptr("x")})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEverySuccessfulEditAddsOneVersion(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)
	ctx := context.Background()
	id := deck.Slides[1].SlideID

	for i, text := range []string{"one", "two", "three"} {
		_, err := svc.UpdateContent(ctx, "u1", id, SlideContentUpdate{Content: strptr(text)})
		require.NoError(t, err)
		versions, err := fs.Versions().ListBySlide(ctx, id)
		require.NoError(t, err)
		assert.Len(t, versions, i+1)
	}

	// Newest first: top of the list is the state before the last edit.
	versions, err := fs.Versions().ListBySlide(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "two", versions[0].Content)
	assert.Equal(t, "one", versions[1].Content)
	assert.Equal(t, "pain", versions[2].Content)
}

func TestRegeneratePatchesLayoutText(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)
	ctx := context.Background()
	id := deck.Slides[0].SlideID

	updated, err := svc.Regenerate(ctx, "u1", deck.DeckID, id, RegenerateRequest{
		Title:   "Opening",
		Content: "fresh copy",
	})
	require.NoError(t, err)
	assert.Equal(t, "Opening", updated.Title)
	assert.Equal(t, "fresh copy", updated.Content)
	// Unsubmitted notes survive.
	assert.Equal(t, "smile", updated.SpeakerNotes)

	versions, err := fs.Versions().ListBySlide(ctx, id)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "hello", versions[0].Content)
}

func TestRegenerateChecksDeckMembership(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	d1 := seedDeck(t, deckSvc, "u1")
	d2 := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)

	_, err := svc.Regenerate(context.Background(), "u1", d1.DeckID, d2.Slides[0].SlideID, RegenerateRequest{Content: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCreateSlideAppendsAtTail(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)
	ctx := context.Background()

	created, err := svc.CreateSlide(ctx, "u1", deck.DeckID, "Appendix", "extras", "")
	require.NoError(t, err)
	assert.Equal(t, 3, created.OrderIndex)
	require.NotNil(t, created.Layout)

	_, err = svc.CreateSlide(ctx, "u2", deck.DeckID, "Nope", "", "")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteSlideRenumbersTail(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)
	ctx := context.Background()

	require.NoError(t, svc.DeleteSlide(ctx, "u1", deck.Slides[1].SlideID))

	got, err := deckSvc.GetDeck(ctx, "u1", deck.DeckID)
	require.NoError(t, err)
	require.Len(t, got.Slides, 2)
	assert.Equal(t, "Intro", got.Slides[0].Title)
	assert.Equal(t, "Solution", got.Slides[1].Title)
	assert.Equal(t, 0, got.Slides[0].OrderIndex)
	assert.Equal(t, 1, got.Slides[1].OrderIndex)
}

func TestBulkUpdateSnapshotsEverySlide(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)
	ctx := context.Background()

	slides, err := svc.BulkUpdate(ctx, "u1", deck.DeckID, []BulkSlideUpdate{
		{SlideID: deck.Slides[0].SlideID, SlideContentUpdate: SlideContentUpdate{Content: strptr("rewritten intro")}},
		{SlideID: deck.Slides[2].SlideID, SlideContentUpdate: SlideContentUpdate{Title: strptr("The Fix")}},
	})
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "rewritten intro", slides[0].Content)
	assert.Equal(t, "The Fix", slides[1].Title)

	for _, id := range []string{deck.Slides[0].SlideID, deck.Slides[2].SlideID} {
		versions, err := fs.Versions().ListBySlide(ctx, id)
		require.NoError(t, err)
		assert.Len(t, versions, 1)
	}
	versions, err := fs.Versions().ListBySlide(ctx, deck.Slides[1].SlideID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestBulkUpdateRejectsForeignSlideBeforeWriting(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	mine := seedDeck(t, deckSvc, "u1")
	other := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)
	ctx := context.Background()

	_, err := svc.BulkUpdate(ctx, "u1", mine.DeckID, []BulkSlideUpdate{
		{SlideID: mine.Slides[0].SlideID, SlideContentUpdate: SlideContentUpdate{Content: strptr("x")}},
		{SlideID: other.Slides[0].SlideID, SlideContentUpdate: SlideContentUpdate{Content: strptr("y")}},
	})
	assert.ErrorIs(t, err, model.ErrNotFound)

	// Nothing was written, not even for the in-deck slide.
	got, err := fs.Slides().Get(ctx, mine.Slides[0].SlideID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	versions, err := fs.Versions().ListBySlide(ctx, mine.Slides[0].SlideID)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestBulkUpdateRejectsEmptyBatch(t *testing.T) {
	fs := newFakeStore()
	deckSvc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, deckSvc, "u1")
	svc := NewSlideService(fs)

	_, err := svc.BulkUpdate(context.Background(), "u1", deck.DeckID, nil)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.BulkUpdate(context.Background(), "u1", deck.DeckID, []BulkSlideUpdate{
		{SlideID: deck.Slides[0].SlideID},
	})
	assert.ErrorIs(t, err, model.ErrValidation)
}
