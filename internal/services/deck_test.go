package services

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allana0-dev/refynely-backend/internal/cleanup"
	"github.com/allana0-dev/refynely-backend/internal/model"
)

func newDeckService(fs *fakeStore, gen *fakeGenerator, rec *cleanup.Recorder) *DeckService {
	if gen == nil {
		gen = &fakeGenerator{}
	}
	if rec == nil {
		rec = &cleanup.Recorder{}
	}
	return NewDeckService(fs, gen, rec, zerolog.Nop())
}

func seedDeck(t *testing.T, svc *DeckService, owner string) *model.Deck {
	t.Helper()
	deck, err := svc.CreateDeck(context.Background(), owner, "Pitch", []NewSlide{
		{Title: "Intro", Content: "hello", SpeakerNotes: "smile"},
		{Title: "Problem", Content: "pain"},
		{Title: "Solution", Content: "magic", ImageSuggestions: []string{"a rocket", "a graph"}},
	})
	require.NoError(t, err)
	require.Len(t, deck.Slides, 3)
	return deck
}

func TestCreateDeckBuildsLayouts(t *testing.T) {
	fs := newFakeStore()
	svc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, svc, "u1")

	got, err := svc.GetDeck(context.Background(), "u1", deck.DeckID)
	require.NoError(t, err)
	require.Len(t, got.Slides, 3)

	for i, sl := range got.Slides {
		assert.Equal(t, i, sl.OrderIndex)
		require.NotNil(t, sl.Layout)
	}
	// Third outline carried suggestions; its layout has the placeholder.
	sug := got.Slides[2].Layout.Suggestions()
	require.NotNil(t, sug)
	assert.Equal(t, []string{"a rocket", "a graph"}, sug.Suggestions)
	assert.Nil(t, got.Slides[0].Layout.Suggestions())
}

func TestCreateDeckRequiresOwnerAndTitle(t *testing.T) {
	svc := newDeckService(newFakeStore(), nil, nil)
	_, err := svc.CreateDeck(context.Background(), "", "Pitch", nil)
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.CreateDeck(context.Background(), "u1", "", nil)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestGetDeckScopedToOwner(t *testing.T) {
	fs := newFakeStore()
	svc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, svc, "u1")

	_, err := svc.GetDeck(context.Background(), "intruder", deck.DeckID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestReorderAppliesPositions(t *testing.T) {
	fs := newFakeStore()
	svc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, svc, "u1")

	ids := []string{deck.Slides[2].SlideID, deck.Slides[0].SlideID, deck.Slides[1].SlideID}
	require.NoError(t, svc.Reorder(context.Background(), "u1", deck.DeckID, ids))

	got, err := svc.GetDeck(context.Background(), "u1", deck.DeckID)
	require.NoError(t, err)
	assert.Equal(t, "Solution", got.Slides[0].Title)
	assert.Equal(t, "Intro", got.Slides[1].Title)
	assert.Equal(t, "Problem", got.Slides[2].Title)
}

func TestReorderRejectsBadBatches(t *testing.T) {
	fs := newFakeStore()
	svc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, svc, "u1")
	ctx := context.Background()
	a, b, c := deck.Slides[0].SlideID, deck.Slides[1].SlideID, deck.Slides[2].SlideID

	// Short batch.
	err := svc.Reorder(ctx, "u1", deck.DeckID, []string{a, b})
	assert.ErrorIs(t, err, model.ErrInvalidOrder)

	// Duplicate id.
	err = svc.Reorder(ctx, "u1", deck.DeckID, []string{a, b, b})
	assert.ErrorIs(t, err, model.ErrInvalidOrder)

	// Foreign id.
	err = svc.Reorder(ctx, "u1", deck.DeckID, []string{a, b, "other"})
	assert.ErrorIs(t, err, model.ErrInvalidOrder)

	// Nothing leaked from the rejected batches.
	got, err := svc.GetDeck(ctx, "u1", deck.DeckID)
	require.NoError(t, err)
	for i, want := range []string{a, b, c} {
		assert.Equal(t, want, got.Slides[i].SlideID)
		assert.Equal(t, i, got.Slides[i].OrderIndex)
	}
}

func TestReorderConcurrentBatchesStayConsistent(t *testing.T) {
	fs := newFakeStore()
	svc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, svc, "u1")
	ctx := context.Background()
	a, b, c := deck.Slides[0].SlideID, deck.Slides[1].SlideID, deck.Slides[2].SlideID

	orders := [][]string{{a, b, c}, {c, b, a}, {b, c, a}, {a, c, b}}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(order []string) {
			defer wg.Done()
			assert.NoError(t, svc.Reorder(ctx, "u1", deck.DeckID, order))
		}(orders[i%len(orders)])
	}
	wg.Wait()

	// Whatever won, indices are a permutation 0..2 matching one full batch.
	got, err := svc.GetDeck(ctx, "u1", deck.DeckID)
	require.NoError(t, err)
	final := []string{got.Slides[0].SlideID, got.Slides[1].SlideID, got.Slides[2].SlideID}
	assert.Contains(t, orders, final)
	for i, sl := range got.Slides {
		assert.Equal(t, i, sl.OrderIndex)
	}
}

func TestGenerateSlideImageSnapshotsThenAttaches(t *testing.T) {
	fs := newFakeStore()
	gen := &fakeGenerator{ref: "data:image/png;base64,abc"}
	rec := &cleanup.Recorder{}
	svc := newDeckService(fs, gen, rec)
	deck := seedDeck(t, svc, "u1")
	ctx := context.Background()
	target := deck.Slides[2]

	updated, err := svc.GenerateSlideImage(ctx, "u1", deck.DeckID, target.SlideID, "a rocket")
	require.NoError(t, err)

	img := updated.Layout.Image()
	require.NotNil(t, img)
	assert.Equal(t, "data:image/png;base64,abc", img.URL)
	assert.Equal(t, "a rocket", img.Prompt)
	// Image and suggestions are mutually exclusive.
	assert.Nil(t, updated.Layout.Suggestions())

	// The pre-attach state was snapshotted.
	versions, err := fs.Versions().ListBySlide(ctx, target.SlideID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	require.NotNil(t, versions[0].Layout)
	assert.Nil(t, versions[0].Layout.Image())
	assert.NotNil(t, versions[0].Layout.Suggestions())

	// Embedded data URIs schedule no deletion.
	assert.Empty(t, rec.Actions())
}

func TestGenerateSlideImageSchedulesCleanupForReplacedURL(t *testing.T) {
	fs := newFakeStore()
	gen := &fakeGenerator{ref: "https://cdn.example.com/img/new.png"}
	rec := &cleanup.Recorder{}
	svc := newDeckService(fs, gen, rec)
	deck := seedDeck(t, svc, "u1")
	ctx := context.Background()
	id := deck.Slides[0].SlideID

	_, err := svc.GenerateSlideImage(ctx, "u1", deck.DeckID, id, "first")
	require.NoError(t, err)
	_, err = svc.GenerateSlideImage(ctx, "u1", deck.DeckID, id, "second")
	require.NoError(t, err)

	actions := rec.Actions()
	require.Len(t, actions, 1)
	assert.Equal(t, "delete-image", actions[0].Kind)
	assert.Equal(t, "https://cdn.example.com/img/new.png", actions[0].Target)
}

func TestGenerateSlideImageGeneratorFailureLeavesSlideAlone(t *testing.T) {
	fs := newFakeStore()
	gen := &fakeGenerator{err: model.ErrGeneration}
	svc := newDeckService(fs, gen, nil)
	deck := seedDeck(t, svc, "u1")
	ctx := context.Background()
	id := deck.Slides[0].SlideID

	_, err := svc.GenerateSlideImage(ctx, "u1", deck.DeckID, id, "x")
	assert.ErrorIs(t, err, model.ErrGeneration)

	versions, err := fs.Versions().ListBySlide(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestGenerateSlideImageChecksDeckMembership(t *testing.T) {
	fs := newFakeStore()
	svc := newDeckService(fs, nil, nil)
	d1 := seedDeck(t, svc, "u1")
	d2 := seedDeck(t, svc, "u1")

	_, err := svc.GenerateSlideImage(context.Background(), "u1", d1.DeckID, d2.Slides[0].SlideID, "x")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRenameAndDeleteDeck(t *testing.T) {
	fs := newFakeStore()
	svc := newDeckService(fs, nil, nil)
	deck := seedDeck(t, svc, "u1")
	ctx := context.Background()

	renamed, err := svc.RenameDeck(ctx, "u1", deck.DeckID, "Series A")
	require.NoError(t, err)
	assert.Equal(t, "Series A", renamed.Title)

	err = svc.DeleteDeck(ctx, "u2", deck.DeckID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, svc.DeleteDeck(ctx, "u1", deck.DeckID))
	_, err = svc.GetDeck(ctx, "u1", deck.DeckID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGeneratedPromptReachesCollaborator(t *testing.T) {
	fs := newFakeStore()
	gen := &fakeGenerator{}
	svc := newDeckService(fs, gen, nil)
	deck := seedDeck(t, svc, "u1")

	_, err := svc.GenerateSlideImage(context.Background(), "u1", deck.DeckID, deck.Slides[0].SlideID, "a rocket launch")
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Equal(t, "a rocket launch", gen.prompts[0])
}
