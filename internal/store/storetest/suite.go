// Package storetest holds a compliance suite run against every store driver.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/allana0-dev/refynely-backend/internal/layout"
	"github.com/allana0-dev/refynely-backend/internal/model"
	"github.com/allana0-dev/refynely-backend/internal/store"
)

// Run exercises the store contract against an implementation.
// makeStore must return a clean, isolated store per call.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}

	ownerID := "u-" + uuid.New().String()

	// Deck create with nested slides assigns contiguous indices.
	deck, err := s.Decks().Create(ctx, &model.Deck{
		OwnerID: ownerID,
		Title:   "Pitch",
		Slides: []*model.Slide{
			{Title: "One", Content: "first", Layout: layout.BuildDefault("One", "first")},
			{Title: "Two", Content: "second", SpeakerNotes: "talk slowly"},
			{Title: "Three", Content: "third"},
		},
	})
	if err != nil {
		t.Fatalf("CreateDeck: %v", err)
	}
	if deck.DeckID == "" || len(deck.Slides) != 3 {
		t.Fatalf("CreateDeck: id=%q slides=%d", deck.DeckID, len(deck.Slides))
	}
	for i, sl := range deck.Slides {
		if sl.OrderIndex != i {
			t.Fatalf("CreateDeck: slide %d has index %d", i, sl.OrderIndex)
		}
	}

	// Owner-scoped read returns ordered slides; foreign owner sees nothing.
	got, err := s.Decks().GetByID(ctx, ownerID, deck.DeckID)
	if err != nil || len(got.Slides) != 3 {
		t.Fatalf("GetDeck: got=%v err=%v", got, err)
	}
	if got.Slides[0].Layout == nil || got.Slides[1].Layout != nil {
		t.Fatalf("GetDeck: layout round-trip broken")
	}
	if _, err := s.Decks().GetByID(ctx, "someone-else", deck.DeckID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetDeck foreign owner: want ErrNotFound, got %v", err)
	}

	// GetMeta is unscoped and slide-free.
	meta, err := s.Decks().GetMeta(ctx, deck.DeckID)
	if err != nil || meta.OwnerID != ownerID || len(meta.Slides) != 0 {
		t.Fatalf("GetMeta: got=%v err=%v", meta, err)
	}

	// Append slide lands at the next free index.
	appended, err := s.Slides().Create(ctx, &model.Slide{DeckID: deck.DeckID, Title: "Four", Content: "fourth"})
	if err != nil || appended.OrderIndex != 3 {
		t.Fatalf("CreateSlide: got=%v err=%v", appended, err)
	}

	// Partial update touches only the given fields.
	newContent := "first, revised"
	updated, err := s.Slides().Update(ctx, deck.Slides[0].SlideID, model.SlideUpdate{Content: &newContent})
	if err != nil || updated.Content != newContent || updated.Title != "One" {
		t.Fatalf("UpdateSlide: got=%v err=%v", updated, err)
	}

	// Versions list newest first.
	v1, err := s.Versions().Create(ctx, &model.Version{SlideID: updated.SlideID, Content: "first", Layout: updated.Layout})
	if err != nil || v1.VersionID == "" {
		t.Fatalf("CreateVersion: got=%v err=%v", v1, err)
	}
	if _, err := s.Versions().Create(ctx, &model.Version{SlideID: updated.SlideID, Content: newContent}); err != nil {
		t.Fatalf("CreateVersion 2: %v", err)
	}
	vers, err := s.Versions().ListBySlide(ctx, updated.SlideID)
	if err != nil || len(vers) != 2 {
		t.Fatalf("ListVersions: n=%d err=%v", len(vers), err)
	}
	if vers[0].Content != newContent || vers[1].Content != "first" {
		t.Fatalf("ListVersions: wrong order: %q, %q", vers[0].Content, vers[1].Content)
	}
	if got, err := s.Versions().GetByID(ctx, v1.VersionID); err != nil || got.Content != "first" {
		t.Fatalf("GetVersion: got=%v err=%v", got, err)
	}

	// Full reorder applies atomically.
	ids := []string{deck.Slides[2].SlideID, deck.Slides[0].SlideID, appended.SlideID, deck.Slides[1].SlideID}
	batch := make([]model.SlideOrder, len(ids))
	for i, id := range ids {
		batch[i] = model.SlideOrder{SlideID: id, OrderIndex: i}
	}
	if err := s.Slides().BatchUpdateOrder(ctx, deck.DeckID, batch); err != nil {
		t.Fatalf("BatchUpdateOrder: %v", err)
	}
	reordered, err := s.Decks().GetByID(ctx, ownerID, deck.DeckID)
	if err != nil {
		t.Fatalf("GetDeck after reorder: %v", err)
	}
	for i, sl := range reordered.Slides {
		if sl.SlideID != ids[i] {
			t.Fatalf("reorder: position %d has %s, want %s", i, sl.SlideID, ids[i])
		}
	}

	// A batch naming a foreign slide rolls back without visible effect.
	bad := append(append([]model.SlideOrder(nil), batch[:3]...), model.SlideOrder{SlideID: "missing", OrderIndex: 3})
	if err := s.Slides().BatchUpdateOrder(ctx, deck.DeckID, bad); !errors.Is(err, model.ErrInvalidOrder) {
		t.Fatalf("BatchUpdateOrder bad id: want ErrInvalidOrder, got %v", err)
	}
	unchanged, _ := s.Decks().GetByID(ctx, ownerID, deck.DeckID)
	assertContiguous(t, unchanged.Slides)
	for i, sl := range unchanged.Slides {
		if sl.SlideID != ids[i] {
			t.Fatalf("failed batch leaked: position %d has %s", i, sl.SlideID)
		}
	}

	// A batch repeating a slide id has the right length but is still invalid.
	dup := append([]model.SlideOrder(nil), batch...)
	dup[3] = model.SlideOrder{SlideID: dup[0].SlideID, OrderIndex: 3}
	if err := s.Slides().BatchUpdateOrder(ctx, deck.DeckID, dup); !errors.Is(err, model.ErrInvalidOrder) {
		t.Fatalf("BatchUpdateOrder duplicate id: want ErrInvalidOrder, got %v", err)
	}
	afterDup, _ := s.Decks().GetByID(ctx, ownerID, deck.DeckID)
	assertContiguous(t, afterDup.Slides)
	for i, sl := range afterDup.Slides {
		if sl.SlideID != ids[i] {
			t.Fatalf("duplicate batch leaked: position %d has %s", i, sl.SlideID)
		}
	}

	// Delete renumbers trailing slides in the same transaction.
	if err := s.Slides().Delete(ctx, ids[1]); err != nil {
		t.Fatalf("DeleteSlide: %v", err)
	}
	afterDelete, _ := s.Decks().GetByID(ctx, ownerID, deck.DeckID)
	if len(afterDelete.Slides) != 3 {
		t.Fatalf("DeleteSlide: %d slides remain", len(afterDelete.Slides))
	}
	assertContiguous(t, afterDelete.Slides)

	// Deck rename and delete.
	if err := s.Decks().UpdateTitle(ctx, deck.DeckID, "Pitch v2"); err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	if err := s.Decks().Delete(ctx, deck.DeckID); err != nil {
		t.Fatalf("DeleteDeck: %v", err)
	}
	if _, err := s.Decks().GetMeta(ctx, deck.DeckID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetMeta after delete: want ErrNotFound, got %v", err)
	}
	if _, err := s.Slides().Get(ctx, ids[0]); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("slides should cascade with their deck, got %v", err)
	}
}

func assertContiguous(t *testing.T, slides []*model.Slide) {
	t.Helper()
	seen := make(map[int]bool, len(slides))
	for _, sl := range slides {
		if sl.OrderIndex < 0 || sl.OrderIndex >= len(slides) || seen[sl.OrderIndex] {
			t.Fatalf("index set not contiguous: %v", indices(slides))
		}
		seen[sl.OrderIndex] = true
	}
}

func indices(slides []*model.Slide) []int {
	out := make([]int, len(slides))
	for i, sl := range slides {
		out[i] = sl.OrderIndex
	}
	return out
}
