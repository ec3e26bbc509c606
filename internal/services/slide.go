package services

import (
	"context"
	"fmt"

	"github.com/allana0-dev/refynely-backend/internal/layout"
	"github.com/allana0-dev/refynely-backend/internal/model"
	"github.com/allana0-dev/refynely-backend/internal/store"
)

// SlideContentUpdate is a partial edit to a slide's mutable fields.
type SlideContentUpdate struct {
	Title        *string       `json:"title,omitempty"`
	Content      *string       `json:"content,omitempty"`
	SpeakerNotes *string       `json:"speakerNotes,omitempty"`
	Layout       *model.Layout `json:"layout,omitempty"`
}

// RegenerateRequest carries replacement text for a slide. Empty fields keep
// the current value.
type RegenerateRequest struct {
	Title        string `json:"slideTitle"`
	Content      string `json:"currentContent"`
	SpeakerNotes string `json:"speakerNotes"`
}

// SlideService handles single-slide mutations. Every write is preceded by a
// version snapshot of the slide's current state, and the snapshot+write pair
// is serialized per slide id.
type SlideService struct {
	store store.Store
	locks *keyedMutex
}

func NewSlideService(s store.Store) *SlideService {
	return &SlideService{store: s, locks: sharedLocks}
}

// ownedSlide loads a slide and verifies the caller owns its deck. A slide in
// a foreign deck is reported as absent, matching deck-level scoping.
func (s *SlideService) ownedSlide(ctx context.Context, ownerID, slideID string) (*model.Slide, error) {
	slide, err := s.store.Slides().Get(ctx, slideID)
	if err != nil {
		return nil, err
	}
	deck, err := s.store.Decks().GetMeta(ctx, slide.DeckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	return slide, nil
}

// CreateSlide appends a slide to the deck with a default layout.
func (s *SlideService) CreateSlide(ctx context.Context, ownerID, deckID, title, content, notes string) (*model.Slide, error) {
	if _, err := s.store.Decks().GetByID(ctx, ownerID, deckID); err != nil {
		return nil, err
	}
	return s.store.Slides().Create(ctx, &model.Slide{
		DeckID:       deckID,
		Title:        title,
		Content:      content,
		SpeakerNotes: notes,
		Layout:       layout.BuildDefault(title, content),
	})
}

// UpdateContent snapshots the slide and applies the partial update.
func (s *SlideService) UpdateContent(ctx context.Context, ownerID, slideID string, upd SlideContentUpdate) (*model.Slide, error) {
	if upd.Title == nil && upd.Content == nil && upd.SpeakerNotes == nil && upd.Layout == nil {
		return nil, fmt.Errorf("%w: empty update", model.ErrValidation)
	}

	unlock := s.locks.Lock("slide:" + slideID)
	defer unlock()

	slide, err := s.ownedSlide(ctx, ownerID, slideID)
	if err != nil {
		return nil, err
	}
	if err := s.snapshot(ctx, slide); err != nil {
		return nil, err
	}
	return s.store.Slides().Update(ctx, slideID, model.SlideUpdate{
		Title:        upd.Title,
		Content:      upd.Content,
		SpeakerNotes: upd.SpeakerNotes,
		Layout:       upd.Layout,
	})
}

// Regenerate replaces the slide's text and patches the matching title/text
// layout elements so the visible composition follows the new copy.
func (s *SlideService) Regenerate(ctx context.Context, ownerID, deckID, slideID string, req RegenerateRequest) (*model.Slide, error) {
	unlock := s.locks.Lock("slide:" + slideID)
	defer unlock()

	slide, err := s.ownedSlide(ctx, ownerID, slideID)
	if err != nil {
		return nil, err
	}
	if slide.DeckID != deckID {
		return nil, model.ErrNotFound
	}
	if err := s.snapshot(ctx, slide); err != nil {
		return nil, err
	}

	upd := model.SlideUpdate{}
	if req.Title != "" {
		upd.Title = &req.Title
	}
	if req.Content != "" {
		upd.Content = &req.Content
	}
	if req.SpeakerNotes != "" {
		upd.SpeakerNotes = &req.SpeakerNotes
	}
	if slide.Layout != nil {
		upd.Layout = layout.PatchText(slide.Layout, req.Title, req.Content)
	}
	return s.store.Slides().Update(ctx, slideID, upd)
}

// BulkSlideUpdate addresses one slide inside a batch edit.
type BulkSlideUpdate struct {
	SlideID string `json:"slideId"`
	SlideContentUpdate
}

// BulkUpdate applies partial edits to several slides of one deck. Each slide
// is snapshotted before its write. The batch runs under the deck key so it
// does not interleave with a reorder, and a slide outside the deck fails the
// whole batch before any write happens.
func (s *SlideService) BulkUpdate(ctx context.Context, ownerID, deckID string, updates []BulkSlideUpdate) ([]*model.Slide, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: empty batch", model.ErrValidation)
	}
	for _, u := range updates {
		if u.Title == nil && u.Content == nil && u.SpeakerNotes == nil && u.Layout == nil {
			return nil, fmt.Errorf("%w: empty update for slide %s", model.ErrValidation, u.SlideID)
		}
	}

	unlock := s.locks.Lock("deck:" + deckID)
	defer unlock()

	deck, err := s.store.Decks().GetByID(ctx, ownerID, deckID)
	if err != nil {
		return nil, err
	}
	members := make(map[string]bool, len(deck.Slides))
	for _, sl := range deck.Slides {
		members[sl.SlideID] = true
	}
	for _, u := range updates {
		if !members[u.SlideID] {
			return nil, model.ErrNotFound
		}
	}

	out := make([]*model.Slide, 0, len(updates))
	for _, u := range updates {
		slide, err := s.store.Slides().Get(ctx, u.SlideID)
		if err != nil {
			return nil, err
		}
		if err := s.snapshot(ctx, slide); err != nil {
			return nil, err
		}
		updated, err := s.store.Slides().Update(ctx, u.SlideID, model.SlideUpdate{
			Title:        u.Title,
			Content:      u.Content,
			SpeakerNotes: u.SpeakerNotes,
			Layout:       u.Layout,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, updated)
	}
	return out, nil
}

// DeleteSlide removes the slide; the store renumbers the deck's remaining
// slides in the same transaction.
func (s *SlideService) DeleteSlide(ctx context.Context, ownerID, slideID string) error {
	if _, err := s.ownedSlide(ctx, ownerID, slideID); err != nil {
		return err
	}
	return s.store.Slides().Delete(ctx, slideID)
}

// snapshot records the slide's pre-write state. It must run before the write
// it precedes so a revert can always recover that state.
func (s *SlideService) snapshot(ctx context.Context, slide *model.Slide) error {
	_, err := s.store.Versions().Create(ctx, &model.Version{
		SlideID:      slide.SlideID,
		Content:      slide.Content,
		SpeakerNotes: slide.SpeakerNotes,
		Layout:       slide.Layout.Clone(),
	})
	return err
}
