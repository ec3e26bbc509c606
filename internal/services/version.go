package services

import (
	"context"

	"github.com/allana0-dev/refynely-backend/internal/model"
	"github.com/allana0-dev/refynely-backend/internal/store"
)

// VersionService lists and reverts slide snapshots.
type VersionService struct {
	store store.Store
	locks *keyedMutex
}

func NewVersionService(s store.Store) *VersionService {
	return &VersionService{store: s, locks: sharedLocks}
}

// ListVersions returns a slide's snapshots newest first. A slide the caller
// does not own reads as absent.
func (s *VersionService) ListVersions(ctx context.Context, ownerID, slideID string) ([]*model.Version, error) {
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
	return s.store.Versions().ListBySlide(ctx, slideID)
}

// RevertVersion overwrites the slide's content, speaker notes and layout with
// the snapshot. The pre-revert state is snapshotted first, so a revert is
// itself revertible.
func (s *VersionService) RevertVersion(ctx context.Context, ownerID, slideID, versionID string) (*model.Slide, error) {
	version, err := s.store.Versions().GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version.SlideID != slideID {
		return nil, model.ErrNotFound
	}
	slide, err := s.store.Slides().Get(ctx, slideID)
	if err != nil {
		return nil, err
	}
	deck, err := s.store.Decks().GetMeta(ctx, slide.DeckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != ownerID {
		return nil, model.ErrForbidden
	}

	unlock := s.locks.Lock("slide:" + slideID)
	defer unlock()

	// Re-read under the lock so the safety snapshot captures current state.
	slide, err = s.store.Slides().Get(ctx, slideID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Versions().Create(ctx, &model.Version{
		SlideID:      slide.SlideID,
		Content:      slide.Content,
		SpeakerNotes: slide.SpeakerNotes,
		Layout:       slide.Layout.Clone(),
	}); err != nil {
		return nil, err
	}

	upd := model.SlideUpdate{
		Content:      &version.Content,
		SpeakerNotes: &version.SpeakerNotes,
	}
	if version.Layout != nil {
		upd.Layout = version.Layout.Clone()
	}
	return s.store.Slides().Update(ctx, slideID, upd)
}
