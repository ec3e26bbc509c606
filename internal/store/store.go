package store

import (
	"context"

	"github.com/allana0-dev/refynely-backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (sqlite, postgres).
type Store interface {
	Decks() Decks
	Slides() Slides
	Versions() Versions
	// HealthPing reports backend connectivity; the health endpoint exposes it.
	HealthPing(ctx context.Context) error
}

type Decks interface {
	// Create persists a deck together with its initial slides. Slide order
	// indices are assigned from slice position in the same transaction.
	Create(ctx context.Context, d *model.Deck) (*model.Deck, error)
	// GetByID returns an owner-scoped deck with slides ordered by index.
	GetByID(ctx context.Context, ownerID, deckID string) (*model.Deck, error)
	// GetMeta returns the deck row without slides and without owner scoping.
	// Callers use it to distinguish a missing deck from an ownership mismatch.
	GetMeta(ctx context.Context, deckID string) (*model.Deck, error)
	List(ctx context.Context, ownerID string) ([]*model.Deck, error)
	UpdateTitle(ctx context.Context, deckID, title string) error
	Delete(ctx context.Context, deckID string) error
}

type Slides interface {
	Get(ctx context.Context, slideID string) (*model.Slide, error)
	// Create appends the slide at the deck's next free order index.
	Create(ctx context.Context, s *model.Slide) (*model.Slide, error)
	Update(ctx context.Context, slideID string, upd model.SlideUpdate) (*model.Slide, error)
	// Delete removes the slide and renumbers trailing slides in the same
	// transaction so the deck's index range stays contiguous.
	Delete(ctx context.Context, slideID string) error
	// BatchUpdateOrder applies a full reorder atomically: either every
	// assignment commits or none are observable.
	BatchUpdateOrder(ctx context.Context, deckID string, order []model.SlideOrder) error
}

type Versions interface {
	Create(ctx context.Context, v *model.Version) (*model.Version, error)
	// ListBySlide returns versions newest first.
	ListBySlide(ctx context.Context, slideID string) ([]*model.Version, error)
	GetByID(ctx context.Context, versionID string) (*model.Version, error)
}
