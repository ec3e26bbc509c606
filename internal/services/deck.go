package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/allana0-dev/refynely-backend/internal/cleanup"
	"github.com/allana0-dev/refynely-backend/internal/genai"
	"github.com/allana0-dev/refynely-backend/internal/layout"
	"github.com/allana0-dev/refynely-backend/internal/model"
	"github.com/allana0-dev/refynely-backend/internal/store"
)

// NewSlide is the caller-supplied outline for one slide of a new deck.
type NewSlide struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	SpeakerNotes     string   `json:"speakerNotes"`
	ImagePrompt      string   `json:"imagePrompt"`
	ImageSuggestions []string `json:"imageSuggestions"`
	ImageURL         string   `json:"imageUrl"`
}

// DeckService orchestrates deck-level use cases: CRUD, reordering and slide
// image generation.
type DeckService struct {
	store   store.Store
	gen     genai.Generator
	cleanup cleanup.Scheduler
	locks   *keyedMutex
	log     zerolog.Logger
}

func NewDeckService(s store.Store, gen genai.Generator, c cleanup.Scheduler, log zerolog.Logger) *DeckService {
	return &DeckService{store: s, gen: gen, cleanup: c, locks: sharedLocks, log: log}
}

// CreateDeck persists a deck whose slides are built from outlines: each slide
// gets the default title+text layout, an image element when the outline
// already carries a URL, and a suggestions placeholder when prompts exist.
func (s *DeckService) CreateDeck(ctx context.Context, ownerID, title string, outlines []NewSlide) (*model.Deck, error) {
	if ownerID == "" || title == "" {
		return nil, fmt.Errorf("%w: owner and title are required", model.ErrValidation)
	}
	deck := &model.Deck{OwnerID: ownerID, Title: title}
	for _, o := range outlines {
		lay := layout.BuildDefault(o.Title, o.Content)
		if o.ImageURL != "" {
			withImage, err := layout.AttachImage(lay, o.ImagePrompt, o.ImageURL)
			if err != nil {
				return nil, err
			}
			lay = withImage
		}
		if len(o.ImageSuggestions) > 0 {
			withSuggestions, err := layout.ApplySuggestions(lay, o.ImageSuggestions)
			if err != nil {
				return nil, err
			}
			lay = withSuggestions
		}
		deck.Slides = append(deck.Slides, &model.Slide{
			Title:        o.Title,
			Content:      o.Content,
			SpeakerNotes: o.SpeakerNotes,
			Layout:       lay,
		})
	}
	return s.store.Decks().Create(ctx, deck)
}

func (s *DeckService) GetDeck(ctx context.Context, ownerID, deckID string) (*model.Deck, error) {
	return s.store.Decks().GetByID(ctx, ownerID, deckID)
}

func (s *DeckService) ListDecks(ctx context.Context, ownerID string) ([]*model.Deck, error) {
	return s.store.Decks().List(ctx, ownerID)
}

func (s *DeckService) RenameDeck(ctx context.Context, ownerID, deckID, title string) (*model.Deck, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if _, err := s.store.Decks().GetByID(ctx, ownerID, deckID); err != nil {
		return nil, err
	}
	if err := s.store.Decks().UpdateTitle(ctx, deckID, title); err != nil {
		return nil, err
	}
	return s.store.Decks().GetByID(ctx, ownerID, deckID)
}

func (s *DeckService) DeleteDeck(ctx context.Context, ownerID, deckID string) error {
	if _, err := s.store.Decks().GetByID(ctx, ownerID, deckID); err != nil {
		return err
	}
	return s.store.Decks().Delete(ctx, deckID)
}

// Reorder assigns orderIndex = position for each submitted slide id. The
// submitted set must equal the deck's current slide set exactly; concurrent
// reorders on one deck are serialized so the last committed batch wins whole.
func (s *DeckService) Reorder(ctx context.Context, ownerID, deckID string, orderedSlideIDs []string) error {
	unlock := s.locks.Lock("deck:" + deckID)
	defer unlock()

	deck, err := s.store.Decks().GetByID(ctx, ownerID, deckID)
	if err != nil {
		return err
	}
	if err := validateOrder(deck, orderedSlideIDs); err != nil {
		return err
	}
	batch := make([]model.SlideOrder, len(orderedSlideIDs))
	for i, id := range orderedSlideIDs {
		batch[i] = model.SlideOrder{SlideID: id, OrderIndex: i}
	}
	return s.store.Slides().BatchUpdateOrder(ctx, deckID, batch)
}

func validateOrder(deck *model.Deck, ids []string) error {
	if len(ids) != len(deck.Slides) {
		return fmt.Errorf("%w: got %d ids, deck has %d slides", model.ErrInvalidOrder, len(ids), len(deck.Slides))
	}
	current := make(map[string]bool, len(deck.Slides))
	for _, sl := range deck.Slides {
		current[sl.SlideID] = true
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: duplicate slide id %s", model.ErrInvalidOrder, id)
		}
		seen[id] = true
		if !current[id] {
			return fmt.Errorf("%w: slide %s does not belong to deck", model.ErrInvalidOrder, id)
		}
	}
	return nil
}

// GenerateSlideImage asks the collaborator for an image and attaches it to
// the slide's layout, removing the suggestions placeholder in the same write.
// A replaced externally-stored image is handed to the cleanup scheduler;
// embedded data URIs need no deletion.
func (s *DeckService) GenerateSlideImage(ctx context.Context, ownerID, deckID, slideID, prompt string) (*model.Slide, error) {
	if _, err := s.store.Decks().GetByID(ctx, ownerID, deckID); err != nil {
		return nil, err
	}
	slide, err := s.store.Slides().Get(ctx, slideID)
	if err != nil {
		return nil, err
	}
	if slide.DeckID != deckID {
		return nil, model.ErrNotFound
	}

	imageRef, err := s.gen.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock("slide:" + slideID)
	defer unlock()

	// Re-read under the lock; the layout may have moved since generation began.
	slide, err = s.store.Slides().Get(ctx, slideID)
	if err != nil {
		return nil, err
	}
	lay := slide.Layout
	if lay == nil {
		lay = layout.BuildDefault(slide.Title, slide.Content)
	}
	var replaced string
	if prev := lay.Image(); prev != nil {
		replaced = prev.URL
	}
	attached, err := layout.AttachImage(lay, prompt, imageRef)
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
	updated, err := s.store.Slides().Update(ctx, slideID, model.SlideUpdate{Layout: attached})
	if err != nil {
		return nil, err
	}

	if replaced != "" && !strings.HasPrefix(replaced, "data:") {
		s.cleanup.Schedule(cleanup.Action{Kind: "delete-image", Target: replaced})
	}
	return updated, nil
}
