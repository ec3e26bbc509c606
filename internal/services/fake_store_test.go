package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allana0-dev/refynely-backend/internal/model"
	"github.com/allana0-dev/refynely-backend/internal/store"
)

// --- Fakes ---

type fakeStore struct {
	mu       sync.Mutex
	decks    map[string]*model.Deck
	slides   map[string]*model.Slide
	versions []*model.Version
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		decks:  make(map[string]*model.Deck),
		slides: make(map[string]*model.Slide),
	}
}

func (f *fakeStore) Decks() store.Decks       { return &fakeDecks{f} }
func (f *fakeStore) Slides() store.Slides     { return &fakeSlides{f} }
func (f *fakeStore) Versions() store.Versions { return &fakeVersions{f} }

func (f *fakeStore) HealthPing(context.Context) error { return nil }

func (f *fakeStore) slidesOf(deckID string) []*model.Slide {
	out := make([]*model.Slide, 0)
	for _, s := range f.slides {
		if s.DeckID == deckID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func copySlide(s *model.Slide) *model.Slide {
	cp := *s
	cp.Layout = s.Layout.Clone()
	return &cp
}

type fakeDecks struct{ p *fakeStore }

func (d *fakeDecks) Create(_ context.Context, deck *model.Deck) (*model.Deck, error) {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	deck.DeckID = uuid.NewString()
	deck.CreationTime = time.Now()
	for i, sl := range deck.Slides {
		sl.SlideID = uuid.NewString()
		sl.DeckID = deck.DeckID
		sl.OrderIndex = i
		sl.CreationTime = deck.CreationTime
		d.p.slides[sl.SlideID] = copySlide(sl)
	}
	meta := *deck
	meta.Slides = nil
	d.p.decks[deck.DeckID] = &meta
	return deck, nil
}

func (d *fakeDecks) GetByID(_ context.Context, ownerID, deckID string) (*model.Deck, error) {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	deck, ok := d.p.decks[deckID]
	if !ok || deck.OwnerID != ownerID {
		return nil, model.ErrNotFound
	}
	out := *deck
	for _, sl := range d.p.slidesOf(deckID) {
		out.Slides = append(out.Slides, copySlide(sl))
	}
	return &out, nil
}

func (d *fakeDecks) GetMeta(_ context.Context, deckID string) (*model.Deck, error) {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	deck, ok := d.p.decks[deckID]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := *deck
	return &out, nil
}

func (d *fakeDecks) List(_ context.Context, ownerID string) ([]*model.Deck, error) {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	out := make([]*model.Deck, 0)
	for _, deck := range d.p.decks {
		if deck.OwnerID == ownerID {
			cp := *deck
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (d *fakeDecks) UpdateTitle(_ context.Context, deckID, title string) error {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	deck, ok := d.p.decks[deckID]
	if !ok {
		return model.ErrNotFound
	}
	deck.Title = title
	return nil
}

func (d *fakeDecks) Delete(_ context.Context, deckID string) error {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	if _, ok := d.p.decks[deckID]; !ok {
		return model.ErrNotFound
	}
	delete(d.p.decks, deckID)
	for id, sl := range d.p.slides {
		if sl.DeckID == deckID {
			delete(d.p.slides, id)
		}
	}
	return nil
}

type fakeSlides struct{ p *fakeStore }

func (s *fakeSlides) Get(_ context.Context, slideID string) (*model.Slide, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	sl, ok := s.p.slides[slideID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return copySlide(sl), nil
}

func (s *fakeSlides) Create(_ context.Context, sl *model.Slide) (*model.Slide, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	sl.SlideID = uuid.NewString()
	sl.OrderIndex = len(s.p.slidesOf(sl.DeckID))
	sl.CreationTime = time.Now()
	s.p.slides[sl.SlideID] = copySlide(sl)
	return sl, nil
}

func (s *fakeSlides) Update(_ context.Context, slideID string, upd model.SlideUpdate) (*model.Slide, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	sl, ok := s.p.slides[slideID]
	if !ok {
		return nil, model.ErrNotFound
	}
	if upd.Title != nil {
		sl.Title = *upd.Title
	}
	if upd.Content != nil {
		sl.Content = *upd.Content
	}
	if upd.SpeakerNotes != nil {
		sl.SpeakerNotes = *upd.SpeakerNotes
	}
	if upd.Layout != nil {
		sl.Layout = upd.Layout.Clone()
	}
	return copySlide(sl), nil
}

func (s *fakeSlides) Delete(_ context.Context, slideID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	sl, ok := s.p.slides[slideID]
	if !ok {
		return model.ErrNotFound
	}
	delete(s.p.slides, slideID)
	for _, other := range s.p.slides {
		if other.DeckID == sl.DeckID && other.OrderIndex > sl.OrderIndex {
			other.OrderIndex--
		}
	}
	return nil
}

func (s *fakeSlides) BatchUpdateOrder(_ context.Context, deckID string, order []model.SlideOrder) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if len(order) != len(s.p.slidesOf(deckID)) {
		return model.ErrInvalidOrder
	}
	seen := make(map[string]bool, len(order))
	for _, o := range order {
		sl, ok := s.p.slides[o.SlideID]
		if !ok || sl.DeckID != deckID || seen[o.SlideID] {
			return model.ErrInvalidOrder
		}
		seen[o.SlideID] = true
	}
	for _, o := range order {
		s.p.slides[o.SlideID].OrderIndex = o.OrderIndex
	}
	return nil
}

type fakeVersions struct{ p *fakeStore }

func (v *fakeVersions) Create(_ context.Context, ver *model.Version) (*model.Version, error) {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	cp := *ver
	cp.VersionID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.Layout = ver.Layout.Clone()
	v.p.versions = append(v.p.versions, &cp)
	out := cp
	return &out, nil
}

func (v *fakeVersions) ListBySlide(_ context.Context, slideID string) ([]*model.Version, error) {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	out := make([]*model.Version, 0)
	for i := len(v.p.versions) - 1; i >= 0; i-- {
		if v.p.versions[i].SlideID == slideID {
			cp := *v.p.versions[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (v *fakeVersions) GetByID(_ context.Context, versionID string) (*model.Version, error) {
	v.p.mu.Lock()
	defer v.p.mu.Unlock()
	for _, ver := range v.p.versions {
		if ver.VersionID == versionID {
			cp := *ver
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

// fakeGenerator returns a canned image reference, or fails when err is set.
type fakeGenerator struct {
	mu      sync.Mutex
	ref     string
	err     error
	prompts []string
}

func (g *fakeGenerator) GenerateImage(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.prompts = append(g.prompts, prompt)
	if g.ref != "" {
		return g.ref, nil
	}
	return fmt.Sprintf("data:image/png;base64,fake-%d", len(g.prompts)), nil
}
