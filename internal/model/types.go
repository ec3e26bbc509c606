package model

import "time"

// Deck is an ordered collection of slides owned by a single user.
type Deck struct {
	DeckID       string    `json:"deckId"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Slides       []*Slide  `json:"slides,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Slide is one unit of content within a deck. OrderIndex values across a
// deck's slides are always a contiguous zero-based range.
type Slide struct {
	SlideID      string    `json:"slideId"`
	DeckID       string    `json:"deckId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	SpeakerNotes string    `json:"speakerNotes"`
	OrderIndex   int       `json:"orderIndex"`
	Layout       *Layout   `json:"layout,omitempty"`
	CreationTime time.Time `json:"creationTime"`
}

// Version is an immutable snapshot of a slide's mutable fields captured
// immediately before a write. Snapshots include the layout document so a
// revert restores the visual composition together with the text.
type Version struct {
	VersionID    string    `json:"versionId"`
	SlideID      string    `json:"slideId"`
	Content      string    `json:"content"`
	SpeakerNotes string    `json:"speakerNotes"`
	Layout       *Layout   `json:"layout,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SlideUpdate carries a partial update for a slide. Nil fields are left
// untouched by the store.
type SlideUpdate struct {
	Title        *string
	Content      *string
	SpeakerNotes *string
	Layout       *Layout
}

// SlideOrder assigns one slide its position within a deck. A reorder batch
// holds one entry per slide in the deck.
type SlideOrder struct {
	SlideID    string
	OrderIndex int
}
