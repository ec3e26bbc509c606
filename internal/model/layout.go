package model

import (
	"encoding/json"
	"fmt"
)

// ElementKind discriminates the closed set of layout element variants.
type ElementKind string

const (
	KindTitle            ElementKind = "title"
	KindText             ElementKind = "text"
	KindImage            ElementKind = "image"
	KindImageSuggestions ElementKind = "imageSuggestions"
)

// Position places an element on the slide canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size gives an element its extent.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style carries rendering hints. All fields are optional.
type Style struct {
	FontSize        int    `json:"fontSize,omitempty"`
	FontWeight      string `json:"fontWeight,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Border          string `json:"border,omitempty"`
	Padding         string `json:"padding,omitempty"`
	BorderRadius    string `json:"borderRadius,omitempty"`
}

// Box is the shared positional frame embedded by every element variant.
type Box struct {
	Position Position `json:"position"`
	Size     Size     `json:"size"`
	Style    Style    `json:"style,omitempty"`
}

// Element is the sealed union over the four layout element kinds. The only
// implementations live in this package; renderers switch exhaustively on the
// concrete type.
type Element interface {
	Kind() ElementKind
	Frame() Box
}

// TitleElement renders the slide title.
type TitleElement struct {
	Box
	Content string `json:"content"`
}

// TextElement renders the slide body text.
type TextElement struct {
	Box
	Content string `json:"content"`
}

// ImageElement references a generated image, either as an embedded data URI
// or an external URL, together with the prompt that produced it.
type ImageElement struct {
	Box
	URL    string `json:"url"`
	Prompt string `json:"imagePrompt"`
}

// ImageSuggestionsElement is the placeholder shown before an image has been
// generated: candidate prompts plus the one designated as primary.
type ImageSuggestionsElement struct {
	Box
	Suggestions []string `json:"suggestions"`
	Prompt      string   `json:"imagePrompt"`
}

func (e *TitleElement) Kind() ElementKind            { return KindTitle }
func (e *TextElement) Kind() ElementKind             { return KindText }
func (e *ImageElement) Kind() ElementKind            { return KindImage }
func (e *ImageSuggestionsElement) Kind() ElementKind { return KindImageSuggestions }

func (b Box) Frame() Box { return b }

// Layout is an ordered sequence of positioned elements describing a slide's
// visual composition.
type Layout struct {
	Elements []Element `json:"elements"`
}

// Image returns the image element, or nil if the layout has none.
func (l *Layout) Image() *ImageElement {
	if l == nil {
		return nil
	}
	for _, e := range l.Elements {
		if img, ok := e.(*ImageElement); ok {
			return img
		}
	}
	return nil
}

// Suggestions returns the image-suggestions element, or nil.
func (l *Layout) Suggestions() *ImageSuggestionsElement {
	if l == nil {
		return nil
	}
	for _, e := range l.Elements {
		if s, ok := e.(*ImageSuggestionsElement); ok {
			return s
		}
	}
	return nil
}

// Clone returns a deep copy. Version snapshots hold clones so later edits to
// the live layout cannot reach into recorded history.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	out := &Layout{Elements: make([]Element, 0, len(l.Elements))}
	for _, e := range l.Elements {
		switch v := e.(type) {
		case *TitleElement:
			c := *v
			out.Elements = append(out.Elements, &c)
		case *TextElement:
			c := *v
			out.Elements = append(out.Elements, &c)
		case *ImageElement:
			c := *v
			out.Elements = append(out.Elements, &c)
		case *ImageSuggestionsElement:
			c := *v
			c.Suggestions = append([]string(nil), v.Suggestions...)
			out.Elements = append(out.Elements, &c)
		}
	}
	return out
}

// wireElement is the tagged JSON form of an element. Decoding rejects
// unrecognized kinds instead of dropping them.
type wireElement struct {
	Type        ElementKind `json:"type"`
	Position    Position    `json:"position"`
	Size        Size        `json:"size"`
	Style       Style       `json:"style,omitempty"`
	Content     string      `json:"content,omitempty"`
	URL         string      `json:"url,omitempty"`
	Prompt      string      `json:"imagePrompt,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
}

// MarshalJSON encodes the layout with a "type" tag per element.
func (l Layout) MarshalJSON() ([]byte, error) {
	out := struct {
		Elements []wireElement `json:"elements"`
	}{Elements: make([]wireElement, 0, len(l.Elements))}

	for _, e := range l.Elements {
		w := wireElement{Type: e.Kind(), Position: e.Frame().Position, Size: e.Frame().Size, Style: e.Frame().Style}
		switch v := e.(type) {
		case *TitleElement:
			w.Content = v.Content
		case *TextElement:
			w.Content = v.Content
		case *ImageElement:
			w.URL = v.URL
			w.Prompt = v.Prompt
		case *ImageSuggestionsElement:
			w.Suggestions = v.Suggestions
			w.Prompt = v.Prompt
		default:
			return nil, fmt.Errorf("%w: unknown element kind %q", ErrInvalidLayout, e.Kind())
		}
		out.Elements = append(out.Elements, w)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a tagged element list, failing on unknown kinds.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var in struct {
		Elements []wireElement `json:"elements"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	l.Elements = make([]Element, 0, len(in.Elements))
	for _, w := range in.Elements {
		box := Box{Position: w.Position, Size: w.Size, Style: w.Style}
		switch w.Type {
		case KindTitle:
			l.Elements = append(l.Elements, &TitleElement{Box: box, Content: w.Content})
		case KindText:
			l.Elements = append(l.Elements, &TextElement{Box: box, Content: w.Content})
		case KindImage:
			l.Elements = append(l.Elements, &ImageElement{Box: box, URL: w.URL, Prompt: w.Prompt})
		case KindImageSuggestions:
			l.Elements = append(l.Elements, &ImageSuggestionsElement{Box: box, Suggestions: w.Suggestions, Prompt: w.Prompt})
		default:
			return fmt.Errorf("%w: unknown element kind %q", ErrInvalidLayout, w.Type)
		}
	}
	return nil
}
