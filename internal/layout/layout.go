// Package layout builds and transforms slide layout documents. All functions
// are pure: inputs are never mutated, outputs are fresh values.
package layout

import (
	"fmt"

	"github.com/allana0-dev/refynely-backend/internal/model"
)

// Default element geometry, shared by every freshly built slide.
var (
	titleBox = model.Box{
		Position: model.Position{X: 50, Y: 40},
		Size:     model.Size{Width: 800, Height: 60},
		Style:    model.Style{FontSize: 32, FontWeight: "bold"},
	}
	textBox = model.Box{
		Position: model.Position{X: 50, Y: 120},
		Size:     model.Size{Width: 800, Height: 300},
		Style:    model.Style{FontSize: 16},
	}
	imageBox = model.Box{
		Position: model.Position{X: 50, Y: 450},
		Size:     model.Size{Width: 400, Height: 200},
	}
	suggestionsBox = model.Box{
		Position: model.Position{X: 50, Y: 450},
		Size:     model.Size{Width: 400, Height: 120},
		Style: model.Style{
			FontSize:        14,
			BackgroundColor: "#f8f9fa",
			Border:          "2px dashed #dee2e6",
			Padding:         "16px",
			BorderRadius:    "8px",
		},
	}
)

// BuildDefault produces the canonical title-plus-text layout for a slide.
func BuildDefault(title, content string) *model.Layout {
	return &model.Layout{Elements: []model.Element{
		&model.TitleElement{Box: titleBox, Content: title},
		&model.TextElement{Box: textBox, Content: content},
	}}
}

// Validate checks that a layout carries the required title and text elements.
func Validate(l *model.Layout) error {
	if l == nil {
		return fmt.Errorf("%w: layout is empty", model.ErrInvalidLayout)
	}
	var hasTitle, hasText bool
	for _, e := range l.Elements {
		switch e.(type) {
		case *model.TitleElement:
			hasTitle = true
		case *model.TextElement:
			hasText = true
		}
	}
	if !hasTitle || !hasText {
		return fmt.Errorf("%w: missing title or text element", model.ErrInvalidLayout)
	}
	return nil
}

// AttachImage replaces any image element with one holding the given reference
// and prompt, and drops the image-suggestions placeholder in the same step so
// the two never coexist after an attach.
func AttachImage(l *model.Layout, prompt, imageRef string) (*model.Layout, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}
	out := &model.Layout{Elements: make([]model.Element, 0, len(l.Elements)+1)}
	for _, e := range l.Clone().Elements {
		switch e.(type) {
		case *model.ImageElement, *model.ImageSuggestionsElement:
			// dropped; replaced below
		default:
			out.Elements = append(out.Elements, e)
		}
	}
	out.Elements = append(out.Elements, &model.ImageElement{Box: imageBox, URL: imageRef, Prompt: prompt})
	return out, nil
}

// ApplySuggestions replaces or inserts the image-suggestions element. An
// existing image element is left in place: the pair may coexist while a
// regeneration is in flight, and the next AttachImage collapses it again.
func ApplySuggestions(l *model.Layout, prompts []string) (*model.Layout, error) {
	if err := Validate(l); err != nil {
		return nil, err
	}
	primary := ""
	if len(prompts) > 0 {
		primary = prompts[0]
	}
	out := &model.Layout{Elements: make([]model.Element, 0, len(l.Elements)+1)}
	for _, e := range l.Clone().Elements {
		if _, ok := e.(*model.ImageSuggestionsElement); ok {
			continue
		}
		out.Elements = append(out.Elements, e)
	}
	out.Elements = append(out.Elements, &model.ImageSuggestionsElement{
		Box:         suggestionsBox,
		Suggestions: append([]string(nil), prompts...),
		Prompt:      primary,
	})
	return out, nil
}

// PatchText rewrites the title and text element contents in place of a
// regeneration, leaving geometry and any image elements untouched. Empty
// arguments leave the corresponding element unchanged.
func PatchText(l *model.Layout, title, content string) *model.Layout {
	if l == nil {
		return nil
	}
	out := l.Clone()
	for _, e := range out.Elements {
		switch v := e.(type) {
		case *model.TitleElement:
			if title != "" {
				v.Content = title
			}
		case *model.TextElement:
			if content != "" {
				v.Content = content
			}
		}
	}
	return out
}
