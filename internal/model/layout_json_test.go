package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLayout() *Layout {
	return &Layout{Elements: []Element{
		&TitleElement{
			Box: Box{
				Position: Position{X: 50, Y: 40},
				Size:     Size{Width: 800, Height: 60},
				Style:    Style{FontSize: 32, FontWeight: "bold"},
			},
			Content: "Intro",
		},
		&TextElement{
			Box: Box{
				Position: Position{X: 50, Y: 120},
				Size:     Size{Width: 800, Height: 300},
				Style:    Style{FontSize: 16},
			},
			Content: "hello",
		},
		&ImageElement{
			Box: Box{
				Position: Position{X: 50, Y: 450},
				Size:     Size{Width: 400, Height: 200},
			},
			URL:    "data:image/png;base64,abc",
			Prompt: "a rocket",
		},
		&ImageSuggestionsElement{
			Box: Box{
				Position: Position{X: 50, Y: 450},
				Size:     Size{Width: 400, Height: 120},
				Style:    Style{FontSize: 14, BackgroundColor: "#f8f9fa"},
			},
			Suggestions: []string{"a rocket", "a graph"},
			Prompt:      "a rocket",
		},
	}}
}

func TestLayoutJSONRoundTrip(t *testing.T) {
	src := sampleLayout()
	data, err := json.Marshal(src)
	require.NoError(t, err)

	var got Layout
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Elements, 4)

	assert.Equal(t, src.Elements[0], got.Elements[0])
	assert.Equal(t, src.Elements[1], got.Elements[1])
	assert.Equal(t, src.Elements[2], got.Elements[2])
	assert.Equal(t, src.Elements[3], got.Elements[3])
}

func TestLayoutJSONTags(t *testing.T) {
	data, err := json.Marshal(sampleLayout())
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"type":"title"`)
	assert.Contains(t, s, `"type":"text"`)
	assert.Contains(t, s, `"type":"image"`)
	assert.Contains(t, s, `"type":"imageSuggestions"`)
	assert.Contains(t, s, `"imagePrompt":"a rocket"`)
	assert.Contains(t, s, `"url":"data:image/png;base64,abc"`)
}

func TestLayoutJSONRejectsUnknownKind(t *testing.T) {
	blob := `{"elements":[{"type":"video","position":{"x":0,"y":0},"size":{"width":1,"height":1}}]}`
	var l Layout
	err := json.Unmarshal([]byte(blob), &l)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestLayoutClone(t *testing.T) {
	src := sampleLayout()
	cp := src.Clone()
	require.Equal(t, src, cp)

	cp.Elements[0].(*TitleElement).Content = "changed"
	cp.Elements[3].(*ImageSuggestionsElement).Suggestions[0] = "changed"
	assert.Equal(t, "Intro", src.Elements[0].(*TitleElement).Content)
	assert.Equal(t, "a rocket", src.Elements[3].(*ImageSuggestionsElement).Suggestions[0])

	var nilLayout *Layout
	assert.Nil(t, nilLayout.Clone())
}

func TestLayoutHelpers(t *testing.T) {
	src := sampleLayout()
	require.NotNil(t, src.Image())
	require.NotNil(t, src.Suggestions())

	empty := &Layout{}
	assert.Nil(t, empty.Image())
	assert.Nil(t, empty.Suggestions())
}
