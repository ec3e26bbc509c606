package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/allana0-dev/refynely-backend/internal/model"
)

// 16:9 package geometry, in EMU.
const (
	emuPerInch = 914400

	pkgSlideWidth  = int64(10.0 * emuPerInch)
	pkgSlideHeight = int64(5.625 * emuPerInch)

	pkgMargin       = int64(0.5 * emuPerInch)
	pkgContentWidth = int64(9.0 * emuPerInch)

	pkgFontTitle   = 36
	pkgFontHeading = 28
	pkgFontBody    = 18
)

// Package renders the deck as a presentation package: one title slide plus
// one slide per deck slide. Slide text uses a fixed two-box template rather
// than the layout document's element positions; embedded data-URI images are
// carried over. Speaker notes land in the presenter-notes part, spliced into
// the container after serialization.
func Package(deck *model.Deck) ([]byte, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = deck.Title

	// Title slide: deck title centered.
	title := p.GetActiveSlide()
	titleShape := title.CreateRichTextShape()
	titleShape.SetOffsetX(pkgMargin).SetOffsetY(int64(2.3 * emuPerInch))
	titleShape.SetWidth(pkgContentWidth).SetHeight(int64(1.0 * emuPerInch))
	run := titleShape.CreateTextRun(deck.Title)
	run.GetFont().SetSize(pkgFontTitle).SetBold(true)
	alignCenter(titleShape.GetActiveParagraph())

	// Presenter notes keyed by presentation slide number. The title slide is
	// slide 1, so deck slide i lands on slide i+2.
	notes := make(map[int]string)

	for i, sl := range deck.Slides {
		slide := p.CreateSlide()

		heading := slide.CreateRichTextShape()
		heading.SetOffsetX(pkgMargin).SetOffsetY(int64(0.5 * emuPerInch))
		heading.SetWidth(pkgContentWidth).SetHeight(int64(0.8 * emuPerInch))
		hr := heading.CreateTextRun(sl.Title)
		hr.GetFont().SetSize(pkgFontHeading).SetBold(true)

		body := slide.CreateRichTextShape()
		body.SetOffsetX(pkgMargin).SetOffsetY(int64(1.5 * emuPerInch))
		body.SetWidth(pkgContentWidth).SetHeight(int64(3.5 * emuPerInch))
		for j, line := range strings.Split(sl.Content, "\n") {
			if j > 0 {
				body.CreateParagraph()
			}
			br := body.CreateTextRun(line)
			br.GetFont().SetSize(pkgFontBody)
		}

		if img := sl.Layout.Image(); img != nil {
			addDataURIImage(slide, img.URL)
		}
		if sl.SpeakerNotes != "" {
			notes[i+2] = sl.SpeakerNotes
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}

	if len(notes) == 0 {
		return buf.Bytes(), nil
	}
	out, err := spliceNotes(buf.Bytes(), notes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRenderFailure, err)
	}
	return out, nil
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// addDataURIImage embeds an image carried inline in the layout document.
// External URLs are skipped: the package format wants bytes, and fetching is
// not a renderer concern.
func addDataURIImage(slide *ppt.Slide, url string) {
	if !strings.HasPrefix(url, "data:image") {
		return
	}
	parts := strings.SplitN(url, ",", 2)
	if len(parts) != 2 {
		return
	}
	mime := "image/png"
	if strings.Contains(parts[0], "image/jpeg") {
		mime = "image/jpeg"
	} else if strings.Contains(parts[0], "image/gif") {
		mime = "image/gif"
	}
	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return
	}
	shape := slide.CreateDrawingShape()
	shape.SetImageData(raw, mime)
	shape.SetOffsetX(pkgMargin).SetOffsetY(int64(3.3 * emuPerInch))
	shape.SetWidth(int64(4.0 * emuPerInch)).SetHeight(int64(2.0 * emuPerInch))
}
