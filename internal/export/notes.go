package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// The package writer has no presenter-notes surface, so notes are spliced
// into the serialized container directly: a notes master, one notes slide per
// noted presentation slide, and the relationship plumbing that binds them.

const (
	relTypeNotesMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesMaster"
	relTypeNotesSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTypeSlideRef    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"

	ctNotesMaster = "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml"
	ctNotesSlide  = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"

	notesMasterXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notesMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld><p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/></p:notesMaster>`

	relsHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
)

var ridPattern = regexp.MustCompile(`Id="rId(\d+)"`)

// spliceNotes rewrites the container so that every presentation slide listed
// in notes (1-based, the title slide is 1) carries a notes slide with the
// given text. The input bytes are left untouched.
func spliceNotes(pkg []byte, notes map[int]string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return nil, err
	}

	parts := make(map[string][]byte, len(zr.File))
	order := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		parts[f.Name] = data
		order = append(order, f.Name)
	}

	theme := findTheme(order)
	if theme == "" {
		return nil, fmt.Errorf("package has no theme part")
	}

	// Notes master plus its theme binding.
	parts["ppt/notesMasters/notesMaster1.xml"] = []byte(notesMasterXML)
	parts["ppt/notesMasters/_rels/notesMaster1.xml.rels"] = []byte(insertBefore(relsHeader, "</Relationships>",
		fmt.Sprintf(`<Relationship Id="rId1" Type="%s" Target="/%s" TargetMode="Internal"/>`, relTypeTheme, theme)))
	order = append(order, "ppt/notesMasters/notesMaster1.xml", "ppt/notesMasters/_rels/notesMaster1.xml.rels")

	// Register the master with the presentation: relationship first, then the
	// notesMasterIdLst element after the slide-master list.
	presRels := "ppt/_rels/presentation.xml.rels"
	rid := nextRID(parts[presRels])
	parts[presRels] = []byte(insertBefore(string(parts[presRels]), "</Relationships>",
		fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="notesMasters/notesMaster1.xml"/>`, rid, relTypeNotesMaster)))

	pres := string(parts["ppt/presentation.xml"])
	marker := "</p:sldMasterIdLst>"
	if !strings.Contains(pres, marker) {
		return nil, fmt.Errorf("presentation part has no slide master list")
	}
	pres = strings.Replace(pres, marker,
		marker+fmt.Sprintf(`<p:notesMasterIdLst><p:notesMasterId r:id="rId%d"/></p:notesMasterIdLst>`, rid), 1)
	parts["ppt/presentation.xml"] = []byte(pres)

	ct := string(parts["[Content_Types].xml"])
	ctAdd := fmt.Sprintf(`<Override PartName="/ppt/notesMasters/notesMaster1.xml" ContentType="%s"/>`, ctNotesMaster)

	// Deterministic notes-slide numbering.
	idxs := make([]int, 0, len(notes))
	for i := range notes {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	for n, slideIdx := range idxs {
		noteNum := n + 1
		slidePart := fmt.Sprintf("ppt/slides/slide%d.xml", slideIdx)
		if _, ok := parts[slidePart]; !ok {
			return nil, fmt.Errorf("package has no part %s", slidePart)
		}
		notePart := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", noteNum)
		noteRels := fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", noteNum)

		parts[notePart] = []byte(notesSlideXML(notes[slideIdx]))
		parts[noteRels] = []byte(insertBefore(relsHeader, "</Relationships>",
			fmt.Sprintf(`<Relationship Id="rId1" Type="%s" Target="../notesMasters/notesMaster1.xml"/><Relationship Id="rId2" Type="%s" Target="../slides/slide%d.xml"/>`,
				relTypeNotesMaster, relTypeSlideRef, slideIdx)))
		order = append(order, notePart, noteRels)

		slideRels := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideIdx)
		existing, ok := parts[slideRels]
		if !ok {
			existing = []byte(relsHeader)
			order = append(order, slideRels)
		}
		srid := nextRID(existing)
		parts[slideRels] = []byte(insertBefore(string(existing), "</Relationships>",
			fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="../notesSlides/notesSlide%d.xml"/>`, srid, relTypeNotesSlide, noteNum)))

		ctAdd += fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, notePart, ctNotesSlide)
	}

	parts["[Content_Types].xml"] = []byte(insertBefore(ct, "</Types>", ctAdd))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(parts[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func notesSlideXML(text string) string {
	var body strings.Builder
	for _, line := range strings.Split(text, "\n") {
		body.WriteString(`<a:p><a:r><a:t>`)
		body.WriteString(escapeXML(line))
		body.WriteString(`</a:t></a:r></a:p>`)
	}
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/><p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>` + body.String() + `</p:txBody></p:sp></p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:notes>`
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func insertBefore(doc, marker, insert string) string {
	return strings.Replace(doc, marker, insert+marker, 1)
}

// nextRID returns one past the highest relationship id in a .rels part.
func nextRID(rels []byte) int {
	max := 0
	for _, m := range ridPattern.FindAllSubmatch(rels, -1) {
		var n int
		fmt.Sscanf(string(m[1]), "%d", &n)
		if n > max {
			max = n
		}
	}
	return max + 1
}

func findTheme(names []string) string {
	themes := make([]string, 0, 1)
	for _, n := range names {
		if strings.HasPrefix(n, "ppt/theme/") && strings.HasSuffix(n, ".xml") {
			themes = append(themes, n)
		}
	}
	if len(themes) == 0 {
		return ""
	}
	sort.Strings(themes)
	return themes[0]
}
