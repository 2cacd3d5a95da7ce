package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/readmedraft/readmed/internal/document"
	"github.com/readmedraft/readmed/internal/marker"
)

// DOCXImporter handles .docx files. Heading 1 paragraphs map to the document
// title (first) or section starts, Heading 2 starts a section, and deeper
// heading styles become markdown heading lines in the body.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*Result, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "readmed-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	res := &Result{}
	var sections []document.Section
	active := -1
	seenH1 := false
	var preamble strings.Builder

	appendText := func(t string) {
		if t == "" {
			return
		}
		if active < 0 {
			if preamble.Len() > 0 {
				preamble.WriteString("\n\n")
			}
			preamble.WriteString(t)
			return
		}
		if sections[active].Content != "" {
			sections[active].Content += "\n\n" + t
		} else {
			sections[active].Content = t
		}
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		level := docxHeadingLevel(para)
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		switch {
		case level == 1:
			if !seenH1 {
				seenH1 = true
				res.Title = text
			} else {
				appendText("# " + text)
			}
		case level == 2:
			sections = append(sections, document.Section{
				ID:    marker.NewID(),
				Title: text,
			})
			active = len(sections) - 1
		case level > 2:
			appendText(strings.Repeat("#", level) + " " + text)
		default:
			appendText(text)
		}
	}

	if pre := strings.TrimSpace(preamble.String()); pre != "" {
		intro := document.Section{ID: marker.NewID(), Content: pre}
		sections = append([]document.Section{intro}, sections...)
	}
	res.Sections = sections
	if res.Title == "" {
		res.Title = stem(filename)
	}
	return res, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for level := 1; level <= 6; level++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", level)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", level)) {
			return level
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
