package importer

import (
	"bufio"
	"io"
	"strings"

	"github.com/readmedraft/readmed/internal/document"
	"github.com/readmedraft/readmed/internal/marker"
)

// TextImporter handles plain text files. The whole file becomes one section
// with blank lines normalized to paragraph breaks.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	res := &Result{Title: stem(filename)}
	if len(paragraphs) > 0 {
		res.Sections = append(res.Sections, document.Section{
			ID:      marker.NewID(),
			Title:   res.Title,
			Content: strings.Join(paragraphs, "\n\n"),
		})
	}
	return res, nil
}
