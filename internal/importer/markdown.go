package importer

import (
	"fmt"
	"io"

	"github.com/readmedraft/readmed/internal/document"
)

// MarkdownImporter handles markdown files. Existing section markers in the
// source keep their ids, so re-importing an exported draft round-trips.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	parsed := document.Parse(string(data))
	res := &Result{
		Title:    parsed.Title,
		Sections: parsed.Sections,
	}
	if res.Title == "" {
		res.Title = stem(filename)
	}
	return res, nil
}
