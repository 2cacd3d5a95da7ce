package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/readmedraft/readmed/internal/marker"
)

// ParseResult is the structured form of a flat markdown document.
type ParseResult struct {
	Sections []Section
	Title    string
}

// Parse consumes a flat markdown string and produces the ordered section list
// plus the document title (first level-1 heading). The text is first run
// through marker.Ensure so every level-2 heading carries a unique token; a
// token opens a new section accumulator, the following heading supplies its
// title, and every other top-level block joins the active section's content.
// Content appearing before the first section that is not the title heading is
// freeform preamble and is dropped. Parse never fails: malformed structure
// degrades to content of the active section.
func Parse(source string) ParseResult {
	ensured, _ := marker.Ensure(source)
	src := []byte(ensured)

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	type accum struct {
		id    string
		title string
		parts []string
	}

	var (
		res    ParseResult
		active *accum
		cursor int
	)

	flush := func() {
		if active == nil {
			return
		}
		content := strings.Join(active.parts, "\n\n")
		if active.title != "" || strings.TrimSpace(content) != "" {
			res.Sections = append(res.Sections, Section{
				ID:      active.id,
				Title:   active.title,
				Content: content,
			})
		}
		active = nil
	}

	addGap := func(from, to int) {
		if active == nil || from >= to {
			return
		}
		if g := trimBlankLines(string(src[from:to])); g != "" {
			active.parts = append(active.parts, g)
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		start, end, ok := blockSpan(src, n)
		if !ok {
			continue
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level != 1 && node.Level != 2 {
				continue
			}
			addGap(cursor, start)
			cursor = end
			title := strings.TrimSpace(string(node.Text(src)))
			if node.Level == 1 {
				if res.Title == "" {
					res.Title = title
				} else if active != nil {
					// A second level-1 heading degrades to plain content.
					active.parts = append(active.parts, strings.TrimRight(string(src[start:end]), "\n"))
				}
				continue
			}
			if active != nil && active.title == "" {
				active.title = title
				continue
			}
			flush()
			active = &accum{id: marker.NewID(), title: title}

		case *ast.HTMLBlock:
			raw := strings.TrimSpace(blockSource(src, node))
			id, isToken := marker.ParseToken(raw)
			if !isToken {
				continue
			}
			addGap(cursor, start)
			cursor = end
			flush()
			active = &accum{id: id}
		}
	}
	addGap(cursor, len(src))
	flush()

	return res
}

// blockSpan returns the byte range of the full source lines covered by a
// block node, or ok=false when the node carries no line information.
func blockSpan(src []byte, n ast.Node) (int, int, bool) {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0, 0, false
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return lineStart(src, first.Start), lineEnd(src, last.Stop), true
}

func blockSource(src []byte, n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}

func lineEnd(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	// Some block segments (HTML blocks) already include the trailing newline.
	if pos > 0 && src[pos-1] == '\n' {
		return pos
	}
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}

// trimBlankLines strips leading and trailing whitespace-only lines while
// leaving interior structure (indentation, fences) untouched.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start >= end {
		return ""
	}
	return strings.Join(lines[start:end], "\n")
}
