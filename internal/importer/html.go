package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/readmedraft/readmed/internal/document"
	"github.com/readmedraft/readmed/internal/marker"
)

// HTMLImporter handles HTML files. The first h1 (or the <title> tag) becomes
// the document title, each h2 starts a section, and deeper headings are kept
// as markdown heading lines inside the section body.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	res := &Result{}
	if t := findTitle(doc); t != "" {
		res.Title = t
	}

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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				title := textContent(n)
				switch {
				case level == 1:
					// First h1 wins the document title, later ones stay
					// as heading lines in the body.
					if !seenH1 {
						seenH1 = true
						res.Title = title
					} else {
						appendText("# " + title)
					}
				case level == 2:
					sections = append(sections, document.Section{
						ID:    marker.NewID(),
						Title: title,
					})
					active = len(sections) - 1
				default:
					appendText(strings.Repeat("#", level) + " " + title)
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "li":
				if t := textContent(n); t != "" {
					appendText("- " + t)
				}
				return
			case "p", "td", "blockquote":
				appendText(textContent(n))
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
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

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
