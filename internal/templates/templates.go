package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

//go:embed templates/*.md
var builtin embed.FS

// Template is a starter section offered by the catalog. Slug identifies the
// template itself; the section minted from it gets its own id.
type Template struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Catalog holds the ordered set of section templates. Files are markdown with
// YAML frontmatter (slug, title) and the section body below the delimiter; the
// numeric filename prefix fixes the listing order.
type Catalog struct {
	templates []Template
	bySlug    map[string]int
}

// Load builds the catalog from dir, or from the built-in set when dir is
// empty.
func Load(dir string) (*Catalog, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(builtin, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}
	return loadFS(fsys)
}

func loadFS(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "*.md")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	c := &Catalog{bySlug: make(map[string]int, len(names))}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
		tmpl, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		if _, dup := c.bySlug[tmpl.Slug]; dup {
			return nil, fmt.Errorf("duplicate template slug %q in %s", tmpl.Slug, name)
		}
		c.bySlug[tmpl.Slug] = len(c.templates)
		c.templates = append(c.templates, tmpl)
	}
	return c, nil
}

func parse(data []byte) (Template, error) {
	var meta struct {
		Slug  string `yaml:"slug"`
		Title string `yaml:"title"`
	}
	body, err := frontmatter.Parse(strings.NewReader(string(data)), &meta)
	if err != nil {
		return Template{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Slug == "" {
		return Template{}, fmt.Errorf("missing slug")
	}
	return Template{
		Slug:    meta.Slug,
		Title:   meta.Title,
		Content: strings.Trim(string(body), "\n"),
	}, nil
}

// List returns the templates in catalog order.
func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Get looks up a template by slug.
func (c *Catalog) Get(slug string) (Template, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Template{}, false
	}
	return c.templates[i], true
}
