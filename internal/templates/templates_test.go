package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Builtin(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := c.List()
	if len(list) != 19 {
		t.Fatalf("expected 19 built-in templates, got %d", len(list))
	}
	if list[0].Slug != "blank-section" {
		t.Errorf("expected blank-section first, got %q", list[0].Slug)
	}
	if list[1].Slug != "toc" {
		t.Errorf("expected toc second, got %q", list[1].Slug)
	}
}

func TestLoad_TOCTemplate(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	toc, ok := c.Get("toc")
	if !ok {
		t.Fatal("expected toc template")
	}
	if toc.Title != "Table of Contents" {
		t.Errorf("title = %q", toc.Title)
	}
	if toc.Content != "" {
		t.Errorf("toc body must be empty (it is generated), got %q", toc.Content)
	}
}

func TestLoad_KnownTemplates(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		slug      string
		title     string
		inContent string
	}{
		{"installation", "Installation", "how to install"},
		{"run-locally", "Run Locally", "```bash"},
		{"features", "Features", "- Feature 1"},
		{"license", "License", "choosealicense.com"},
	}
	for _, tt := range tests {
		tmpl, ok := c.Get(tt.slug)
		if !ok {
			t.Errorf("missing template %q", tt.slug)
			continue
		}
		if tmpl.Title != tt.title {
			t.Errorf("%s: title = %q, want %q", tt.slug, tmpl.Title, tt.title)
		}
		if !strings.Contains(tmpl.Content, tt.inContent) {
			t.Errorf("%s: content %q missing %q", tt.slug, tmpl.Content, tt.inContent)
		}
	}
}

func TestLoad_GetUnknown(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get("nope"); ok {
		t.Error("expected miss for unknown slug")
	}
}

func TestLoad_CustomDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("01-a.md", "---\nslug: alpha\ntitle: Alpha\n---\nAlpha body.\n")
	write("02-b.md", "---\nslug: beta\ntitle: Beta\n---\nBeta body.\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := c.List()
	if len(list) != 2 || list[0].Slug != "alpha" || list[1].Slug != "beta" {
		t.Errorf("list = %+v", list)
	}
	if list[0].Content != "Alpha body." {
		t.Errorf("content = %q", list[0].Content)
	}
}

func TestLoad_DuplicateSlugRejected(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"01-a.md", "02-b.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("---\nslug: same\ntitle: X\n---\nbody\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected duplicate slug error")
	}
}

func TestLoad_MissingSlugRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "01-a.md"), []byte("---\ntitle: X\n---\nbody\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected missing slug error")
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := c.List()
	list[0].Title = "mutated"
	if c.List()[0].Title == "mutated" {
		t.Error("List must not expose internal state")
	}
}
