package document

import (
	"strings"
	"testing"
)

func TestParse_TitleAndSections(t *testing.T) {
	input := `# My Project


<!-- section-id: abc -->
## Usage

Run the binary.

<!-- section-id: def -->
## License

MIT.
`
	res := Parse(input)

	if res.Title != "My Project" {
		t.Errorf("expected title %q, got %q", "My Project", res.Title)
	}
	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.Sections))
	}
	if res.Sections[0].ID != "abc" || res.Sections[0].Title != "Usage" {
		t.Errorf("section 0 = %+v", res.Sections[0])
	}
	if res.Sections[0].Content != "Run the binary." {
		t.Errorf("section 0 content = %q", res.Sections[0].Content)
	}
	if res.Sections[1].ID != "def" || res.Sections[1].Title != "License" {
		t.Errorf("section 1 = %+v", res.Sections[1])
	}
	if res.Sections[1].Content != "MIT." {
		t.Errorf("section 1 content = %q", res.Sections[1].Content)
	}
}

func TestParse_MintsIDForUnmarkedHeading(t *testing.T) {
	res := Parse("## Usage\n\nSome text.\n")
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	sec := res.Sections[0]
	if sec.ID == "" {
		t.Error("expected a minted id")
	}
	if sec.Title != "Usage" || sec.Content != "Some text." {
		t.Errorf("section = %+v", sec)
	}
}

func TestParse_CodeFencesSurviveLossless(t *testing.T) {
	input := "<!-- section-id: run -->\n## Run Locally\n\nClone it:\n\n```bash\ngit clone repo\n```\n\nDone.\n"
	res := Parse(input)
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	content := res.Sections[0].Content
	if !strings.Contains(content, "```bash\ngit clone repo\n```") {
		t.Errorf("expected fence preserved verbatim, got %q", content)
	}
	if !strings.Contains(content, "Done.") {
		t.Errorf("expected trailing text, got %q", content)
	}
}

func TestParse_FenceWithHeadingInside(t *testing.T) {
	input := "<!-- section-id: x -->\n## Code\n\n```\n## not a heading\n```\n"
	res := Parse(input)
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d: %+v", len(res.Sections), res.Sections)
	}
	if !strings.Contains(res.Sections[0].Content, "## not a heading") {
		t.Errorf("expected fenced pseudo-heading kept as content, got %q", res.Sections[0].Content)
	}
}

func TestParse_SecondH1BecomesContent(t *testing.T) {
	input := "# Title\n\n<!-- section-id: a -->\n## Section\n\ntext\n\n# Another Title\n"
	res := Parse(input)
	if res.Title != "Title" {
		t.Errorf("expected first h1 as title, got %q", res.Title)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if !strings.Contains(res.Sections[0].Content, "# Another Title") {
		t.Errorf("expected second h1 kept as content, got %q", res.Sections[0].Content)
	}
}

func TestParse_PreambleBeforeFirstSectionDropped(t *testing.T) {
	res := Parse("free floating intro\n\n<!-- section-id: a -->\n## A\n\nbody\n")
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if strings.Contains(res.Sections[0].Content, "free floating") {
		t.Errorf("preamble leaked into section content: %q", res.Sections[0].Content)
	}
}

func TestParse_DeeperHeadingsStayInContent(t *testing.T) {
	input := "<!-- section-id: a -->\n## API\n\n### Endpoints\n\nGET /things\n"
	res := Parse(input)
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if !strings.Contains(res.Sections[0].Content, "### Endpoints") {
		t.Errorf("expected h3 kept in content, got %q", res.Sections[0].Content)
	}
}

func TestParse_MarkerWithoutHeading(t *testing.T) {
	// A token followed by plain text yields a titleless section.
	res := Parse("<!-- section-id: raw -->\nJust some text.\n")
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	sec := res.Sections[0]
	if sec.ID != "raw" || sec.Title != "" {
		t.Errorf("section = %+v", sec)
	}
	if sec.Content != "Just some text." {
		t.Errorf("content = %q", sec.Content)
	}
}

func TestParse_TitlelessSectionKeepsAllLines(t *testing.T) {
	// A marker followed by plain text must keep every content line.
	flat := Build([]Section{{ID: "x", Content: "line1\nline2"}}, []string{"x"}, "")
	res := Parse(flat)
	if len(res.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(res.Sections))
	}
	if res.Sections[0].Content != "line1\nline2" {
		t.Errorf("content = %q, want %q", res.Sections[0].Content, "line1\nline2")
	}
}

func TestParse_DuplicateMarkersFirstWins(t *testing.T) {
	input := "<!-- section-id: dup -->\n## One\n\na\n\n<!-- section-id: dup -->\n## Two\n\nb\n"
	res := Parse(input)
	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.Sections))
	}
	if res.Sections[0].ID != "dup" {
		t.Errorf("first section should keep the id, got %q", res.Sections[0].ID)
	}
	if res.Sections[1].ID == "dup" {
		t.Error("second section should have been re-minted")
	}
}

func TestParse_EmptyInput(t *testing.T) {
	res := Parse("")
	if res.Title != "" || len(res.Sections) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestParse_EmptySectionDropped(t *testing.T) {
	// A dangling token with no heading and no content produces nothing.
	res := Parse("<!-- section-id: ghost -->\n")
	if len(res.Sections) != 0 {
		t.Errorf("expected no sections, got %+v", res.Sections)
	}
}
