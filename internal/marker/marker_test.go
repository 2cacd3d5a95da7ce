package marker

import (
	"strings"
	"testing"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		line   string
		wantID string
		wantOK bool
	}{
		{"<!-- section-id: abc123 -->", "abc123", true},
		{"<!--section-id:abc-->", "abc", true},
		{"  <!-- section-id: x-y_z -->  ", "x-y_z", true},
		{"<!-- section-id: -->", "", false},
		{"<!-- other-comment -->", "", false},
		{"## Heading", "", false},
		{"    <!-- section-id: indented -->", "", false}, // 4 spaces is a code block
	}
	for _, tt := range tests {
		id, ok := ParseToken(tt.line)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("ParseToken(%q) = (%q, %v), want (%q, %v)", tt.line, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	id := NewID()
	got, ok := ParseToken(Token(id))
	if !ok || got != id {
		t.Fatalf("ParseToken(Token(%q)) = (%q, %v)", id, got, ok)
	}
}

func TestIsHeading(t *testing.T) {
	if !IsHeading("## Usage") {
		t.Error("expected level-2 heading to match")
	}
	if !IsHeading("##") {
		t.Error("expected bare ## to match")
	}
	if IsHeading("### Deeper") {
		t.Error("level-3 heading should not match")
	}
	if IsHeading("# Title") {
		t.Error("level-1 heading should not match")
	}
}

func TestEnsure_MintsTokenForUnmarkedHeading(t *testing.T) {
	out, minted := Ensure("## Usage\n\nSome text.\n")
	if len(minted) != 1 {
		t.Fatalf("expected 1 minted id, got %d", len(minted))
	}
	lines := strings.Split(out, "\n")
	id, ok := ParseToken(lines[0])
	if !ok {
		t.Fatalf("expected first line to be a token, got %q", lines[0])
	}
	if id != minted[0] {
		t.Errorf("expected minted id %q in token, got %q", minted[0], id)
	}
	if lines[1] != "## Usage" {
		t.Errorf("expected heading after token, got %q", lines[1])
	}
}

func TestEnsure_KeepsExistingToken(t *testing.T) {
	in := "<!-- section-id: abc -->\n## Usage\n\nText.\n"
	out, minted := Ensure(in)
	if out != in {
		t.Errorf("expected input unchanged, got:\n%s", out)
	}
	if len(minted) != 0 {
		t.Errorf("expected no minted ids, got %v", minted)
	}
}

func TestEnsure_RemintsDuplicateIDs(t *testing.T) {
	in := "<!-- section-id: abc -->\n## One\n\n<!-- section-id: abc -->\n## Two\n"
	out, minted := Ensure(in)
	if len(minted) != 1 {
		t.Fatalf("expected 1 minted id, got %d", len(minted))
	}

	var ids []string
	for _, line := range strings.Split(out, "\n") {
		if id, ok := ParseToken(line); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(ids))
	}
	if ids[0] != "abc" {
		t.Errorf("first occurrence should keep its id, got %q", ids[0])
	}
	if ids[1] == "abc" {
		t.Error("second occurrence should get a fresh id")
	}
	if ids[1] != minted[0] {
		t.Errorf("expected second token id %q to match minted %q", ids[1], minted[0])
	}
}

func TestEnsure_IgnoresHeadingsInFences(t *testing.T) {
	in := "```\n## not a heading\n```\n"
	out, minted := Ensure(in)
	if out != in {
		t.Errorf("expected fenced content unchanged, got:\n%s", out)
	}
	if len(minted) != 0 {
		t.Errorf("expected no minted ids, got %v", minted)
	}
}

func TestEnsure_TildeFence(t *testing.T) {
	in := "~~~\n## inside\n~~~\n\n## Outside\n"
	_, minted := Ensure(in)
	if len(minted) != 1 {
		t.Errorf("expected only the outside heading to be tagged, minted %d", len(minted))
	}
}

func TestEnsure_BlankLineBeforeMintedToken(t *testing.T) {
	out, _ := Ensure("Intro text.\n## Usage\n")
	lines := strings.Split(out, "\n")
	if lines[0] != "Intro text." {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != "" {
		t.Errorf("expected blank line between text and token, got %q", lines[1])
	}
	if _, ok := ParseToken(lines[2]); !ok {
		t.Errorf("expected token at line 3, got %q", lines[2])
	}
}

func TestEnsure_PreservesTrailingNewline(t *testing.T) {
	out, _ := Ensure("## A\n")
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline preserved")
	}
	out, _ = Ensure("## A")
	if strings.HasSuffix(out, "\n") {
		t.Error("expected no trailing newline added")
	}
}

func TestEnsure_EmptyInput(t *testing.T) {
	out, minted := Ensure("")
	if out != "" || len(minted) != 0 {
		t.Errorf("expected empty output, got %q / %v", out, minted)
	}
}

func TestNewID_Unique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if _, ok := ParseToken(Token(a)); !ok {
		t.Errorf("minted id %q does not survive the token round trip", a)
	}
}
