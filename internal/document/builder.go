package document

import (
	"strings"

	"github.com/readmedraft/readmed/internal/marker"
)

// Build serializes a draft into its flat markdown form. The title is emitted
// as a level-1 heading followed by two blank lines when the title pseudo-id is
// selected; each selected section follows as marker token, level-2 heading,
// blank line, and trimmed content, with one blank line between sections.
// Sections absent from selections contribute nothing. The output depends only
// on the inputs, so repeated calls are byte-identical.
func Build(sections []Section, selections []string, title string) string {
	byID := make(map[string]*Section, len(sections))
	for i := range sections {
		byID[sections[i].ID] = &sections[i]
	}

	var b strings.Builder
	if title != "" && containsID(selections, TitleID) {
		b.WriteString("# " + title + "\n\n\n")
	}

	for _, id := range selections {
		if id == TitleID {
			continue
		}
		sec, ok := byID[id]
		if !ok {
			continue
		}
		b.WriteString(marker.Token(sec.ID) + "\n")
		if sec.Title != "" {
			b.WriteString("## " + sec.Title + "\n\n")
		}
		if content := strings.Trim(sec.Content, "\n"); content != "" {
			b.WriteString(content + "\n\n")
		}
	}

	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
