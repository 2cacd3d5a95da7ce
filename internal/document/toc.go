package document

import "strings"

// tocExcluded names sections that never appear in a generated table of
// contents, matched against both id and title.
var tocExcluded = map[string]struct{}{
	"Table of Contents": {},
	"Title":             {},
	TOCID:               {},
	"Project Title":     {},
	TitleID:             {},
}

// GenerateTOC produces the table-of-contents body for the given sections,
// which must already be in display (selection) order. Each entry is a bullet
// anchor link; excluded names and the TOC itself never appear. The function
// is pure: unchanged input yields an identical string.
func GenerateTOC(sections []Section) string {
	var items []string
	for _, sec := range sections {
		if _, skip := tocExcluded[sec.ID]; skip {
			continue
		}
		if _, skip := tocExcluded[sec.Title]; skip {
			continue
		}
		if sec.Title == "" {
			continue
		}
		items = append(items, "- ["+sec.Title+"](#"+Anchor(sec.Title)+")")
	}
	return strings.Join(items, "\n")
}

// Anchor converts a heading into its same-document link target: lowercase,
// characters outside [a-z0-9 ] dropped, whitespace runs collapsed to a single
// hyphen.
func Anchor(title string) string {
	lower := strings.ToLower(title)
	var b strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
