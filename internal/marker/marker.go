package marker

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Sections keep their identity across the flat-text representation through an
// HTML comment token placed immediately before the section's level-2 heading:
//
//	<!-- section-id: 3f1c... -->
//	## Usage
//
// The comment is invisible in rendered markdown, so round-tripping a document
// through a raw-text editor preserves section identity.

var (
	tokenRe   = regexp.MustCompile(`^ {0,3}<!--\s*section-id:\s*([A-Za-z0-9_-]+)\s*-->\s*$`)
	headingRe = regexp.MustCompile(`^##(\s|$)`)
	fenceRe   = regexp.MustCompile("^ {0,3}(```|~~~)")
)

// Token renders the marker comment for a section id.
func Token(id string) string {
	return "<!-- section-id: " + id + " -->"
}

// ParseToken reports the section id carried by a marker line, if any.
func ParseToken(line string) (string, bool) {
	m := tokenRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsHeading reports whether a line is a level-2 ATX heading.
func IsHeading(line string) bool {
	return headingRe.MatchString(line)
}

// NewID mints a fresh section id.
func NewID() string {
	return uuid.NewString()
}

// Ensure performs a single scan pass over flat text and guarantees that every
// level-2 heading outside a code fence is preceded by exactly one marker token
// and that token values are unique within the document. Unmarked headings get
// a freshly minted token, inserted with a blank line separating it from the
// previous block. A token whose id was already seen earlier in the document is
// re-minted (first occurrence keeps the id). It returns the rewritten text and
// the ids that were minted.
func Ensure(text string) (string, []string) {
	var (
		out      []string
		minted   []string
		seen     = map[string]bool{}
		pending  = ""
		inFence  = false
		fenceTok = ""
	)

	flushPending := func() {
		if pending != "" {
			out = append(out, pending)
			pending = ""
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if m := fenceRe.FindStringSubmatch(line); m != nil {
			flushPending()
			if !inFence {
				inFence = true
				fenceTok = m[1]
			} else if m[1] == fenceTok {
				inFence = false
			}
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		if id, ok := ParseToken(line); ok {
			if seen[id] {
				id = NewID()
				minted = append(minted, id)
			}
			seen[id] = true
			// A token immediately replaced by another binds last-wins: the
			// earlier pending token is dropped rather than left dangling.
			pending = Token(id)
			continue
		}

		if IsHeading(line) {
			if pending == "" {
				id := NewID()
				minted = append(minted, id)
				seen[id] = true
				pending = Token(id)
				if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
					out = append(out, "")
				}
			}
			flushPending()
			out = append(out, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			// Keep the blank line above a pending token so the token stays
			// adjacent to the heading it will tag.
			if pending != "" {
				out = append(out, line)
				continue
			}
		} else {
			flushPending()
		}
		out = append(out, line)
	}
	flushPending()

	result := strings.Join(out, "\n")
	if strings.HasSuffix(text, "\n") && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	return result, minted
}
