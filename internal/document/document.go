package document

// Reserved ids. TitleID is a pseudo-id: it participates in selections to
// control whether the document title is rendered, but never names a Section.
const (
	TitleID = "__title__"
	TOCID   = "toc"
)

// Section is a titled, content-bearing unit of the document. The id is opaque
// and immutable once assigned; Content holds the section body without its
// heading line.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Draft is the complete in-memory editing state. Selections lists the section
// ids currently included in the rendered document, in display order; sections
// absent from it are retained but contribute nothing to Markdown. Markdown is
// a derived cache and always equals Build(Sections, Selections, Title).
type Draft struct {
	Sections   []Section `json:"sections"`
	Selections []string  `json:"selections"`
	Title      string    `json:"title,omitempty"`
	Markdown   string    `json:"markdown"`
}

// Section returns a pointer to the section with the given id, or nil.
func (d *Draft) Section(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// Selected reports whether an id is present in the selections list.
func (d *Draft) Selected(id string) bool {
	for _, s := range d.Selections {
		if s == id {
			return true
		}
	}
	return false
}

// VisibleSections returns the selected sections in selection order, skipping
// the title pseudo-id and ids with no backing section.
func (d *Draft) VisibleSections() []Section {
	var out []Section
	for _, id := range d.Selections {
		if id == TitleID {
			continue
		}
		if sec := d.Section(id); sec != nil {
			out = append(out, *sec)
		}
	}
	return out
}

// Clone returns a deep copy safe to hand to other goroutines.
func (d *Draft) Clone() Draft {
	cp := Draft{
		Title:    d.Title,
		Markdown: d.Markdown,
	}
	cp.Sections = append([]Section(nil), d.Sections...)
	cp.Selections = append([]string(nil), d.Selections...)
	return cp
}
