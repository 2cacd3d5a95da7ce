package draft

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/readmedraft/readmed/internal/document"
	"github.com/readmedraft/readmed/internal/storage"
)

// SaveStatus is the persistence sub-state machine: idle → saving → saved or
// error, with any state able to re-enter saving on the next triggered save.
type SaveStatus string

const (
	StatusIdle   SaveStatus = "idle"
	StatusSaving SaveStatus = "saving"
	StatusSaved  SaveStatus = "saved"
	StatusError  SaveStatus = "error"
)

var ErrSectionNotFound = errors.New("draft: section not found")

// Snapshot is a read-only copy of the store state handed to collaborators.
type Snapshot struct {
	Draft      document.Draft `json:"draft"`
	SaveStatus SaveStatus     `json:"save_status"`
	SaveError  string         `json:"save_error,omitempty"`
	LastSaved  *time.Time     `json:"last_saved,omitempty"`
	Dirty      bool           `json:"dirty"`
}

// Store owns the current draft and is its single mutator. Every action runs
// under one lock and recomputes the TOC section and the cached markdown
// before returning, so callers never observe the structured model and the
// flat text out of sync. Persistence runs off the mutation path through the
// autosave scheduler.
type Store struct {
	mu        sync.Mutex
	draft     document.Draft
	status    SaveStatus
	saveErr   string
	lastSaved *time.Time
	dirty     bool
	gen       uint64

	backend     storage.Backend
	sched       *Scheduler
	log         *slog.Logger
	saveTimeout time.Duration
}

func NewStore(backend storage.Backend, log *slog.Logger, debounce time.Duration, autosave bool) *Store {
	s := &Store{
		backend:     backend,
		log:         log,
		status:      StatusIdle,
		saveTimeout: 10 * time.Second,
	}
	s.sched = NewScheduler(debounce, autosave, s.autosaveFire)
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Draft:      s.draft.Clone(),
		SaveStatus: s.status,
		SaveError:  s.saveErr,
		LastSaved:  s.lastSaved,
		Dirty:      s.dirty,
	}
}

// SetDraft replaces the whole draft.
func (s *Store) SetDraft(d document.Draft) {
	s.mu.Lock()
	s.draft = d.Clone()
	s.recomputeLocked(false)
	s.markDirtyLocked()
	s.mu.Unlock()
	s.sched.Arm()
}

// Restore installs a previously persisted draft without marking it dirty or
// arming autosave. Used once at boot.
func (s *Store) Restore(d document.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d.Clone()
	s.recomputeLocked(false)
}

// AddSection appends a section and selects it. Adding an id that already
// exists (notably the reserved TOC id) does not duplicate the section, it
// only ensures it is selected.
func (s *Store) AddSection(sec document.Section) {
	s.mu.Lock()
	if s.draft.Section(sec.ID) == nil {
		s.draft.Sections = append(s.draft.Sections, sec)
	}
	if !s.draft.Selected(sec.ID) {
		s.draft.Selections = append(s.draft.Selections, sec.ID)
	}
	s.recomputeLocked(false)
	s.markDirtyLocked()
	s.mu.Unlock()
	s.sched.Arm()
}

// UpdateSection replaces the title and/or content of a section in place. The
// id itself is immutable. Updating the TOC section skips the TOC recompute so
// the caller's content sticks; title edits elsewhere propagate into the TOC
// link text.
func (s *Store) UpdateSection(id string, title, content *string) error {
	s.mu.Lock()
	sec := s.draft.Section(id)
	if sec == nil {
		s.mu.Unlock()
		return ErrSectionNotFound
	}
	if title != nil {
		sec.Title = *title
	}
	if content != nil {
		sec.Content = *content
	}
	s.recomputeLocked(id == document.TOCID)
	s.markDirtyLocked()
	s.mu.Unlock()
	s.sched.Arm()
	return nil
}

// ToggleSelection adds or removes an id from selections without touching
// sections. A newly included section lands at the end of the selection order.
func (s *Store) ToggleSelection(id string, included bool) error {
	s.mu.Lock()
	if id != document.TitleID && s.draft.Section(id) == nil {
		s.mu.Unlock()
		return ErrSectionNotFound
	}
	if included {
		if !s.draft.Selected(id) {
			s.draft.Selections = append(s.draft.Selections, id)
		}
	} else {
		s.draft.Selections = removeID(s.draft.Selections, id)
	}
	s.recomputeLocked(false)
	s.markDirtyLocked()
	s.mu.Unlock()
	s.sched.Arm()
	return nil
}

// Reorder replaces the selection order. Ids not currently selected are
// ignored; currently selected ids missing from the new order keep their
// relative position at the end; the title pseudo-id stays pinned to the
// front.
func (s *Store) Reorder(order []string) {
	s.mu.Lock()
	prev := s.draft.Selections
	prevSet := make(map[string]bool, len(prev))
	for _, id := range prev {
		prevSet[id] = true
	}

	var next []string
	used := map[string]bool{}
	for _, id := range order {
		if id == document.TitleID || !prevSet[id] || used[id] {
			continue
		}
		next = append(next, id)
		used[id] = true
	}
	for _, id := range prev {
		if id == document.TitleID || used[id] {
			continue
		}
		next = append(next, id)
		used[id] = true
	}
	if prevSet[document.TitleID] {
		next = append([]string{document.TitleID}, next...)
	}
	s.draft.Selections = next
	s.recomputeLocked(false)
	s.markDirtyLocked()
	s.mu.Unlock()
	s.sched.Arm()
}

// SetTitle sets the document title text and whether the title pseudo-id
// participates in the rendered document.
func (s *Store) SetTitle(title string, included bool) {
	s.mu.Lock()
	s.draft.Title = title
	s.draft.Selections = removeID(s.draft.Selections, document.TitleID)
	if included {
		s.draft.Selections = append([]string{document.TitleID}, s.draft.Selections...)
	}
	s.recomputeLocked(false)
	s.markDirtyLocked()
	s.mu.Unlock()
	s.sched.Arm()
}

// SyncFromMarkdown reparses raw editor text and reconciles the structured
// model with it. Sections present in the text replace their same-id entries
// and define the new selected set; sections absent from the text are retained
// unselected (only an explicit delete or reset removes them). The document
// title follows the text's first level-1 heading. Parse anomalies degrade
// gracefully; this never fails.
func (s *Store) SyncFromMarkdown(text string) {
	res := document.Parse(text)

	s.mu.Lock()
	parsed := make(map[string]bool, len(res.Sections))
	next := make([]document.Section, 0, len(res.Sections)+len(s.draft.Sections))
	var selections []string
	if res.Title != "" {
		selections = append(selections, document.TitleID)
	}
	for _, sec := range res.Sections {
		parsed[sec.ID] = true
		next = append(next, sec)
		selections = append(selections, sec.ID)
	}
	for _, sec := range s.draft.Sections {
		if !parsed[sec.ID] {
			next = append(next, sec)
		}
	}
	s.draft.Sections = next
	s.draft.Selections = selections
	s.draft.Title = res.Title
	s.recomputeLocked(false)
	s.markDirtyLocked()
	s.mu.Unlock()
	s.sched.Arm()
}

// DeleteSection removes a section from both sections and selections.
func (s *Store) DeleteSection(id string) error {
	s.mu.Lock()
	if s.draft.Section(id) == nil {
		s.mu.Unlock()
		return ErrSectionNotFound
	}
	kept := s.draft.Sections[:0]
	for _, sec := range s.draft.Sections {
		if sec.ID != id {
			kept = append(kept, sec)
		}
	}
	s.draft.Sections = kept
	s.draft.Selections = removeID(s.draft.Selections, id)
	s.recomputeLocked(false)
	s.markDirtyLocked()
	s.mu.Unlock()
	s.sched.Arm()
	return nil
}

// Reset discards the draft and cancels any pending autosave so a stale timer
// cannot resurrect the discarded content.
func (s *Store) Reset() {
	s.sched.Cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = document.Draft{}
	s.dirty = false
	s.gen++
	s.status = StatusIdle
	s.saveErr = ""
	s.recomputeLocked(false)
}

// ResetSaveStatus transitions the save status back to idle from any state.
func (s *Store) ResetSaveStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusIdle
	s.saveErr = ""
}

// Save persists the current draft immediately, cancelling any pending
// debounce timer so manual and scheduled saves never race.
func (s *Store) Save(ctx context.Context) error {
	s.sched.Cancel()
	return s.doSave(ctx)
}

// Shutdown cancels the scheduler and flushes unsaved changes.
func (s *Store) Shutdown(ctx context.Context) {
	s.sched.Cancel()
	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()
	if !dirty {
		return
	}
	if err := s.doSave(ctx); err != nil {
		s.log.Error("final save failed", "error", err)
	}
}

func (s *Store) doSave(ctx context.Context) error {
	s.mu.Lock()
	snapshot := s.draft.Clone()
	gen := s.gen
	s.status = StatusSaving
	s.saveErr = ""
	s.mu.Unlock()

	err := s.backend.SaveDraft(ctx, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusError
		s.saveErr = err.Error()
		return err
	}
	s.status = StatusSaved
	now := time.Now()
	s.lastSaved = &now
	// A mutation that raced the write keeps the draft dirty.
	if s.gen == gen {
		s.dirty = false
	}
	return nil
}

func (s *Store) autosaveFire() {
	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()
	if !dirty || !s.sched.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	if err := s.doSave(ctx); err != nil {
		s.log.Error("autosave failed", "error", err)
	}
}

// recomputeLocked restores the derived-state invariants: the TOC section
// content (when present and selected) and the cached markdown.
func (s *Store) recomputeLocked(skipTOC bool) {
	s.draft.Selections = normalizeSelections(&s.draft)
	if !skipTOC {
		if toc := s.draft.Section(document.TOCID); toc != nil && s.draft.Selected(document.TOCID) {
			toc.Content = document.GenerateTOC(s.draft.VisibleSections())
		}
	}
	s.draft.Markdown = document.Build(s.draft.Sections, s.draft.Selections, s.draft.Title)
}

func (s *Store) markDirtyLocked() {
	s.dirty = true
	s.gen++
}

// normalizeSelections dedupes while preserving order, drops ids with no
// backing section, and pins the title pseudo-id to the front. Every surviving
// id references an existing section.
func normalizeSelections(d *document.Draft) []string {
	seen := make(map[string]bool, len(d.Selections))
	var out []string
	hasTitle := false
	for _, id := range d.Selections {
		if seen[id] {
			continue
		}
		seen[id] = true
		if id == document.TitleID {
			hasTitle = true
			continue
		}
		if d.Section(id) == nil {
			continue
		}
		out = append(out, id)
	}
	if hasTitle {
		out = append([]string{document.TitleID}, out...)
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
