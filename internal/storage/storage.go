package storage

import (
	"context"

	"github.com/readmedraft/readmed/internal/document"
)

// Settings holds app-level preferences persisted alongside the draft. The
// preview flag is the only key the core knows about; the rest is opaque to us
// and round-trips untouched.
type Settings map[string]any

// Backend persists the draft and settings. Load operations return nil with no
// error when nothing has been saved yet. Failures are non-fatal to the
// in-memory draft; callers surface them through the save-status machine.
type Backend interface {
	SaveDraft(ctx context.Context, draft document.Draft) error
	LoadDraft(ctx context.Context) (*document.Draft, error)
	ClearDraft(ctx context.Context) error

	SaveSettings(ctx context.Context, s Settings) error
	LoadSettings(ctx context.Context) (Settings, error)
	ClearSettings(ctx context.Context) error
}
