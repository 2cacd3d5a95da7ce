package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/readmedraft/readmed/internal/importer"
)

// Worker processes a single import job.
type Worker struct {
	log *slog.Logger
}

func NewWorker(log *slog.Logger) *Worker {
	return &Worker{log: log}
}

// Process parses the uploaded file into draft sections.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	job.SetStatus(StatusParsing)
	imp, err := importer.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed)
		return
	}

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed)
		return
	}

	res, err := imp.Import(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("import failed", "error", err)
		job.AddError(fmt.Sprintf("import: %s", err))
		job.SetStatus(StatusFailed)
		return
	}
	if len(res.Sections) == 0 {
		log.Warn("no importable content")
		job.AddError("no importable content")
		job.SetStatus(StatusFailed)
		return
	}

	job.SetResult(res)
	job.SetStatus(StatusCompleted)
	log.Info("import complete", "title", res.Title, "sections", len(res.Sections))
}
