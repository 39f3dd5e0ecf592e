package pipeline

import (
	"context"
	"errors"
	"log/slog"
)

// Worker runs ranking jobs through a Pipeline.
type Worker struct {
	pipeline *Pipeline
	log      *slog.Logger
}

func NewWorker(p *Pipeline, log *slog.Logger) *Worker {
	return &Worker{pipeline: p, log: log}
}

// Process parses the job's documents, ranks their sections, and stores the
// report on the job. A job where some documents failed but a report was
// still produced ends as partial.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Parse and segment
	job.SetStatus(StatusParsing, "parsing")
	files := job.Files()
	inputs := make([]Input, len(files))
	for i, f := range files {
		inputs[i] = BytesInput(f.Name, f.Data)
	}

	corpus, err := w.pipeline.BuildCorpus(ctx, inputs)
	job.ReleaseFiles()
	if err != nil {
		log.Error("corpus build aborted", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	for _, f := range corpus.Failed {
		job.AddError(f.Error())
	}
	job.RecordCorpus(len(corpus.Failed), len(corpus.Sections))

	// Phase 2: Rank
	job.SetStatus(StatusRanking, "ranking")
	report, err := w.pipeline.RankCorpus(ctx, corpus, job.Query)
	if err != nil {
		if errors.Is(err, ErrNoSections) {
			log.Warn("nothing to rank", "documents", len(files), "failed", len(corpus.Failed))
		} else {
			log.Error("ranking failed", "error", err)
		}
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "ranking")
		return
	}
	job.SetReport(report)
	log.Info("ranking complete",
		"sections", len(corpus.Sections),
		"ranked", len(report.ExtractedSections),
		"failed_documents", len(corpus.Failed),
	)

	if len(corpus.Failed) > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
