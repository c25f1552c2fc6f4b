package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/entity"
	"github.com/crimecard/intake/internal/extract"
	"github.com/crimecard/intake/internal/intake"
	"github.com/crimecard/intake/internal/repository"
	"github.com/crimecard/intake/internal/worker"
)

// Processor coordinates one pipeline run: normalize (+ extract for uploads),
// classify through the worker bridge, assemble, persist. Each run is an
// independent task; the processor holds no per-run state and is safe for
// concurrent use.
type Processor struct {
	Logger    *slog.Logger
	Extractor extract.TextExtractor
	Analyzer  worker.TextAnalyzer
	Reports   repository.ReportRepository
}

func NewProcessor(logger *slog.Logger, ex extract.TextExtractor, an worker.TextAnalyzer, reports repository.ReportRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extractor: ex, Analyzer: an, Reports: reports}
}

// Process runs one submission through the pipeline and returns the persisted
// record. Every stage fails fast; nothing is retried. The temporary uploaded
// file, if any, is owned by this run and removed on every exit path.
func (p *Processor) Process(ctx context.Context, sub entity.Submission) (*entity.IncidentRecord, error) {
	start := time.Now()

	if sub.InputMethod == constants.InputUpload && sub.UploadedFile != nil && sub.UploadedFile.Path != "" {
		defer p.removeUpload(sub.UploadedFile.Path)
	}

	text, err := intake.Normalize(ctx, sub, p.Extractor)
	if err != nil {
		p.Logger.Error("pipeline.normalize.failed", "input_method", sub.InputMethod, "err", err)
		return nil, err
	}
	p.Logger.Info("pipeline.normalize.ok", "input_method", sub.InputMethod, "text_len", len(text))

	analysis, raw, err := p.Analyzer.Classify(ctx, text)
	if err != nil {
		p.Logger.Error("pipeline.classify.failed", "input_method", sub.InputMethod,
			"raw_bytes", len(raw), "err", err)
		return nil, err
	}

	rec := Assemble(sub, text, analysis)
	stored, err := p.Reports.Insert(ctx, rec)
	if err != nil {
		p.Logger.Error("pipeline.store.failed", "input_method", sub.InputMethod, "err", err)
		return nil, err
	}

	p.Logger.Info("pipeline.ok",
		"record_id", stored.ID,
		"input_method", sub.InputMethod,
		"classification", stored.Classification,
		"severity", stored.SeverityScore,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return stored, nil
}

// removeUpload deletes a temporary uploaded file. Failure is logged, never
// escalated: by the time cleanup runs the pipeline outcome is already decided.
func (p *Processor) removeUpload(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.Logger.Warn("pipeline.cleanup.failed", "path", path, "err", err)
		return
	}
	p.Logger.Debug("pipeline.cleanup.ok", "path", path)
}
