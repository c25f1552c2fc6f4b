package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/entity"
	"github.com/crimecard/intake/internal/pipeline"
)

// Service drives the drop directory: every document that lands in the watched
// directory is submitted through the pipeline as an upload. The original file
// is removed only after a successful run, so failed documents stay in place
// for the operator.
type Service struct {
	cfg       Config
	proc      *pipeline.Processor
	uploadDir string
	source    string
	logger    *slog.Logger
}

func NewService(cfg Config, proc *pipeline.Processor, uploadDir, source string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if source == "" {
		source = "drop:" + filepath.Base(cfg.Dir)
	}
	return &Service{
		cfg:       cfg,
		proc:      proc,
		uploadDir: uploadDir,
		source:    source,
		logger:    logger,
	}
}

// Run blocks until ctx is cancelled, processing drop events as they arrive.
func (s *Service) Run(ctx context.Context) error {
	evCh, errCh, err := StartWatcher(ctx, s.cfg, s.logger)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-evCh:
			if !ok {
				return nil
			}
			s.handle(ctx, path)
		case _, ok := <-errCh:
			if !ok {
				return nil
			}
			// already logged by the watcher; keep running
		}
	}
}

// handle submits one dropped file. The pipeline run owns a staged copy, so
// the drop original survives any failure.
func (s *Service) handle(ctx context.Context, path string) {
	staged, err := s.stage(path)
	if err != nil {
		s.logger.Error("watch.stage_failed", "path", path, "err", err)
		return
	}

	sub := entity.Submission{
		InputMethod: constants.InputUpload,
		Source:      s.source,
		UploadedFile: &entity.UploadedFile{
			Path:         staged,
			OriginalName: filepath.Base(path),
			MIMEType:     constants.MIMETypeForExt(filepath.Ext(path)),
		},
	}

	rec, err := s.proc.Process(ctx, sub)
	if err != nil {
		s.logger.Error("watch.process_failed", "path", path, "err", err)
		return
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("watch.consume_failed", "path", path, "err", err)
	}
	s.logger.Info("watch.processed", "path", path, "record_id", rec.ID,
		"classification", rec.Classification)
}

// stage copies a drop file into the upload directory under a fresh name.
func (s *Service) stage(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open drop file: %w", err)
	}
	defer func() { _ = src.Close() }()

	name := uuid.New().String() + "." + constants.NormalizeExt(filepath.Ext(path))
	dst := filepath.Join(s.uploadDir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy drop file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return dst, nil
}
