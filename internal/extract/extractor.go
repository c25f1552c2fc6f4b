package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/worker"
)

// Extractor converts a stored document into UTF-8 text. Plain text is read
// directly; binary document formats are delegated to the analysis worker in
// extract mode. The extractor never touches the file beyond reading it; the
// caller owns the file's lifecycle.
type Extractor struct {
	analyzer worker.TextAnalyzer
	logger   *slog.Logger
}

func NewExtractor(analyzer worker.TextAnalyzer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{analyzer: analyzer, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("extract.start", "path", path, "ext", ext)

	switch ext {
	case "txt":
		b, err := os.ReadFile(path)
		if err != nil {
			e.logger.Error("extract.read_failed", "path", path, "error", err)
			return "", fmt.Errorf("%w: read %s: %v", common.ErrExtraction, filepath.Base(path), err)
		}
		if !utf8.Valid(b) {
			e.logger.Error("extract.decode_failed", "path", path)
			return "", fmt.Errorf("%w: %s is not valid UTF-8", common.ErrExtraction, filepath.Base(path))
		}
		return string(b), nil

	case "pdf", "docx":
		text, err := e.analyzer.ExtractText(ctx, path)
		if err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrExtraction, err)
		}
		return text, nil

	default:
		e.logger.Error("extract.unsupported_extension", "extension", ext)
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
}
