package worker

import (
	"context"

	"github.com/crimecard/intake/internal/entity"
)

// TextAnalyzer is the analysis capability the pipeline depends on: text in,
// structured entities out, plus an extract mode for binary document formats.
// The subprocess bridge is the production implementation; tests substitute
// in-process doubles.
type TextAnalyzer interface {
	// ExtractText runs the worker in extract mode against a stored file and
	// returns the extracted text, lines joined with newlines.
	ExtractText(ctx context.Context, path string) (string, error)

	// Classify runs the worker in process mode against canonical text and
	// returns the parsed analysis plus the raw JSON the worker emitted.
	Classify(ctx context.Context, text string) (entity.AnalysisResult, []byte, error)
}
