package extract

import "context"

// TextExtractor is Stage 1: stored file -> UTF-8 text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}
