package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/entity"
)

type fakeAnalyzer struct {
	text    string
	err     error
	gotPath string
	called  bool
}

func (f *fakeAnalyzer) ExtractText(_ context.Context, path string) (string, error) {
	f.called = true
	f.gotPath = path
	return f.text, f.err
}

func (f *fakeAnalyzer) Classify(context.Context, string) (entity.AnalysisResult, []byte, error) {
	return entity.AnalysisResult{}, nil, errors.New("not used")
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("witness statement"), 0o644))

	fa := &fakeAnalyzer{}
	ex := NewExtractor(fa, nil)

	text, err := ex.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "witness statement", text)
	assert.False(t, fa.called, "plain text must not reach the worker")
}

func TestExtractPlainTextInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0xfd}, 0o644))

	ex := NewExtractor(&fakeAnalyzer{}, nil)
	_, err := ex.Extract(context.Background(), path)
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestExtractPlainTextMissingFile(t *testing.T) {
	ex := NewExtractor(&fakeAnalyzer{}, nil)
	_, err := ex.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, common.ErrExtraction)
}

func TestExtractBinaryDelegatesToWorker(t *testing.T) {
	for _, name := range []string{"report.pdf", "report.docx"} {
		fa := &fakeAnalyzer{text: "page one\npage two"}
		ex := NewExtractor(fa, nil)

		text, err := ex.Extract(context.Background(), "/uploads/"+name)
		require.NoError(t, err)
		assert.Equal(t, "page one\npage two", text)
		assert.Equal(t, "/uploads/"+name, fa.gotPath)
	}
}

func TestExtractBinaryWorkerFailure(t *testing.T) {
	fa := &fakeAnalyzer{err: common.ErrWorkerExecution}
	ex := NewExtractor(fa, nil)

	_, err := ex.Extract(context.Background(), "/uploads/report.pdf")
	assert.ErrorIs(t, err, common.ErrExtraction)
	assert.ErrorIs(t, err, common.ErrWorkerExecution)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	fa := &fakeAnalyzer{}
	ex := NewExtractor(fa, nil)

	_, err := ex.Extract(context.Background(), "/uploads/report.xlsx")
	require.ErrorIs(t, err, common.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "xlsx")
	assert.False(t, fa.called, "unsupported extensions must not reach the worker")
}
