package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/entity"
	"github.com/crimecard/intake/internal/extract"
	"github.com/crimecard/intake/internal/pipeline"
	"github.com/crimecard/intake/internal/repository"
)

type stubAnalyzer struct {
	err error
}

func (s *stubAnalyzer) ExtractText(context.Context, string) (string, error) {
	return "", nil
}

func (s *stubAnalyzer) Classify(context.Context, string) (entity.AnalysisResult, []byte, error) {
	if s.err != nil {
		return entity.AnalysisResult{}, nil, s.err
	}
	return entity.AnalysisResult{Summary: "s", Classification: "theft", SeverityScore: 3}, []byte("{}"), nil
}

func newTestService(t *testing.T, analyzer *stubAnalyzer) (*Service, repository.ReportRepository, string, string) {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	reports, err := repository.NewReportRepository(db, nil)
	require.NoError(t, err)

	dropDir := t.TempDir()
	uploadDir := t.TempDir()
	proc := pipeline.NewProcessor(nil, extract.NewExtractor(analyzer, nil), analyzer, reports)
	svc := NewService(Config{Dir: dropDir}, proc, uploadDir, "drop-test", nil)
	return svc, reports, dropDir, uploadDir
}

func dropFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHandleConsumesDropFile(t *testing.T) {
	svc, reports, dropDir, uploadDir := newTestService(t, &stubAnalyzer{})
	path := dropFile(t, dropDir, "incident.txt", "Theft at the market.")

	svc.handle(context.Background(), path)

	recs, err := reports.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "drop-test", recs[0].Source)
	assert.Equal(t, "Theft at the market.", recs[0].ExtractedText)
	assert.Equal(t, "theft", recs[0].Classification)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "drop file must be consumed on success")

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged copy must be cleaned up")
}

func TestHandleKeepsDropFileOnFailure(t *testing.T) {
	workerErr := fmt.Errorf("%w: exit status 1", common.ErrWorkerExecution)
	svc, reports, dropDir, _ := newTestService(t, &stubAnalyzer{err: workerErr})
	path := dropFile(t, dropDir, "incident.txt", "Theft at the market.")

	svc.handle(context.Background(), path)

	recs, err := reports.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = os.Stat(path)
	assert.NoError(t, err, "drop file must survive a failed run")
}

func TestStartWatcherEmitsNewFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, Config{Dir: dir}, nil)
	require.NoError(t, err)

	path := dropFile(t, dir, "report.txt", "x")

	select {
	case got := <-evCh:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for dropped file")
	}
}

func TestStartWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	pre := dropFile(t, dir, "existing.pdf", "x")
	dropFile(t, dir, "ignored.exe", "x")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, Config{Dir: dir, InitialScan: true}, nil)
	require.NoError(t, err)

	select {
	case got := <-evCh:
		assert.Equal(t, pre, got)
	case <-time.After(5 * time.Second):
		t.Fatal("initial scan emitted nothing")
	}
}

func TestStartWatcherDebouncedBurst(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, Config{Dir: dir, Debounce: time.Millisecond}, nil)
	require.NoError(t, err)

	const n = 200
	want := map[string]struct{}{}
	for i := 0; i < n; i++ {
		want[dropFile(t, dir, fmt.Sprintf("report-%03d.txt", i), "x")] = struct{}{}
	}

	got := map[string]struct{}{}
	deadline := time.After(10 * time.Second)
	for len(got) < n {
		select {
		case p, ok := <-evCh:
			if !ok {
				t.Fatalf("channel closed after %d of %d events", len(got), n)
			}
			got[p] = struct{}{}
		case <-deadline:
			t.Fatalf("received %d of %d events", len(got), n)
		}
	}
	for p := range want {
		assert.Contains(t, got, p)
	}
}

func TestStartWatcherRequiresDir(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), Config{}, nil)
	assert.Error(t, err)
}
