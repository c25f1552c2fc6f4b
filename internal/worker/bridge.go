package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/entity"
)

// Config holds the invocation parameters for the analysis worker.
type Config struct {
	Python  string        // interpreter binary; if empty -> "python3"
	Script  string        // worker script path
	Timeout time.Duration // per-invocation bound; if zero -> 120s
}

// Bridge drives the external analysis worker, one isolated subprocess per
// invocation. It holds no mutable state and is safe for concurrent use.
type Bridge struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
	schema map[string]any
}

func NewBridge(cfg Config, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Bridge{
		cfg:    cfg,
		runner: execRunner{logger: logger},
		logger: logger,
		schema: BuildAnalysisJSONSchema(),
	}
}

// criticalMarkers on stderr are treated as fatal even on a zero exit status.
// Lines carrying a recognized diagnostic prefix are exempt, so routine library
// warnings do not fail an otherwise clean invocation.
var criticalMarkers = []string{"Traceback", "Exception", "Error"}

var benignPrefixes = []string{"WARNING", "FutureWarning", "DeprecationWarning", "UserWarning", "INFO", "DEBUG"}

// Classify runs the worker in process mode and classifies its outcome:
// nonzero exit, critical stderr, empty stdout, malformed JSON, or success.
// The raw JSON document is returned alongside the decoded result.
func (b *Bridge) Classify(ctx context.Context, text string) (entity.AnalysisResult, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()
	b.logger.Info("bridge.classify.start", "req_id", rid, "text_len", len(text))

	stdout, _, err := b.invoke(ctx, rid, constants.WorkerModeProcess, text)
	if err != nil {
		return entity.AnalysisResult{}, nil, err
	}

	raw := bytes.TrimSpace(stdout)
	if len(raw) == 0 {
		b.logger.Error("bridge.classify.empty_output", "req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.AnalysisResult{}, nil,
			fmt.Errorf("%w: process mode emitted nothing on stdout", common.ErrEmptyOutput)
	}

	var res entity.AnalysisResult
	if err := json.Unmarshal(raw, &res); err != nil {
		b.logger.Error("bridge.classify.parse_failed", "req_id", rid,
			"error", err, "raw", truncate(string(raw), 8<<10),
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.AnalysisResult{}, raw,
			fmt.Errorf("%w: %v; raw output: %s", common.ErrMalformedOutput, err, truncate(string(raw), 4<<10))
	}
	if err := ValidateJSONAgainstSchema(b.schema, raw); err != nil {
		b.logger.Error("bridge.classify.schema_failed", "req_id", rid,
			"error", err, "raw", truncate(string(raw), 8<<10),
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.AnalysisResult{}, raw,
			fmt.Errorf("%w: %v; raw output: %s", common.ErrMalformedOutput, err, truncate(string(raw), 4<<10))
	}
	res.Entities.Normalize()

	b.logger.Info("bridge.classify.ok", "req_id", rid,
		"classification", res.Classification,
		"severity", res.SeverityScore,
		"elapsed_ms", time.Since(start).Milliseconds())
	return res, raw, nil
}

// ExtractText runs the worker in extract mode against a stored file. The
// worker emits extracted text lines on stdout; trailing newlines are trimmed.
func (b *Bridge) ExtractText(ctx context.Context, path string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()
	b.logger.Info("bridge.extract.start", "req_id", rid, "path", path)

	stdout, _, err := b.invoke(ctx, rid, constants.WorkerModeExtract, path)
	if err != nil {
		return "", err
	}

	text := strings.TrimRight(string(stdout), "\n")
	b.logger.Info("bridge.extract.ok", "req_id", rid,
		"text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}

// invoke spawns one worker subprocess with argv [mode, payload] under the
// configured deadline and applies the exit-status and stderr-marker checks
// shared by both modes.
func (b *Bridge) invoke(ctx context.Context, rid string, mode constants.WorkerMode, payload string) ([]byte, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	stdout, stderr, err := b.runner.Run(ctx, b.cfg.Python, b.cfg.Script, string(mode), payload)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			b.logger.Error("bridge.invoke.timeout", "req_id", rid, "mode", mode, "timeout", b.cfg.Timeout)
			return nil, stderr, fmt.Errorf("%w: timed out after %s", common.ErrWorkerExecution, b.cfg.Timeout)
		}
		return nil, stderr,
			fmt.Errorf("%w: %v: %s", common.ErrWorkerExecution, err, truncate(string(stderr), 4<<10))
	}

	if marker := firstCriticalMarker(stderr); marker != "" {
		b.logger.Error("bridge.invoke.stderr_marker", "req_id", rid, "mode", mode,
			"marker", marker, "stderr", truncate(string(stderr), 8<<10))
		return nil, stderr,
			fmt.Errorf("%w: worker reported %q on stderr despite exit 0", common.ErrWorkerExecution, marker)
	}
	return stdout, stderr, nil
}

// firstCriticalMarker scans stderr line by line and returns the first fatal
// marker found, or "" when the stream is clean or carries only benign
// diagnostics.
func firstCriticalMarker(stderr []byte) string {
	for _, line := range strings.Split(string(stderr), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		benign := false
		for _, p := range benignPrefixes {
			if strings.HasPrefix(trimmed, p) {
				benign = true
				break
			}
		}
		if benign {
			continue
		}
		for _, m := range criticalMarkers {
			if strings.Contains(trimmed, m) {
				return m
			}
		}
	}
	return ""
}
