package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/entity"
)

// ReportRepository is the persistence boundary for incident records. Each
// operation is atomic on its own; the pipeline implements no cross-record
// transactions.
type ReportRepository interface {
	Insert(ctx context.Context, rec entity.IncidentRecord) (*entity.IncidentRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.IncidentRecord, error)
	List(ctx context.Context) ([]*entity.IncidentRecord, error)
}

const reportsSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id               TEXT PRIMARY KEY,
	input_method     TEXT NOT NULL,
	source           TEXT NOT NULL,
	raw_text         TEXT NOT NULL DEFAULT '',
	manual_data      TEXT,
	file_name        TEXT NOT NULL DEFAULT '',
	extracted_text   TEXT NOT NULL DEFAULT '',
	summary          TEXT NOT NULL DEFAULT '',
	headline         TEXT NOT NULL DEFAULT '',
	classification   TEXT NOT NULL DEFAULT '',
	severity_score   REAL NOT NULL DEFAULT 0,
	confidence       REAL,
	entities         TEXT NOT NULL DEFAULT '{}',
	primary_victim   TEXT NOT NULL DEFAULT '',
	primary_suspect  TEXT NOT NULL DEFAULT '',
	assigned_officer TEXT NOT NULL DEFAULT '',
	weapon           TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	date             TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_created_at_idx ON reports (created_at);
`

// createdAtLayout is fixed-width UTC so lexicographic order matches time
// order in both dialects.
const createdAtLayout = "2006-01-02 15:04:05.000000000"

type reportRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewReportRepository ensures the reports table exists and returns the
// repository over it.
func NewReportRepository(db *sqlx.DB, logger *slog.Logger) (ReportRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.Exec(reportsSchema); err != nil {
		return nil, fmt.Errorf("%w: create schema: %v", common.ErrStorage, err)
	}
	return &reportRepository{db: db, logger: logger}, nil
}

type reportRow struct {
	ID              string          `db:"id"`
	InputMethod     string          `db:"input_method"`
	Source          string          `db:"source"`
	RawText         string          `db:"raw_text"`
	ManualData      sql.NullString  `db:"manual_data"`
	FileName        string          `db:"file_name"`
	ExtractedText   string          `db:"extracted_text"`
	Summary         string          `db:"summary"`
	Headline        string          `db:"headline"`
	Classification  string          `db:"classification"`
	SeverityScore   float64         `db:"severity_score"`
	Confidence      sql.NullFloat64 `db:"confidence"`
	Entities        string          `db:"entities"`
	PrimaryVictim   string          `db:"primary_victim"`
	PrimarySuspect  string          `db:"primary_suspect"`
	AssignedOfficer string          `db:"assigned_officer"`
	Weapon          string          `db:"weapon"`
	Location        string          `db:"location"`
	Date            string          `db:"date"`
	CreatedAt       string          `db:"created_at"`
}

func toRow(rec entity.IncidentRecord) (reportRow, error) {
	row := reportRow{
		ID:              rec.ID.String(),
		InputMethod:     string(rec.InputMethod),
		Source:          rec.Source,
		RawText:         rec.RawText,
		FileName:        rec.FileName,
		ExtractedText:   rec.ExtractedText,
		Summary:         rec.Summary,
		Headline:        rec.Headline,
		Classification:  rec.Classification,
		SeverityScore:   rec.SeverityScore,
		PrimaryVictim:   rec.PrimaryVictim,
		PrimarySuspect:  rec.PrimarySuspect,
		AssignedOfficer: rec.AssignedOfficer,
		Weapon:          rec.Weapon,
		Location:        rec.Location,
		Date:            rec.Date,
		CreatedAt:       rec.CreatedAt.UTC().Format(createdAtLayout),
	}
	if rec.Confidence != nil {
		row.Confidence = sql.NullFloat64{Float64: *rec.Confidence, Valid: true}
	}
	if rec.ManualData != nil {
		b, err := json.Marshal(rec.ManualData)
		if err != nil {
			return reportRow{}, fmt.Errorf("marshal manual data: %w", err)
		}
		row.ManualData = sql.NullString{String: string(b), Valid: true}
	}
	ents, err := json.Marshal(rec.Entities)
	if err != nil {
		return reportRow{}, fmt.Errorf("marshal entities: %w", err)
	}
	row.Entities = string(ents)
	return row, nil
}

func (row reportRow) toRecord() (*entity.IncidentRecord, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse record id %q: %w", row.ID, err)
	}
	createdAt, err := time.Parse(createdAtLayout, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", row.CreatedAt, err)
	}
	rec := &entity.IncidentRecord{
		ID:            id,
		InputMethod:   constants.InputMethod(row.InputMethod),
		Source:        row.Source,
		RawText:       row.RawText,
		FileName:      row.FileName,
		ExtractedText: row.ExtractedText,
		AnalysisResult: entity.AnalysisResult{
			Summary:         row.Summary,
			Headline:        row.Headline,
			Classification:  row.Classification,
			SeverityScore:   row.SeverityScore,
			PrimaryVictim:   row.PrimaryVictim,
			PrimarySuspect:  row.PrimarySuspect,
			AssignedOfficer: row.AssignedOfficer,
			Weapon:          row.Weapon,
			Location:        row.Location,
			Date:            row.Date,
		},
		CreatedAt: createdAt.UTC(),
	}
	if row.Confidence.Valid {
		c := row.Confidence.Float64
		rec.Confidence = &c
	}
	if row.ManualData.Valid {
		var m entity.ManualFields
		if err := json.Unmarshal([]byte(row.ManualData.String), &m); err != nil {
			return nil, fmt.Errorf("unmarshal manual data: %w", err)
		}
		rec.ManualData = &m
	}
	if err := json.Unmarshal([]byte(row.Entities), &rec.Entities); err != nil {
		return nil, fmt.Errorf("unmarshal entities: %w", err)
	}
	rec.Entities.Normalize()
	return rec, nil
}

const insertReport = `
INSERT INTO reports (
	id, input_method, source, raw_text, manual_data, file_name, extracted_text,
	summary, headline, classification, severity_score, confidence, entities,
	primary_victim, primary_suspect, assigned_officer, weapon, location, date,
	created_at
) VALUES (
	:id, :input_method, :source, :raw_text, :manual_data, :file_name, :extracted_text,
	:summary, :headline, :classification, :severity_score, :confidence, :entities,
	:primary_victim, :primary_suspect, :assigned_officer, :weapon, :location, :date,
	:created_at
)`

func (r *reportRepository) Insert(ctx context.Context, rec entity.IncidentRecord) (*entity.IncidentRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	row, err := toRow(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if _, err := r.db.NamedExecContext(ctx, insertReport, row); err != nil {
		r.logger.Error("report insert failed", "id", rec.ID, "error", err)
		return nil, fmt.Errorf("%w: insert: %v", common.ErrStorage, err)
	}

	r.logger.Info("report inserted", "id", rec.ID, "input_method", rec.InputMethod,
		"classification", rec.Classification)
	stored := rec
	return &stored, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.IncidentRecord, error) {
	var row reportRow
	q := r.db.Rebind("SELECT * FROM reports WHERE id = ?")
	if err := r.db.GetContext(ctx, &row, q, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: report %s", common.ErrNotFound, id)
		}
		r.logger.Error("report lookup failed", "id", id, "error", err)
		return nil, fmt.Errorf("%w: get: %v", common.ErrStorage, err)
	}
	rec, err := row.toRecord()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return rec, nil
}

func (r *reportRepository) List(ctx context.Context) ([]*entity.IncidentRecord, error) {
	var rows []reportRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM reports ORDER BY created_at DESC, id DESC")
	if err != nil {
		r.logger.Error("report list failed", "error", err)
		return nil, fmt.Errorf("%w: list: %v", common.ErrStorage, err)
	}
	recs := make([]*entity.IncidentRecord, len(rows))
	for i, row := range rows {
		rec, err := row.toRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
		}
		recs[i] = rec
	}
	return recs, nil
}
