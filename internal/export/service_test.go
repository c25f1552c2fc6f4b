package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/entity"
)

type fakeRepo struct {
	recs    []*entity.IncidentRecord
	listErr error
}

func (f *fakeRepo) Insert(ctx context.Context, rec entity.IncidentRecord) (*entity.IncidentRecord, error) {
	return &rec, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.IncidentRecord, error) {
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*entity.IncidentRecord, error) {
	return f.recs, f.listErr
}

func TestExportReportsXLSX(t *testing.T) {
	rec := entity.IncidentRecord{
		ID:          uuid.New(),
		InputMethod: constants.InputPaste,
		Source:      "Test Wire",
		RawText:     "Robbery at 5th Ave.",
		AnalysisResult: entity.AnalysisResult{
			Summary:        "A robbery occurred on 5th Ave.",
			Classification: "robbery",
			SeverityScore:  6.5,
			Entities: entity.Entities{
				Locations: []string{"5th Ave"},
				Persons:   []string{"John Doe", "Jane Roe"},
			},
		},
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	svc := NewService(&fakeRepo{recs: []*entity.IncidentRecord{&rec}}, nil)

	b, err := svc.ExportReportsXLSX(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Created At", rows[0][0])
	assert.Equal(t, "Classification", rows[0][3])

	assert.Equal(t, "2026-03-14 09:30:00", rows[1][0])
	assert.Equal(t, "Test Wire", rows[1][1])
	assert.Equal(t, "paste", rows[1][2])
	assert.Equal(t, "robbery", rows[1][3])
	assert.Equal(t, "5th Ave", rows[1][7])
	assert.Equal(t, "John Doe; Jane Roe", rows[1][8])
}

func TestExportReportsXLSXEmpty(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	b, err := svc.ExportReportsXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reports")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header row only")
}

func TestExportReportsXLSXListError(t *testing.T) {
	svc := NewService(&fakeRepo{listErr: errors.New("db gone")}, nil)

	_, err := svc.ExportReportsXLSX(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query reports")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "abc", truncate("abc", 0))

	got := truncate("crème brûlée et café noir", 12)
	assert.Equal(t, "crème brûlé…", got)
	assert.True(t, utf8.ValidString(got))
}
