package pipeline

import (
	"path/filepath"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/entity"
)

// Assemble merges a submission and its analysis into one persistable record.
//
// Retention is asymmetric by input method: only the variant that produced the
// canonical text is kept for audit, so the text is never duplicated across
// all three fields. The analysis fields ride flat on the record and win any
// name collision with hand-set fields.
func Assemble(sub entity.Submission, canonicalText string, analysis entity.AnalysisResult) entity.IncidentRecord {
	rec := entity.IncidentRecord{
		InputMethod:    sub.InputMethod,
		Source:         sub.Source,
		AnalysisResult: analysis,
	}
	rec.Entities.Normalize()

	switch sub.InputMethod {
	case constants.InputPaste:
		rec.RawText = sub.PastedText
	case constants.InputManual:
		rec.ManualData = sub.ManualFields
	case constants.InputUpload:
		rec.FileName = filepath.Base(sub.UploadedFile.Path)
		rec.ExtractedText = canonicalText
	}
	return rec
}
