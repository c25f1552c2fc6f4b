package intake

import (
	"context"
	"fmt"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/entity"
	"github.com/crimecard/intake/internal/extract"
)

// Normalize merges the three submission shapes into one canonical text block
// for analysis. Validation runs first; a bad submission never reaches the
// extractor or the worker.
//
// Manual submissions are rendered as labeled lines in a fixed order, one line
// per field. Blank fields keep their label with an empty value so the line
// count and order are stable.
func Normalize(ctx context.Context, sub entity.Submission, extractor extract.TextExtractor) (string, error) {
	if err := Validate(sub); err != nil {
		return "", err
	}

	switch sub.InputMethod {
	case constants.InputPaste:
		return sub.PastedText, nil
	case constants.InputUpload:
		return extractor.Extract(ctx, sub.UploadedFile.Path)
	default: // manual
		m := sub.ManualFields
		return fmt.Sprintf(
			"Crime Type: %s\n"+
				"Victim: %s\n"+
				"Suspect: %s\n"+
				"Location: %s\n"+
				"Date: %s\n"+
				"Weapon: %s\n"+
				"Description: %s",
			m.CrimeType, m.Victim, m.Suspect, m.Location, m.Date, m.Weapon, m.Description,
		), nil
	}
}
