package intake

import (
	"strings"

	"github.com/crimecard/intake/constants"
	"github.com/crimecard/intake/internal/common"
	"github.com/crimecard/intake/internal/entity"
)

// Validate enforces the submission invariant: a known input method, a
// non-empty source, and exactly the payload variant that method selects.
// It never touches the filesystem or the worker.
func Validate(sub entity.Submission) error {
	if !constants.ValidInputMethod(sub.InputMethod) {
		return common.ValidationErrorf("unknown inputMethod %q", sub.InputMethod)
	}
	if strings.TrimSpace(sub.Source) == "" {
		return common.ValidationErrorf("source is required")
	}

	switch sub.InputMethod {
	case constants.InputPaste:
		if sub.UploadedFile != nil || sub.ManualFields != nil {
			return common.ValidationErrorf("paste submission carries a non-paste payload")
		}
		if strings.TrimSpace(sub.PastedText) == "" {
			return common.ValidationErrorf("crimeText is required for paste submissions")
		}
	case constants.InputUpload:
		if sub.PastedText != "" || sub.ManualFields != nil {
			return common.ValidationErrorf("upload submission carries a non-upload payload")
		}
		if sub.UploadedFile == nil || strings.TrimSpace(sub.UploadedFile.Path) == "" {
			return common.ValidationErrorf("a file is required for upload submissions")
		}
	case constants.InputManual:
		if sub.PastedText != "" || sub.UploadedFile != nil {
			return common.ValidationErrorf("manual submission carries a non-manual payload")
		}
		if sub.ManualFields == nil || strings.TrimSpace(sub.ManualFields.CrimeType) == "" {
			return common.ValidationErrorf("crimeType is required for manual submissions")
		}
	}
	return nil
}
