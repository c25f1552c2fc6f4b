package constants

// InputMethod identifies which of the three submission shapes a report used.
type InputMethod string

// Stable values (stored verbatim in the reports table).
const (
	InputManual InputMethod = "manual" // structured form fields
	InputPaste  InputMethod = "paste"  // raw pasted text
	InputUpload InputMethod = "upload" // uploaded document
)

// ValidInputMethod reports whether m is one of the three known methods.
func ValidInputMethod(m InputMethod) bool {
	switch m {
	case InputManual, InputPaste, InputUpload:
		return true
	}
	return false
}

// WorkerMode selects the operation the analysis worker performs.
type WorkerMode string

const (
	WorkerModeProcess WorkerMode = "process" // raw text in, one JSON document out
	WorkerModeExtract WorkerMode = "extract" // file path in, text lines out
)
