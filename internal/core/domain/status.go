package domain

// Status is the outcome of one RPA transaction.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusError     Status = "ERROR"
)

// Legacy spellings emitted by older robot exports.
const (
	legacyStatusSuccess = "SUCCESS"
	legacyStatusError   = "Error"
)

// NormalizeStatus maps legacy synonyms onto the canonical pair. Any other
// value is returned unchanged so that unknown states stay visible downstream.
func NormalizeStatus(raw string) Status {
	switch raw {
	case legacyStatusSuccess:
		return StatusCompleted
	case legacyStatusError:
		return StatusError
	default:
		return Status(raw)
	}
}

// IsCanonical reports whether the status is one of COMPLETED or ERROR.
func (s Status) IsCanonical() bool {
	return s == StatusCompleted || s == StatusError
}

func (s Status) String() string {
	return string(s)
}
