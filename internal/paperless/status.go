package paperless

// Raw task status values Paperless is known to report.
const (
	StatusPending = "PENDING"
	StatusStarted = "STARTED"
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
	StatusFailed  = "FAILED"
)

// Outcome is the closed local interpretation of a raw task status.
type Outcome int

const (
	// OutcomeRunning means processing has not finished; nothing local should
	// change beyond noting progress.
	OutcomeRunning Outcome = iota
	// OutcomeSucceeded means processing finished and a related document id is
	// available on the task record.
	OutcomeSucceeded
	// OutcomeFailed means processing failed on the Paperless side.
	OutcomeFailed
)

// TranslateStatus maps the remote status vocabulary to an Outcome. Values
// outside the recognized set return an UnknownStatusError; the caller must
// surface it as a server error, distinct from a remote processing failure.
func TranslateStatus(raw string) (Outcome, error) {
	switch raw {
	case StatusPending, StatusStarted:
		return OutcomeRunning, nil
	case StatusSuccess:
		return OutcomeSucceeded, nil
	case StatusFailure, StatusFailed:
		return OutcomeFailed, nil
	default:
		return 0, &UnknownStatusError{Raw: raw}
	}
}
