package survey

// Result is the terminal outcome of one presentation attempt. Exactly one
// Result is delivered per Present call; no bridge events are processed after
// it fires.
type Result int

const (
	// Completed means the user finished the interview.
	Completed Result = iota

	// Skipped means the user skipped the interview.
	Skipped

	// Canceled means the user dismissed the survey wall.
	Canceled

	// CreditEarned means the survey wall declined to show content but the
	// user is still credited. This is a success path, not an error.
	CreditEarned

	// NoSurveyAvailable means the survey wall had no interview to show.
	NoSurveyAvailable

	// NetworkNotAvailable means connectivity was absent at presentation
	// start or was lost while presenting.
	NetworkNotAvailable
)

func (r Result) String() string {
	switch r {
	case Completed:
		return "completed"
	case Skipped:
		return "skipped"
	case Canceled:
		return "canceled"
	case CreditEarned:
		return "creditEarned"
	case NoSurveyAvailable:
		return "noSurveyAvailable"
	case NetworkNotAvailable:
		return "networkNotAvailable"
	}
	return "unknown"
}
