package domain

import "time"

// Credentials is a basic-auth username/password pair for the reporting API.
type Credentials struct {
	Username string
	Password string
}

// CategoryFailure records one template whose bulk fetch failed. The
// failure is isolated: the run continues over the remaining templates.
type CategoryFailure struct {
	Template string
	Err      error
}

// RefetchFailure records one closed-request identifier whose single-id
// refetch failed. The identifier stays in the baseline, so the next run
// picks it up again.
type RefetchFailure struct {
	RequestID string
	Err       error
}

// FetchResult is the outcome of fetching requests across the template
// list. A partial result is explicitly representable: zero Records with
// zero Failures means the remote genuinely had nothing, while zero
// Records with Failures means some templates failed to report.
type FetchResult struct {
	Records  []Request
	Failures []CategoryFailure
}

// RunReport is the in-memory outcome of one reconciliation run.
type RunReport struct {
	// Date is the calendar date the run reconciled.
	Date time.Time

	// OpenCount is the number of currently-open records fetched.
	OpenCount int

	// ClosedCount is the number of newly-closed records refetched.
	ClosedCount int

	// CategoryFailures lists templates whose bulk fetch failed.
	CategoryFailures []CategoryFailure

	// RefetchFailures lists identifiers whose closed refetch failed.
	RefetchFailures []RefetchFailure

	// Verified reports whether the persisted daily set matched the
	// in-memory set after write-back.
	Verified bool

	// BaselineAdvanced reports whether the open-identifier baseline was
	// overwritten with today's open set. Only ever true when Verified.
	BaselineAdvanced bool
}

// FailureCount returns the total number of isolated failures in the run.
func (r *RunReport) FailureCount() int {
	return len(r.CategoryFailures) + len(r.RefetchFailures)
}

// RunRecord is the durable form of a run outcome kept in run history.
type RunRecord struct {
	// ID is the unique identifier assigned to the run.
	ID string

	// Date is the reconciled calendar date (YYYY-MM-DD).
	Date string

	// StartedAt is when the run began.
	StartedAt time.Time

	// EndedAt is when the run completed.
	EndedAt time.Time

	// OpenCount and ClosedCount mirror the run report.
	OpenCount   int
	ClosedCount int

	// FailureCount is the total of isolated category and refetch failures.
	FailureCount int

	// Verified and BaselineAdvanced mirror the run report.
	Verified         bool
	BaselineAdvanced bool

	// Error holds the run-fatal error message, if any.
	Error string
}
