package driven

import (
	"context"
	"time"

	"github.com/uwfpm/readysync/internal/core/domain"
)

// RequestAPI fetches request records from the external reporting API.
// Implementations own the wire details: URL construction (including the
// load-bearing query parameter ordering), basic auth, timeouts and JSON
// decoding. Any returned error is a transport failure the caller may
// isolate at template or identifier granularity.
type RequestAPI interface {
	// RequestsByTemplate returns every request of one template created
	// within the inclusive date range. The remote does not filter on
	// closed state; callers filter locally.
	RequestsByTemplate(ctx context.Context, template string, start, end time.Time) ([]domain.Request, error)

	// RequestByID returns the full record for a single request
	// identifier. The remote only supports single-identifier lookups;
	// there is no bulk-by-identifier query.
	RequestByID(ctx context.Context, id string) (*domain.Request, error)
}

// CredentialProvider supplies the basic-auth pair for the reporting API.
// A failed lookup is fatal to process startup, never retried.
type CredentialProvider interface {
	Credentials() (domain.Credentials, error)
}
