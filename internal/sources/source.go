package sources

import (
	"context"
	"time"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/normalizer"
)

// FetchOptions bounds a single source fetch.
type FetchOptions struct {
	// Timeout is the per-source deadline; exceeding it must surface as a
	// SourceError of kind timeout, never an unbounded hang.
	Timeout time.Duration
	// MaxResults caps how many candidates the adapter returns.
	MaxResults int
}

// Source is one external product-listing provider. Implementations issue
// one outbound request per Fetch, omit malformed individual entries
// instead of failing, and are safe to invoke concurrently with other
// sources (no shared mutable state). A zero-candidate response is not an
// error.
type Source interface {
	ID() models.SourceID

	// Profile exposes the per-source knowledge the normalizer needs:
	// link base and default currency.
	Profile() normalizer.SourceProfile

	// Fetch returns raw candidates for the keyword query, or a
	// *models.SourceError describing why the source produced nothing.
	Fetch(ctx context.Context, query string, opts FetchOptions) ([]models.RawCandidate, error)
}
