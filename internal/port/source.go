package port

import (
	"context"

	"usem/internal/domain"
)

// Source is one external translation backend consulted during fan-out.
type Source interface {
	// Name identifies the source in results and trust-weight config.
	Name() string

	// Configured reports whether the source has what it needs to be called
	// (endpoint, credentials). Unconfigured sources are skipped, not errors.
	Configured() bool

	// Translate asks the source for a translation of query. Errors are
	// captured by the orchestrator as failed source results, never surfaced
	// to the end caller.
	Translate(ctx context.Context, query string) (domain.SourceResult, error)
}
