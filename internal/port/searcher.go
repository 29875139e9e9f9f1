package port

import "usem/internal/domain"

// Searcher performs ranked fuzzy search over the local dictionary.
type Searcher interface {
	// Search returns up to limit results ordered by confidence, highest
	// first. An empty query or an unbuilt index yields an empty slice.
	Search(query string, limit int) []domain.SearchResult
}
