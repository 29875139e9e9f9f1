package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"usem/internal/domain"
)

// SourceWeb names the generic web-scraping source.
const SourceWeb = "web"

// webConfidence is deliberately low: scraped pages mention words in
// arbitrary contexts, so a hit here is weak evidence on its own.
const webConfidence = 0.6

// WebSource fetches a search page for the query, extracts its readable
// body, and runs the pattern cascade over the prose.
type WebSource struct {
	searchURL string // template containing %s for the escaped query
	client    *http.Client
}

// NewWebSource creates a WebSource. An empty searchURL leaves the source
// unconfigured.
func NewWebSource(searchURL string, timeout time.Duration) *WebSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebSource{
		searchURL: searchURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (s *WebSource) Name() string { return SourceWeb }

func (s *WebSource) Configured() bool {
	return strings.Contains(s.searchURL, "%s")
}

func (s *WebSource) Translate(ctx context.Context, query string) (domain.SourceResult, error) {
	start := time.Now()
	result := domain.SourceResult{Source: s.Name()}

	pageURL := fmt.Sprintf(s.searchURL, url.QueryEscape(query))
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return result, fmt.Errorf("bad search url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return result, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("search page returned status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return result, fmt.Errorf("extract page text: %w", err)
	}

	result.ResponseTime = time.Since(start)

	translation, ok := ExtractTranslation(article.TextContent)
	if !ok {
		return result, nil
	}

	result.Found = true
	result.Translation = translation
	result.Confidence = webConfidence
	result.Metadata = map[string]string{"title": article.Title}
	return result, nil
}
