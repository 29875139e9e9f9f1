package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"usem/internal/domain"
)

// SourceOnline names the backend translation collaborator.
const SourceOnline = "online"

// onlineResponse is the collaborator's wire shape. Its free-text fields
// carry prose, not structured translations.
type onlineResponse struct {
	AIResponse          string `json:"aiResponse,omitempty"`
	LocalDictionaryText string `json:"localDictionaryText,omitempty"`
	WebSearchText       string `json:"webSearchText,omitempty"`
	Status              string `json:"status"`
	Error               string `json:"error,omitempty"`
}

// OnlineSource queries the backend translation endpoint.
type OnlineSource struct {
	endpoint string
	client   *http.Client
}

// NewOnlineSource creates an OnlineSource. An empty endpoint leaves the
// source unconfigured; it will be skipped during fan-out.
func NewOnlineSource(endpoint string, timeout time.Duration) *OnlineSource {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &OnlineSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *OnlineSource) Name() string { return SourceOnline }

func (s *OnlineSource) Configured() bool { return s.endpoint != "" }

// Translate posts the query and extracts a translation from whichever
// response field yields one, most trusted field first.
func (s *OnlineSource) Translate(ctx context.Context, query string) (domain.SourceResult, error) {
	start := time.Now()
	result := domain.SourceResult{Source: s.Name()}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return result, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return result, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var or onlineResponse
	if err := json.Unmarshal(data, &or); err != nil {
		return result, fmt.Errorf("parse response: %w", err)
	}
	if or.Status == "error" {
		return result, fmt.Errorf("backend error: %s", or.Error)
	}

	result.ResponseTime = time.Since(start)

	// Field order reflects decreasing trust in what the backend aggregates.
	fields := []struct {
		name       string
		text       string
		confidence float64
	}{
		{"localDictionaryText", or.LocalDictionaryText, 0.9},
		{"aiResponse", or.AIResponse, 0.75},
		{"webSearchText", or.WebSearchText, 0.6},
	}
	for _, f := range fields {
		translation, ok := ExtractTranslation(f.text)
		if !ok {
			continue
		}
		result.Found = true
		result.Translation = translation
		result.Confidence = f.confidence
		result.Metadata = map[string]string{"field": f.name}
		return result, nil
	}

	return result, nil
}
