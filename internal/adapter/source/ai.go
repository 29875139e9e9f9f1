package source

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"usem/internal/domain"
)

// SourceAI names the AI translation fallback.
const SourceAI = "ai"

// aiConfidence: generic models know little Ibibio, so AI answers rank below
// the specialized backend and the local dictionary.
const aiConfidence = 0.7

const aiInstructions = `You are an English-to-Ibibio translation assistant.
Answer with exactly these lines, nothing else:
Translation: <the Ibibio translation>
Meaning: <a short English gloss of the Ibibio word>
Example: <one short Ibibio sentence using the word> = <its English meaning>
Note: <a cultural usage note, or "none">
If you do not know a reliable translation, answer with the single line:
Translation: unknown`

// AISource asks a language model for a translation and parses its
// line-oriented reply.
type AISource struct {
	client *openai.Client
	model  string
}

// NewAISource reads the API key from apiKeyEnv. A missing key leaves the
// source unconfigured rather than erroring; AI lookup is optional.
func NewAISource(apiKeyEnv, model string) *AISource {
	if model == "" {
		model = "gpt-4o-mini"
	}
	key := os.Getenv(apiKeyEnv)
	if key == "" {
		return &AISource{model: model}
	}
	client := openai.NewClient(option.WithAPIKey(key))
	return &AISource{client: &client, model: model}
}

func (s *AISource) Name() string { return SourceAI }

func (s *AISource) Configured() bool { return s.client != nil }

func (s *AISource) Translate(ctx context.Context, query string) (domain.SourceResult, error) {
	result := domain.SourceResult{Source: s.Name()}
	if s.client == nil {
		return result, fmt.Errorf("ai source not configured")
	}

	start := time.Now()
	params := responses.ResponseNewParams{
		Model:           s.model,
		MaxOutputTokens: openai.Int(300),
		Instructions:    openai.String(aiInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(
					fmt.Sprintf("Translate to Ibibio: %q", query),
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	}

	resp, err := s.callWithRetry(ctx, params)
	if err != nil {
		return result, err
	}
	result.ResponseTime = time.Since(start)

	fields := parseLines(resp.OutputText())
	translation, ok := ExtractTranslation(fields["translation"])
	if !ok || strings.EqualFold(translation, "unknown") {
		return result, nil
	}

	result.Found = true
	result.Translation = translation
	result.Confidence = aiConfidence
	result.Metadata = map[string]string{}
	for _, k := range []string{"meaning", "example", "note"} {
		if v := fields[k]; v != "" && !strings.EqualFold(v, "none") {
			result.Metadata[k] = v
		}
	}
	return result, nil
}

func (s *AISource) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxRetries = 3
	waits := []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := s.client.Responses.New(ctx, params)
		if err != nil {
			if (isRateLimitError(err) || isServerError(err)) && attempt < maxRetries-1 {
				select {
				case <-time.After(waits[attempt]):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, err
		}
		return resp, nil
	}
	return nil, fmt.Errorf("failed after %d attempts", maxRetries)
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "500") ||
		strings.Contains(s, "internal server error") ||
		strings.Contains(s, "server_error")
}

// parseLines splits a "Key: value" reply into a lowercase-keyed map.
func parseLines(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(k))
		if _, dup := fields[key]; !dup {
			fields[key] = strings.TrimSpace(v)
		}
	}
	return fields
}
