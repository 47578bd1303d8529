package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	anyllm "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/vaultscribe/backend/services/recording/entity"
)

const (
	defaultTemperature = 0.3
	summaryMaxTokens   = 2000
	quotesMaxTokens    = 1000
)

// Client is the summarization collaborator: it sends transcripts to a
// language model and parses the structured four-section response.
type Client struct {
	backend anyllm.Provider
	model   string
	log     *slog.Logger
}

// New validates credentials and constructs the backend once at startup.
// providerName is "anthropic" or "openai".
func New(providerName, model, apiKey string, log *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("summary: API key not provided")
	}
	if model == "" {
		return nil, fmt.Errorf("summary: model not provided")
	}

	var (
		backend anyllm.Provider
		err     error
	)
	switch strings.ToLower(providerName) {
	case "anthropic":
		backend, err = anthropic.New(anyllm.WithAPIKey(apiKey))
	case "openai":
		backend, err = anyllmoai.New(anyllm.WithAPIKey(apiKey))
	default:
		return nil, fmt.Errorf("summary: unsupported provider %q; supported: anthropic, openai", providerName)
	}
	if err != nil {
		return nil, fmt.Errorf("summary: create %q backend: %w", providerName, err)
	}

	log.Debug("summary client created",
		slog.String("provider", providerName),
		slog.String("model", model))

	return &Client{
		backend: backend,
		model:   model,
		log:     log,
	}, nil
}

// Summarize generates the executive summary, action items, key topics and
// participants for a transcript. matterCode and contextNote are optional
// free-text context for the model.
func (c *Client) Summarize(ctx context.Context, transcript, matterCode, contextNote string) (*entity.SummaryResult, error) {
	prompt := buildSummaryPrompt(transcript, matterCode, contextNote)

	c.log.Info("requesting summary",
		slog.String("model", c.model),
		slog.Int("transcript_length", len(transcript)))

	text, err := c.complete(ctx, prompt, summaryMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	result := ParseSummaryResponse(text)
	c.log.Debug("summary parsed",
		slog.Int("action_items", len(result.ActionItems)),
		slog.Int("key_topics", len(result.KeyTopics)),
		slog.Int("participants", len(result.Participants)))

	return result, nil
}

// ExtractKeyQuotes asks the model for the numQuotes most notable quotes,
// one per line.
func (c *Client) ExtractKeyQuotes(ctx context.Context, transcript string, numQuotes int) ([]string, error) {
	prompt := fmt.Sprintf(`Extract the %d most important or notable quotes from this transcript.
Return only the quotes, one per line, without additional commentary.

TRANSCRIPT:
%s
`, numQuotes, transcript)

	text, err := c.complete(ctx, prompt, quotesMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to extract quotes: %w", err)
	}
	return parseQuotes(text), nil
}

func parseQuotes(text string) []string {
	var quotes []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if q := strings.Trim(line, "\"'- "); q != "" {
			quotes = append(quotes, q)
		}
	}
	return quotes
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	temperature := defaultTemperature
	params := anyllm.CompletionParams{
		Model: c.model,
		Messages: []anyllm.Message{
			{Role: anyllm.RoleUser, Content: prompt},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}

	resp, err := c.backend.Completion(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in completion response")
	}
	return resp.Choices[0].Message.ContentString(), nil
}

func buildSummaryPrompt(transcript, matterCode, contextNote string) string {
	var b strings.Builder
	b.WriteString("You are a legal transcription assistant analyzing a meeting or deposition transcript for a law firm.\n\n")
	if matterCode != "" {
		fmt.Fprintf(&b, "Matter Code: %s\n", matterCode)
	}
	if contextNote != "" {
		fmt.Fprintf(&b, "Context: %s\n", contextNote)
	}
	b.WriteString(`
Please analyze the following transcript and provide:

1. EXECUTIVE SUMMARY: A concise 2-3 paragraph summary of the key discussion points and outcomes
2. ACTION ITEMS: A numbered list of specific action items, tasks, or follow-ups mentioned
3. KEY TOPICS: Main topics discussed
4. PARTICIPANTS: Identified speakers and their roles (if discernible)

Format your response exactly as follows:

EXECUTIVE SUMMARY:
[Your summary here]

ACTION ITEMS:
1. [First action item]
2. [Second action item]
...

KEY TOPICS:
- [Topic 1]
- [Topic 2]
...

PARTICIPANTS:
- [Speaker/Role 1]
- [Speaker/Role 2]
...

TRANSCRIPT:
`)
	b.WriteString(transcript)
	b.WriteString("\n")
	return b.String()
}
