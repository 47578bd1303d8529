package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/vaultscribe/backend/services/recording/entity"
)

// errPollDeadline is the cause attached to the poll-bounding context so a
// caller's own expired deadline is not mistaken for the poll timeout.
var errPollDeadline = errors.New("poll deadline elapsed")

const (
	defaultBaseURL      = "https://api.assemblyai.com/v2"
	defaultPollInterval = 3 * time.Second
	defaultPollTimeout  = 10 * time.Minute

	statusCompleted = "completed"
	statusError     = "error"
)

// Client is the transcription collaborator backed by the AssemblyAI REST
// API: submit a job, then poll on a fixed interval until a terminal status.
// Polling is bounded by pollTimeout and honors context cancellation.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
	log          *slog.Logger
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithPolling(interval, timeout time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
		if timeout > 0 {
			c.pollTimeout = timeout
		}
	}
}

func New(apiKey string, log *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("assemblyai: API key not provided")
	}

	c := &Client{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{},
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}

	log.Debug("assemblyai client created",
		slog.String("base_url", c.baseURL),
		slog.Duration("poll_interval", c.pollInterval),
		slog.Duration("poll_timeout", c.pollTimeout))

	return c, nil
}

type submitRequest struct {
	AudioURL       string `json:"audio_url"`
	SpeakerLabels  bool   `json:"speaker_labels"`
	AutoHighlights bool   `json:"auto_highlights"`
	LanguageCode   string `json:"language_code"`
}

type timestampJSON struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type transcriptResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Text          string  `json:"text"`
	Error         string  `json:"error"`
	AudioDuration float64 `json:"audio_duration"`
	Utterances    []struct {
		Speaker    string  `json:"speaker"`
		Text       string  `json:"text"`
		Start      int64   `json:"start"`
		End        int64   `json:"end"`
		Confidence float64 `json:"confidence"`
	} `json:"utterances"`
	Words []struct {
		Text       string  `json:"text"`
		Start      int64   `json:"start"`
		End        int64   `json:"end"`
		Confidence float64 `json:"confidence"`
	} `json:"words"`
	AutoHighlightsResult struct {
		Results []struct {
			Text       string          `json:"text"`
			Count      int             `json:"count"`
			Rank       float64         `json:"rank"`
			Timestamps []timestampJSON `json:"timestamps"`
		} `json:"results"`
	} `json:"auto_highlights_result"`
}

// Transcribe submits the audio and polls until the job completes, fails, or
// the poll timeout elapses. Local (non-URL) audio locations are uploaded
// first to obtain a temporary URL.
func (c *Client) Transcribe(ctx context.Context, audioLocation string, opts entity.TranscriptionOptions) (*entity.TranscriptionResult, error) {
	audioURL := audioLocation
	if !strings.HasPrefix(audioLocation, "http://") && !strings.HasPrefix(audioLocation, "https://") {
		uploaded, err := c.upload(ctx, audioLocation)
		if err != nil {
			return nil, err
		}
		audioURL = uploaded
	}

	jobID, err := c.Submit(ctx, audioURL, opts)
	if err != nil {
		return nil, err
	}

	c.log.Info("transcription job submitted",
		slog.String("job_id", jobID),
		slog.String("audio_location", audioLocation))

	ctx, cancel := context.WithTimeoutCause(ctx, c.pollTimeout, errPollDeadline)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(context.Cause(ctx), errPollDeadline) {
				return nil, fmt.Errorf("%w: job %s not terminal after %s", entity.ErrTranscriptionTimeout, jobID, c.pollTimeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}

		transcript, err := c.poll(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch transcript.Status {
		case statusCompleted:
			c.log.Info("transcription job completed",
				slog.String("job_id", jobID),
				slog.Int("text_length", len(transcript.Text)))
			return formatTranscript(transcript), nil
		case statusError:
			return nil, fmt.Errorf("transcription failed: %s", transcript.Error)
		default:
			c.log.Debug("transcription job pending",
				slog.String("job_id", jobID),
				slog.String("status", transcript.Status))
		}
	}
}

// Submit creates a transcription job and returns its id.
func (c *Client) Submit(ctx context.Context, audioURL string, opts entity.TranscriptionOptions) (string, error) {
	body, err := json.Marshal(submitRequest{
		AudioURL:       audioURL,
		SpeakerLabels:  opts.SpeakerLabels,
		AutoHighlights: opts.AutoHighlights,
		LanguageCode:   "en",
	})
	if err != nil {
		return "", err
	}

	var resp transcriptResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(body), &resp); err != nil {
		return "", fmt.Errorf("submit transcription job: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("submit transcription job: empty job id in response")
	}
	return resp.ID, nil
}

// poll fetches the current state of a transcription job.
func (c *Client) poll(ctx context.Context, jobID string) (*transcriptResponse, error) {
	var resp transcriptResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/transcript/"+jobID, nil, &resp); err != nil {
		return nil, fmt.Errorf("poll transcription job %s: %w", jobID, err)
	}
	return &resp, nil
}

// upload streams a local audio file to the API and returns the temporary
// URL to transcribe from.
func (c *Client) upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var resp struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/upload", f, &resp); err != nil {
		return "", fmt.Errorf("upload audio file: %w", err)
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("upload audio file: empty upload_url in response")
	}

	c.log.Debug("audio file uploaded", slog.String("path", path))
	return resp.UploadURL, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.apiKey)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Error("API request failed",
			slog.Int("status_code", resp.StatusCode),
			slog.String("body", string(respBody)))
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func formatTranscript(t *transcriptResponse) *entity.TranscriptionResult {
	result := &entity.TranscriptionResult{
		Text:       t.Text,
		ExternalID: t.ID,
		Duration:   t.AudioDuration,
		Utterances: []entity.Utterance{},
		Words:      []entity.Word{},
		Highlights: []entity.Highlight{},
	}

	for _, u := range t.Utterances {
		result.Utterances = append(result.Utterances, entity.Utterance{
			Speaker:    "Speaker " + u.Speaker,
			Text:       u.Text,
			StartMs:    u.Start,
			EndMs:      u.End,
			Confidence: u.Confidence,
		})
	}

	for _, w := range t.Words {
		result.Words = append(result.Words, entity.Word{
			Text:       w.Text,
			StartMs:    w.Start,
			EndMs:      w.End,
			Confidence: w.Confidence,
		})
	}

	for _, h := range t.AutoHighlightsResult.Results {
		ranges := make([]entity.TimestampRange, 0, len(h.Timestamps))
		for _, ts := range h.Timestamps {
			ranges = append(ranges, entity.TimestampRange{StartMs: ts.Start, EndMs: ts.End})
		}
		result.Highlights = append(result.Highlights, entity.Highlight{
			Text:            h.Text,
			Count:           h.Count,
			Rank:            h.Rank,
			TimestampRanges: ranges,
		})
	}

	return result
}
