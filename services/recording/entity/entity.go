package entity

import "time"

type Session struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	MatterCode    string     `json:"matter_code,omitempty"`
	ClientCode    string     `json:"client_code,omitempty"`
	Description   string     `json:"description,omitempty"`
	AudioLocation string     `json:"audio_location,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UploadedAt    *time.Time `json:"uploaded_at,omitempty"`
	TranscribedAt *time.Time `json:"transcribed_at,omitempty"`
}

type CreateSessionRequest struct {
	MatterCode  string `json:"matter_code"`
	ClientCode  string `json:"client_code"`
	Description string `json:"description"`
}

type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	StartMs    int64   `json:"start_ms"`
	EndMs      int64   `json:"end_ms"`
	Confidence float64 `json:"confidence"`
}

type Word struct {
	Text       string  `json:"text"`
	StartMs    int64   `json:"start_ms"`
	EndMs      int64   `json:"end_ms"`
	Confidence float64 `json:"confidence"`
}

type TimestampRange struct {
	StartMs int64 `json:"start_ms"`
	EndMs   int64 `json:"end_ms"`
}

type Highlight struct {
	Text            string           `json:"text"`
	Count           int              `json:"count"`
	Rank            float64          `json:"rank"`
	TimestampRanges []TimestampRange `json:"timestamp_ranges"`
}

// TranscriptRecord is written only after both the transcription and the
// summarization calls succeed; readers never observe a half-populated record.
type TranscriptRecord struct {
	SessionID    string      `json:"session_id"`
	Text         string      `json:"text"`
	Utterances   []Utterance `json:"utterances"`
	Words        []Word      `json:"words"`
	Highlights   []Highlight `json:"highlights"`
	Summary      string      `json:"summary"`
	ActionItems  []string    `json:"action_items"`
	KeyTopics    []string    `json:"key_topics"`
	Participants []string    `json:"participants"`
	CreatedAt    time.Time   `json:"created_at"`
}

// TranscriptionOptions are forwarded to the transcription collaborator.
type TranscriptionOptions struct {
	SpeakerLabels  bool
	AutoHighlights bool
}

// TranscriptionResult is the formatted output of the transcription
// collaborator.
type TranscriptionResult struct {
	Text       string
	ExternalID string
	Duration   float64
	Utterances []Utterance
	Words      []Word
	Highlights []Highlight
}

// SummaryResult is the parsed output of the summarization collaborator.
type SummaryResult struct {
	Summary      string   `json:"summary"`
	ActionItems  []string `json:"action_items"`
	KeyTopics    []string `json:"key_topics"`
	Participants []string `json:"participants"`
}

// RunTranscriptionResult is returned to the caller once the full
// transcribe-then-summarize unit has completed.
type RunTranscriptionResult struct {
	SessionID string `json:"session_id"`
	Preview   string `json:"preview"`
}
