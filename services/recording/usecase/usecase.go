package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vaultscribe/backend/services/recording/consts"
	"github.com/vaultscribe/backend/services/recording/entity"
	"github.com/vaultscribe/backend/services/recording/storage"
)

// Transcriber is the transcription collaborator. Transcribe blocks until the
// remote job reaches a terminal state or ctx expires.
type Transcriber interface {
	Transcribe(ctx context.Context, audioLocation string, opts entity.TranscriptionOptions) (*entity.TranscriptionResult, error)
}

// Summarizer is the summarization collaborator.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, matterCode, context string) (*entity.SummaryResult, error)
}

type Usecase interface {
	CreateSession(ctx context.Context, req *entity.CreateSessionRequest) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	ListSessions(ctx context.Context) ([]*entity.Session, error)
	MarkUploaded(ctx context.Context, id, audioLocation string) (*entity.Session, error)
	MarkScheduled(ctx context.Context, id string) (*entity.Session, error)
	RunTranscription(ctx context.Context, id string) (*entity.RunTranscriptionResult, error)
	GetTranscript(ctx context.Context, id string) (*entity.TranscriptRecord, error)
}

type usecase struct {
	sessions    storage.SessionStore
	transcripts storage.TranscriptStore
	transcriber Transcriber
	summarizer  Summarizer
	log         *slog.Logger

	// inFlight rejects a second RunTranscription for a session whose first
	// run is still polling the transcription backend.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func New(sessions storage.SessionStore, transcripts storage.TranscriptStore, transcriber Transcriber, summarizer Summarizer, log *slog.Logger) Usecase {
	return &usecase{
		sessions:    sessions,
		transcripts: transcripts,
		transcriber: transcriber,
		summarizer:  summarizer,
		log:         log,
		inFlight:    make(map[string]struct{}),
	}
}

func (u *usecase) CreateSession(ctx context.Context, req *entity.CreateSessionRequest) (*entity.Session, error) {
	session, err := u.sessions.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	u.log.Info("session created",
		slog.String("session_id", session.ID),
		slog.String("matter_code", session.MatterCode))
	return session, nil
}

func (u *usecase) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	return u.sessions.Get(ctx, id)
}

func (u *usecase) ListSessions(ctx context.Context) ([]*entity.Session, error) {
	return u.sessions.ListAll(ctx)
}

func (u *usecase) MarkUploaded(ctx context.Context, id, audioLocation string) (*entity.Session, error) {
	session, err := u.sessions.Update(ctx, id, func(s *entity.Session) {
		now := time.Now()
		s.AudioLocation = audioLocation
		s.Status = consts.StatusUploaded
		s.UploadedAt = &now
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("audio uploaded",
		slog.String("session_id", id),
		slog.String("audio_location", audioLocation))
	return session, nil
}

func (u *usecase) MarkScheduled(ctx context.Context, id string) (*entity.Session, error) {
	return u.sessions.Update(ctx, id, func(s *entity.Session) {
		s.Status = consts.StatusScheduled
	})
}

// RunTranscription validates the session, runs the transcription and
// summarization collaborators as one logical unit, and persists the merged
// record. On any collaborator failure neither store is touched.
func (u *usecase) RunTranscription(ctx context.Context, id string) (*entity.RunTranscriptionResult, error) {
	session, err := u.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.AudioLocation == "" {
		return nil, fmt.Errorf("%w: %s", entity.ErrNoAudioUploaded, id)
	}

	if err := u.acquireRun(id); err != nil {
		return nil, err
	}
	defer u.releaseRun(id)

	u.log.Info("starting transcription",
		slog.String("session_id", id),
		slog.String("audio_location", session.AudioLocation))

	transcription, err := u.transcriber.Transcribe(ctx, session.AudioLocation, entity.TranscriptionOptions{
		SpeakerLabels:  true,
		AutoHighlights: true,
	})
	if err != nil {
		u.log.Error("transcription collaborator failed",
			slog.String("session_id", id),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", entity.ErrTranscriptionFailed, err)
	}

	u.log.Info("transcription completed",
		slog.String("session_id", id),
		slog.Int("text_length", len(transcription.Text)),
		slog.Int("utterances", len(transcription.Utterances)))

	summary, err := u.summarizer.Summarize(ctx, transcription.Text, session.MatterCode, session.Description)
	if err != nil {
		// A transcript without a summary is not a usable result; drop both.
		u.log.Error("summarization collaborator failed",
			slog.String("session_id", id),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", entity.ErrSummarizationFailed, err)
	}

	record := &entity.TranscriptRecord{
		SessionID:    id,
		Text:         transcription.Text,
		Utterances:   transcription.Utterances,
		Words:        transcription.Words,
		Highlights:   transcription.Highlights,
		Summary:      summary.Summary,
		ActionItems:  summary.ActionItems,
		KeyTopics:    summary.KeyTopics,
		Participants: summary.Participants,
		CreatedAt:    time.Now(),
	}

	if err := u.transcripts.Put(ctx, record); err != nil {
		return nil, err
	}

	if _, err := u.sessions.Update(ctx, id, func(s *entity.Session) {
		now := time.Now()
		s.Status = consts.StatusTranscribed
		s.TranscribedAt = &now
	}); err != nil {
		return nil, err
	}

	u.log.Info("transcript stored",
		slog.String("session_id", id),
		slog.Int("action_items", len(summary.ActionItems)))

	return &entity.RunTranscriptionResult{
		SessionID: id,
		Preview:   preview(transcription.Text),
	}, nil
}

func (u *usecase) GetTranscript(ctx context.Context, id string) (*entity.TranscriptRecord, error) {
	return u.transcripts.Get(ctx, id)
}

func (u *usecase) acquireRun(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, running := u.inFlight[id]; running {
		return fmt.Errorf("%w: %s", entity.ErrTranscriptionInProgress, id)
	}
	u.inFlight[id] = struct{}{}
	return nil
}

func (u *usecase) releaseRun(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inFlight, id)
}

// preview truncates to the first 200 characters. The boundary and the
// ellipsis rule are a compatibility contract with existing clients.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= consts.PreviewLength {
		return text
	}
	return string(runes[:consts.PreviewLength]) + consts.PreviewEllipsis
}
