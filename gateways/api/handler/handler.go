package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vaultscribe/backend/gateways/api/clients/uploads"
	"github.com/vaultscribe/backend/pkg/json"
	calendarentity "github.com/vaultscribe/backend/services/calendar/entity"
	calendar "github.com/vaultscribe/backend/services/calendar/usecase"
	"github.com/vaultscribe/backend/services/recording/consts"
	"github.com/vaultscribe/backend/services/recording/entity"
	"github.com/vaultscribe/backend/services/recording/usecase"
)

type Handler struct {
	recording     usecase.Usecase
	calendar      calendar.Usecase
	uploads       *uploads.Provider
	webhookSecret string
	log           *slog.Logger
}

func New(recording usecase.Usecase, cal calendar.Usecase, uploadProvider *uploads.Provider, webhookSecret string, log *slog.Logger) *Handler {
	return &Handler{
		recording:     recording,
		calendar:      cal,
		uploads:       uploadProvider,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", h.HealthCheck)

		api.Route("/sessions", func(sessions chi.Router) {
			sessions.Post("/", h.CreateSession)
			sessions.Get("/", h.ListSessions)
			sessions.Get("/{session_id}", h.GetSession)
			sessions.Get("/{session_id}/upload-url", h.UploadURL)
			sessions.Post("/{session_id}/upload", h.Upload)
			sessions.Post("/{session_id}/upload-complete", h.UploadComplete)
			sessions.Post("/{session_id}/transcribe", h.Transcribe)
			sessions.Get("/{session_id}/transcript", h.GetTranscript)
		})

		api.Route("/meetings", func(meetings chi.Router) {
			meetings.Post("/", h.CreateMeeting)
			meetings.Get("/", h.UpcomingMeetings)
			meetings.Post("/link", h.LinkMeeting)
			meetings.Get("/{meeting_id}/ics", h.ExportICS)
		})

		api.Post("/webhooks/teams", h.Webhook)
	})

	h.log.Info("all routes registered")
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	json.WriteJSON(w, http.StatusOK, map[string]any{
		"name":    "VaultScribe",
		"status":  "running",
		"time":    time.Now().Format(time.RFC3339),
		"storage": h.uploads.Info(),
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	json.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// writeError maps the recording/calendar error taxonomy onto HTTP statuses.
// Timeout is checked before the generic collaborator failure since both are
// present in a timed-out run's chain.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrTranscriptNotFound),
		errors.Is(err, calendarentity.ErrMeetingNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrNoAudioUploaded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrTranscriptionInProgress):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrTranscriptionTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, entity.ErrTranscriptionFailed),
		errors.Is(err, entity.ErrSummarizationFailed):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", slog.Int("status", status), slog.String("error", err.Error()))
	} else {
		h.log.Warn("request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	json.WriteError(w, status, err)
}

type SessionResponse struct {
	*entity.Session
	UploadURL string `json:"upload_url,omitempty"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateSessionRequest
	if err := json.ParseJSON(r, &req); err != nil {
		json.WriteError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	session, err := h.recording.CreateSession(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	uploadURL, err := h.uploads.UploadURL(r.Context(), session.ID, consts.DefaultUploadFilename)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusCreated, SessionResponse{Session: session, UploadURL: uploadURL})
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.recording.ListSessions(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "count": len(sessions)})
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.recording.GetSession(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if _, err := h.recording.GetSession(r.Context(), sessionID); err != nil {
		h.writeError(w, err)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = consts.DefaultUploadFilename
	}

	url, err := h.uploads.UploadURL(r.Context(), sessionID, filename)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"upload_url": url,
		"backend":    h.uploads.Backend(),
	})
}

// Upload receives the recording body directly; local backend only. Remote
// backends upload straight to the presigned URL and confirm via
// UploadComplete.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if _, err := h.recording.GetSession(r.Context(), sessionID); err != nil {
		h.writeError(w, err)
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		filename = consts.DefaultUploadFilename
	}

	path, err := h.uploads.SaveLocal(sessionID, filename, r.Body, consts.MaxAudioSize)
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, err)
		return
	}

	session, err := h.recording.MarkUploaded(r.Context(), sessionID, path)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, session)
}

type UploadCompleteRequest struct {
	AudioURL string `json:"audio_url"`
}

func (h *Handler) UploadComplete(w http.ResponseWriter, r *http.Request) {
	var req UploadCompleteRequest
	if err := json.ParseJSON(r, &req); err != nil || req.AudioURL == "" {
		json.WriteError(w, http.StatusBadRequest, errors.New("audio_url is required"))
		return
	}

	session, err := h.recording.MarkUploaded(r.Context(), chi.URLParam(r, "session_id"), req.AudioURL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	h.log.Info("transcription requested", slog.String("session_id", sessionID))

	result, err := h.recording.RunTranscription(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	record, err := h.recording.GetTranscript(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, record)
}
