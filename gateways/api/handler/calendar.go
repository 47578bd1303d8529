package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vaultscribe/backend/pkg/json"
	"github.com/vaultscribe/backend/services/calendar/entity"
)

type CreateMeetingRequest struct {
	Subject     string   `json:"subject"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Attendees   []string `json:"attendees"`
	MatterCode  string   `json:"matter_code"`
	Description string   `json:"description"`
}

func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetingRequest
	if err := json.ParseJSON(r, &req); err != nil {
		json.WriteError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, errors.New("start_time must be RFC3339"))
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, errors.New("end_time must be RFC3339"))
		return
	}

	meeting, err := h.calendar.CreateTeamsMeeting(r.Context(), &entity.CreateMeetingRequest{
		Subject:     req.Subject,
		StartTime:   start,
		EndTime:     end,
		Attendees:   req.Attendees,
		MatterCode:  req.MatterCode,
		Description: req.Description,
	})
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, err)
		return
	}

	json.WriteJSON(w, http.StatusCreated, meeting)
}

func (h *Handler) UpcomingMeetings(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			json.WriteError(w, http.StatusBadRequest, errors.New("days must be a positive integer"))
			return
		}
		days = parsed
	}

	meetings, err := h.calendar.UpcomingMeetings(r.Context(), days)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.WriteJSON(w, http.StatusOK, map[string]any{"meetings": meetings, "count": len(meetings)})
}

type LinkMeetingRequest struct {
	MeetingID string `json:"meeting_id"`
	SessionID string `json:"session_id"`
}

func (h *Handler) LinkMeeting(w http.ResponseWriter, r *http.Request) {
	var req LinkMeetingRequest
	if err := json.ParseJSON(r, &req); err != nil || req.MeetingID == "" || req.SessionID == "" {
		json.WriteError(w, http.StatusBadRequest, errors.New("meeting_id and session_id are required"))
		return
	}

	meeting, err := h.calendar.LinkRecordingSession(r.Context(), req.MeetingID, req.SessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.WriteJSON(w, http.StatusOK, meeting)
}

func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "meeting_id")

	ics, err := h.calendar.ExportICS(r.Context(), meetingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=meeting-"+meetingID+".ics")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(ics))
}
