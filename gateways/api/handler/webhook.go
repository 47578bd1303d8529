package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	stdjson "encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vaultscribe/backend/pkg/json"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw request body.
const SignatureHeader = "X-Webhook-Signature"

const maxWebhookBody = 1 << 20

type WebhookEvent struct {
	EventType  string `json:"event_type"`
	MeetingID  string `json:"meeting_id"`
	MatterCode string `json:"matter_code"`
	Command    string `json:"command"`
	Sender     string `json:"sender"`
}

type WebhookResponse struct {
	Action               string `json:"action"`
	MeetingID            string `json:"meeting_id,omitempty"`
	MatterCode           string `json:"matter_code,omitempty"`
	AutoStart            bool   `json:"auto_start,omitempty"`
	TriggerTranscription bool   `json:"trigger_transcription,omitempty"`
	Response             string `json:"response,omitempty"`
}

// ValidSignature reports whether signature is the hex HMAC-SHA256 of payload
// under secret. An empty secret rejects everything; the webhook endpoint is
// unusable until one is configured.
func ValidSignature(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Webhook receives Teams lifecycle events and bot commands. The body is
// authenticated before it is parsed.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		json.WriteError(w, http.StatusBadRequest, errors.New("unreadable request body"))
		return
	}

	if !ValidSignature(h.webhookSecret, payload, r.Header.Get(SignatureHeader)) {
		h.log.Warn("webhook rejected", slog.String("reason", "invalid signature"))
		json.WriteError(w, http.StatusUnauthorized, errors.New("invalid webhook signature"))
		return
	}

	var event WebhookEvent
	if err := stdjson.Unmarshal(payload, &event); err != nil {
		json.WriteError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	h.log.Info("webhook received",
		slog.String("event_type", event.EventType),
		slog.String("meeting_id", event.MeetingID))

	switch event.EventType {
	case "meeting.started":
		json.WriteJSON(w, http.StatusOK, WebhookResponse{
			Action:     "start_recording",
			MeetingID:  event.MeetingID,
			MatterCode: event.MatterCode,
			AutoStart:  true,
		})
	case "meeting.ended":
		json.WriteJSON(w, http.StatusOK, WebhookResponse{
			Action:               "stop_and_transcribe",
			MeetingID:            event.MeetingID,
			TriggerTranscription: true,
		})
	case "bot.command":
		json.WriteJSON(w, http.StatusOK, WebhookResponse{
			Action:    "bot_response",
			MeetingID: event.MeetingID,
			Response:  botReply(event.Command),
		})
	default:
		json.WriteError(w, http.StatusBadRequest, errors.New("unknown event type"))
	}
}

func botReply(command string) string {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "start recording", "start":
		return "Recording started. All participants have been notified."
	case "stop recording", "stop":
		return "Recording stopped. Transcription will begin shortly."
	case "status":
		return "Recording is active for this meeting."
	case "help":
		return "Available commands: start recording, stop recording, status, help."
	default:
		return "Unknown command. Type 'help' for available commands."
	}
}
