package entity

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrTranscriptNotFound = errors.New("transcript not found")

	// ErrNoAudioUploaded means transcription was requested before any audio
	// location was set on the session.
	ErrNoAudioUploaded = errors.New("no audio uploaded for session")

	// ErrTranscriptionInProgress rejects a duplicate RunTranscription for a
	// session whose first run is still polling.
	ErrTranscriptionInProgress = errors.New("transcription already in progress for session")

	// Collaborator failures carry the upstream detail via error wrapping.
	ErrTranscriptionFailed  = errors.New("transcription failed")
	ErrSummarizationFailed  = errors.New("summarization failed")
	ErrTranscriptionTimeout = errors.New("transcription polling timed out")
)
