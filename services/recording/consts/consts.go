package consts

const (
	// Session statuses
	StatusReady       = "ready"
	StatusUploaded    = "uploaded"
	StatusScheduled   = "scheduled"
	StatusTranscribed = "transcribed"

	// Preview returned by RunTranscription: first PreviewLength characters
	// of the transcript, ellipsis appended only when truncated. The 200
	// boundary is a compatibility contract with existing clients.
	PreviewLength   = 200
	PreviewEllipsis = "..."

	// Upload limits
	DefaultUploadFilename = "recording.webm"
	MaxAudioSize          = 25 * 1024 * 1024 // 25MB
)
