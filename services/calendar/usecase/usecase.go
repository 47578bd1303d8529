package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vaultscribe/backend/pkg/gen"
	"github.com/vaultscribe/backend/services/calendar/entity"
	recording "github.com/vaultscribe/backend/services/recording/entity"
)

const (
	uidDomain = "vaultscribe.com"
	icsStamp  = "20060102T150405Z"
)

// SessionScheduler marks a recording session as scheduled when a meeting is
// linked to it. Satisfied by the recording usecase; the calendar service
// never touches the session store directly.
type SessionScheduler interface {
	MarkScheduled(ctx context.Context, id string) (*recording.Session, error)
}

type Usecase interface {
	CreateTeamsMeeting(ctx context.Context, req *entity.CreateMeetingRequest) (*entity.Meeting, error)
	GetMeeting(ctx context.Context, id string) (*entity.Meeting, error)
	LinkRecordingSession(ctx context.Context, meetingID, sessionID string) (*entity.Meeting, error)
	ExportICS(ctx context.Context, meetingID string) (string, error)
	UpcomingMeetings(ctx context.Context, daysAhead int) ([]*entity.Meeting, error)
}

type usecase struct {
	scheduler SessionScheduler
	log       *slog.Logger

	mu       sync.RWMutex
	meetings map[string]*entity.Meeting
}

func New(scheduler SessionScheduler, log *slog.Logger) Usecase {
	return &usecase{
		scheduler: scheduler,
		log:       log,
		meetings:  make(map[string]*entity.Meeting),
	}
}

// CreateTeamsMeeting builds a meeting with placeholder join URLs. The id is
// a truncated hash of subject and start time, matching the calendar uid
// other systems already reference.
func (u *usecase) CreateTeamsMeeting(ctx context.Context, req *entity.CreateMeetingRequest) (*entity.Meeting, error) {
	if req.Subject == "" {
		return nil, fmt.Errorf("calendar: subject is required")
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("calendar: end_time must be after start_time")
	}

	id := gen.Truncated(req.Subject + req.StartTime.Format(time.RFC3339))

	subject := req.Subject
	if req.MatterCode != "" {
		subject = fmt.Sprintf("[%s] %s", req.MatterCode, req.Subject)
	}

	meeting := &entity.Meeting{
		ID:               id,
		Subject:          subject,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Attendees:        req.Attendees,
		MatterCode:       req.MatterCode,
		Description:      req.Description,
		JoinURL:          fmt.Sprintf("https://teams.microsoft.com/l/meetup-join/%s", id),
		OrganizerURL:     fmt.Sprintf("https://teams.microsoft.com/l/meetup-join/%s/organizer", id),
		CalendarUID:      fmt.Sprintf("%s@%s", id, uidDomain),
		RecordingEnabled: true,
		CreatedAt:        time.Now(),
		Status:           "confirmed",
	}

	u.mu.Lock()
	u.meetings[id] = meeting
	u.mu.Unlock()

	u.log.Info("meeting created",
		slog.String("meeting_id", id),
		slog.String("subject", subject),
		slog.Time("start_time", req.StartTime))

	return copyMeeting(meeting), nil
}

func (u *usecase) GetMeeting(ctx context.Context, id string) (*entity.Meeting, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	meeting, exists := u.meetings[id]
	if !exists {
		return nil, entity.ErrMeetingNotFound
	}
	return copyMeeting(meeting), nil
}

// LinkRecordingSession attaches a recording session to the meeting and marks
// the session scheduled. The meeting is verified first; a bad meeting id must
// not leave the session scheduled.
func (u *usecase) LinkRecordingSession(ctx context.Context, meetingID, sessionID string) (*entity.Meeting, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	meeting, exists := u.meetings[meetingID]
	if !exists {
		return nil, entity.ErrMeetingNotFound
	}

	if _, err := u.scheduler.MarkScheduled(ctx, sessionID); err != nil {
		return nil, err
	}
	meeting.SessionID = sessionID

	u.log.Info("session linked to meeting",
		slog.String("meeting_id", meetingID),
		slog.String("session_id", sessionID))

	return copyMeeting(meeting), nil
}

// ExportICS renders the meeting as an iCalendar document with a display
// reminder 15 minutes before start.
func (u *usecase) ExportICS(ctx context.Context, meetingID string) (string, error) {
	meeting, err := u.GetMeeting(ctx, meetingID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\n")
	b.WriteString("VERSION:2.0\n")
	b.WriteString("PRODID:-//VaultScribe//Legal Recording//EN\n")
	b.WriteString("CALSCALE:GREGORIAN\n")
	b.WriteString("METHOD:REQUEST\n")
	b.WriteString("BEGIN:VEVENT\n")
	fmt.Fprintf(&b, "UID:%s\n", meeting.CalendarUID)
	fmt.Fprintf(&b, "DTSTAMP:%s\n", time.Now().UTC().Format(icsStamp))
	fmt.Fprintf(&b, "DTSTART:%s\n", meeting.StartTime.UTC().Format(icsStamp))
	fmt.Fprintf(&b, "DTEND:%s\n", meeting.EndTime.UTC().Format(icsStamp))
	fmt.Fprintf(&b, "SUMMARY:%s\n", meeting.Subject)
	fmt.Fprintf(&b, "DESCRIPTION:%s\n", meeting.Description)
	fmt.Fprintf(&b, "LOCATION:%s\n", meeting.JoinURL)
	b.WriteString("STATUS:CONFIRMED\n")
	b.WriteString("SEQUENCE:0\n")
	b.WriteString("BEGIN:VALARM\n")
	b.WriteString("TRIGGER:-PT15M\n")
	b.WriteString("ACTION:DISPLAY\n")
	fmt.Fprintf(&b, "DESCRIPTION:Reminder: %s\n", meeting.Subject)
	b.WriteString("END:VALARM\n")
	b.WriteString("END:VEVENT\n")
	b.WriteString("END:VCALENDAR")

	return b.String(), nil
}

// UpcomingMeetings returns meetings starting within daysAhead days, soonest
// first.
func (u *usecase) UpcomingMeetings(ctx context.Context, daysAhead int) ([]*entity.Meeting, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	now := time.Now()
	horizon := now.AddDate(0, 0, daysAhead)

	upcoming := []*entity.Meeting{}
	for _, m := range u.meetings {
		if m.StartTime.After(now) && m.StartTime.Before(horizon) {
			upcoming = append(upcoming, copyMeeting(m))
		}
	}

	for i := 1; i < len(upcoming); i++ {
		for j := i; j > 0 && upcoming[j].StartTime.Before(upcoming[j-1].StartTime); j-- {
			upcoming[j], upcoming[j-1] = upcoming[j-1], upcoming[j]
		}
	}

	return upcoming, nil
}

// copyMeeting keeps callers from observing writes made under the lock.
func copyMeeting(m *entity.Meeting) *entity.Meeting {
	c := *m
	return &c
}
