package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vaultscribe/backend/pkg/logger"
	"github.com/vaultscribe/backend/services/calendar/entity"
	"github.com/vaultscribe/backend/services/calendar/usecase"
	recording "github.com/vaultscribe/backend/services/recording/entity"
)

type fakeScheduler struct {
	scheduled []string
	err       error
}

func (f *fakeScheduler) MarkScheduled(ctx context.Context, id string) (*recording.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.scheduled = append(f.scheduled, id)
	return &recording.Session{ID: id, Status: "scheduled"}, nil
}

func newMeeting(t *testing.T, u usecase.Usecase) *entity.Meeting {
	t.Helper()
	start := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	m, err := u.CreateTeamsMeeting(context.Background(), &entity.CreateMeetingRequest{
		Subject:     "Deposition - Jones v. Acme",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Attendees:   []string{"smith@firm.example"},
		MatterCode:  "M-2201",
		Description: "Witness deposition",
	})
	if err != nil {
		t.Fatalf("CreateTeamsMeeting returned error: %v", err)
	}
	return m
}

func TestCreateTeamsMeeting(t *testing.T) {
	t.Parallel()

	u := usecase.New(&fakeScheduler{}, logger.Default())
	m := newMeeting(t, u)

	if len(m.ID) != 16 {
		t.Errorf("meeting id = %q, want 16-character truncated hash", m.ID)
	}
	if m.Subject != "[M-2201] Deposition - Jones v. Acme" {
		t.Errorf("subject = %q, want matter-code prefix", m.Subject)
	}
	if !strings.Contains(m.JoinURL, m.ID) {
		t.Errorf("join url %q does not contain meeting id", m.JoinURL)
	}
	if m.CalendarUID != m.ID+"@vaultscribe.com" {
		t.Errorf("calendar uid = %q", m.CalendarUID)
	}
	if !m.RecordingEnabled {
		t.Error("recording not enabled by default")
	}
}

func TestCreateTeamsMeeting_Validation(t *testing.T) {
	t.Parallel()

	u := usecase.New(&fakeScheduler{}, logger.Default())
	start := time.Now()

	if _, err := u.CreateTeamsMeeting(context.Background(), &entity.CreateMeetingRequest{
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}); err == nil {
		t.Error("missing subject must fail")
	}

	if _, err := u.CreateTeamsMeeting(context.Background(), &entity.CreateMeetingRequest{
		Subject:   "Backwards",
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	}); err == nil {
		t.Error("end before start must fail")
	}
}

func TestLinkRecordingSession(t *testing.T) {
	t.Parallel()

	scheduler := &fakeScheduler{}
	u := usecase.New(scheduler, logger.Default())
	m := newMeeting(t, u)

	linked, err := u.LinkRecordingSession(context.Background(), m.ID, "sess-1")
	if err != nil {
		t.Fatalf("LinkRecordingSession returned error: %v", err)
	}
	if linked.SessionID != "sess-1" {
		t.Errorf("session id = %q, want sess-1", linked.SessionID)
	}
	if len(scheduler.scheduled) != 1 || scheduler.scheduled[0] != "sess-1" {
		t.Errorf("session not marked scheduled: %v", scheduler.scheduled)
	}
}

func TestLinkRecordingSession_MissingMeeting(t *testing.T) {
	t.Parallel()

	scheduler := &fakeScheduler{}
	u := usecase.New(scheduler, logger.Default())
	_, err := u.LinkRecordingSession(context.Background(), "missing", "sess-1")
	if !errors.Is(err, entity.ErrMeetingNotFound) {
		t.Fatalf("got %v, want ErrMeetingNotFound", err)
	}
	if len(scheduler.scheduled) != 0 {
		t.Errorf("session marked scheduled despite missing meeting: %v", scheduler.scheduled)
	}
}

func TestGetMeeting_ReturnsCopy(t *testing.T) {
	t.Parallel()

	u := usecase.New(&fakeScheduler{}, logger.Default())
	m := newMeeting(t, u)

	m.SessionID = "tampered"
	m.Subject = "tampered"

	got, err := u.GetMeeting(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetMeeting returned error: %v", err)
	}
	if got.SessionID != "" || got.Subject != "[M-2201] Deposition - Jones v. Acme" {
		t.Errorf("stored meeting mutated through returned pointer: %+v", got)
	}
}

func TestLinkRecordingSession_SchedulerFailure(t *testing.T) {
	t.Parallel()

	u := usecase.New(&fakeScheduler{err: recording.ErrSessionNotFound}, logger.Default())
	m := newMeeting(t, u)

	_, err := u.LinkRecordingSession(context.Background(), m.ID, "missing-session")
	if !errors.Is(err, recording.ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound from scheduler", err)
	}

	got, _ := u.GetMeeting(context.Background(), m.ID)
	if got.SessionID != "" {
		t.Error("meeting linked despite scheduler failure")
	}
}

func TestExportICS(t *testing.T) {
	t.Parallel()

	u := usecase.New(&fakeScheduler{}, logger.Default())
	m := newMeeting(t, u)

	ics, err := u.ExportICS(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("ExportICS returned error: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:" + m.CalendarUID,
		"DTSTAMP:",
		"DTSTART:20260314T150000Z",
		"DTEND:20260314T160000Z",
		"SUMMARY:[M-2201] Deposition - Jones v. Acme",
		"DESCRIPTION:Witness deposition",
		"LOCATION:" + m.JoinURL,
		"STATUS:CONFIRMED",
		"BEGIN:VALARM",
		"TRIGGER:-PT15M",
		"ACTION:DISPLAY",
		"DESCRIPTION:Reminder: [M-2201] Deposition - Jones v. Acme",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ICS missing %q:\n%s", want, ics)
		}
	}
}

func TestExportICS_MissingMeeting(t *testing.T) {
	t.Parallel()

	u := usecase.New(&fakeScheduler{}, logger.Default())
	_, err := u.ExportICS(context.Background(), "missing")
	if !errors.Is(err, entity.ErrMeetingNotFound) {
		t.Fatalf("got %v, want ErrMeetingNotFound", err)
	}
}

func TestUpcomingMeetings_SortedWithinHorizon(t *testing.T) {
	t.Parallel()

	u := usecase.New(&fakeScheduler{}, logger.Default())
	ctx := context.Background()

	mk := func(subject string, startIn time.Duration) {
		t.Helper()
		start := time.Now().Add(startIn)
		if _, err := u.CreateTeamsMeeting(ctx, &entity.CreateMeetingRequest{
			Subject:   subject,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		}); err != nil {
			t.Fatalf("CreateTeamsMeeting returned error: %v", err)
		}
	}

	mk("later", 72*time.Hour)
	mk("sooner", 24*time.Hour)
	mk("beyond horizon", 30*24*time.Hour)

	upcoming, err := u.UpcomingMeetings(ctx, 7)
	if err != nil {
		t.Fatalf("UpcomingMeetings returned error: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("got %d meetings, want 2 within 7 days", len(upcoming))
	}
	if !strings.Contains(upcoming[0].Subject, "sooner") || !strings.Contains(upcoming[1].Subject, "later") {
		t.Errorf("meetings not sorted by start: %q, %q", upcoming[0].Subject, upcoming[1].Subject)
	}
}
