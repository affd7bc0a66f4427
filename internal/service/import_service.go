package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusbook/scheduler/internal/importer"
	"github.com/campusbook/scheduler/internal/meeting"
	"github.com/campusbook/scheduler/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Slot defaults applied to imported sessions.
const (
	importedSlotExclusivity = 1
	meetingLinkLabel        = "Your meeting link"
	eventNameLimit          = 200
)

// ImportSummary is the outcome of one import run.
type ImportSummary struct {
	Created     int              `json:"created"`
	Diagnostics []importer.Entry `json:"diagnostics"`
}

// ImportService reconciles parsed session records against persisted
// course state: it resolves references, skips duplicates, creates the
// slot and appointment inside one transaction per record, and pushes
// meeting and calendar side effects.
type ImportService struct {
	courses      CourseStore
	schedulers   SchedulerStore
	users        UserStore
	slots        SlotStore
	appointments AppointmentStore
	calendar     CalendarStore
	tx           TxRunner

	gateway        meeting.Gateway
	identities     meeting.IdentityCache
	meetingEnabled bool

	logger *zap.Logger
}

func NewImportService(
	courses CourseStore,
	schedulers SchedulerStore,
	users UserStore,
	slots SlotStore,
	appointments AppointmentStore,
	calendar CalendarStore,
	tx TxRunner,
	gateway meeting.Gateway,
	identities meeting.IdentityCache,
	meetingEnabled bool,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		courses:        courses,
		schedulers:     schedulers,
		users:          users,
		slots:          slots,
		appointments:   appointments,
		calendar:       calendar,
		tx:             tx,
		gateway:        gateway,
		identities:     identities,
		meetingEnabled: meetingEnabled,
		logger:         logger,
	}
}

// ImportAll processes parse results in input order. Row rejections from
// the parser and per-record reconciliation problems become ledger
// entries; only structural failures (storage unavailable) abort the run
// with an error. Already-committed records stay committed.
func (s *ImportService) ImportAll(ctx context.Context, results []importer.RowResult) (*ImportSummary, error) {
	runID := uuid.NewString()
	ledger := importer.NewLedger()
	created := 0

	s.logger.Info("Import run started",
		zap.String("run_id", runID),
		zap.Int("rows", len(results)))

	for _, res := range results {
		if res.Rejected() {
			ledger.Problem(res.Diagnostic.Code, fmt.Sprintf("row %d: %s", res.Row, res.Diagnostic.Text))
			continue
		}

		ok, err := s.importOne(ctx, res.Record, ledger)
		if err != nil {
			return nil, fmt.Errorf("import row %d: %w", res.Row, err)
		}
		if ok {
			created++
		}
	}

	message := fmt.Sprintf("%d session(s) were generated", created)
	if created < 1 {
		ledger.Message(importer.CodeSessionsGenerated, message)
	} else {
		ledger.Success(importer.CodeSessionsGenerated, message)
	}

	s.logger.Info("Import run finished",
		zap.String("run_id", runID),
		zap.Int("created", created),
		zap.Int("problems", ledger.Problems()))

	return &ImportSummary{Created: created, Diagnostics: ledger.Entries()}, nil
}

// importOne runs the reconciliation pipeline for a single record. It
// returns true when a slot and appointment were committed. Expected
// business outcomes land in the ledger; the error return is reserved
// for structural failures.
func (s *ImportService) importOne(ctx context.Context, rec *importer.SessionImportRecord, ledger *importer.Ledger) (bool, error) {
	course, err := s.courses.GetByShortname(ctx, rec.CourseRef)
	if err != nil {
		return false, err
	}
	if course == nil {
		rec.Status = importer.StatusRejected
		ledger.Problem(importer.CodeCourseNotFound, fmt.Sprintf("course %q not found", rec.CourseRef))
		return false, nil
	}

	hasScheduler, err := s.schedulers.ExistsInCourse(ctx, course.ID)
	if err != nil {
		return false, err
	}
	if !hasScheduler {
		rec.Status = importer.StatusRejected
		ledger.Problem(importer.CodeCourseHasNoScheduler, fmt.Sprintf("course %q has no scheduler activity", rec.CourseRef))
		return false, nil
	}

	activity, err := s.schedulers.GetByCourseAndName(ctx, course.ID, rec.SchedulerRef)
	if err != nil {
		return false, err
	}
	if activity == nil {
		rec.Status = importer.StatusRejected
		ledger.Problem(importer.CodeSchedulerNameInvalid, fmt.Sprintf("scheduler %q not found in course %q", rec.SchedulerRef, rec.CourseRef))
		return false, nil
	}
	if activity.DeletionPending {
		// Activity sits in the recycle bin: skip silently, no diagnostic.
		rec.Status = importer.StatusRejected
		return false, nil
	}

	// The parser clamps unusable duration cells to 0; storage requires a
	// positive duration, so reject the record here with a diagnostic.
	if rec.DurationMinutes <= 0 {
		rec.Status = importer.StatusRejected
		ledger.Problem(importer.CodeInvalidDuration,
			fmt.Sprintf("session duration is missing or invalid: course %q, activity %q", rec.CourseRef, rec.SchedulerRef))
		return false, nil
	}

	teacher, err := s.users.GetCourseTeacher(ctx, course.ID)
	if err != nil {
		return false, err
	}
	if teacher == nil {
		rec.Status = importer.StatusRejected
		ledger.Problem(importer.CodeCourseHasNoTeacher, fmt.Sprintf("course %q has no teacher", rec.CourseRef))
		return false, nil
	}

	now := time.Now()
	slot := &model.Slot{
		SchedulerID:  activity.ID,
		TeacherID:    teacher.ID,
		StartTime:    rec.StartAt(),
		Duration:     rec.DurationMinutes,
		Exclusivity:  importedSlotExclusivity,
		Location:     "",
		NotesFormat:  1,
		HideUntil:    now,
		TimeModified: now,
	}

	// Duplicate check runs before the meeting gateway is touched, so a
	// duplicate row never leaks a freshly created remote meeting.
	duplicate, err := s.slots.DuplicateExists(ctx, slot.SchedulerID, slot.StartTime, slot.Duration, slot.TeacherID)
	if err != nil {
		return false, err
	}
	if duplicate {
		rec.Status = importer.StatusRejected
		ledger.Message(importer.CodeDuplicateSession,
			fmt.Sprintf("session already exists: course %q, activity %q", rec.CourseRef, activity.Name))
		return false, nil
	}

	var mtg *meeting.Meeting
	if s.meetingEnabled && rec.WantsMeeting {
		mtg = s.createMeeting(ctx, teacher.ID, slot, ledger)
		if mtg != nil {
			slot.MeetingID = &mtg.ID
			slot.MeetingURL = mtg.JoinURL
			slot.Notes = meetingNotes(mtg.JoinURL)
		}
	}

	student, err := s.users.FindEnrolledStudent(ctx, course.ID, rec.StudentFirstName, rec.StudentLastName)
	if err != nil {
		return false, err
	}
	if student == nil {
		rec.Status = importer.StatusRejected
		ledger.Problem(importer.CodeInvalidStudent,
			fmt.Sprintf("student %q %q is not enrolled in course %q", rec.StudentFirstName, rec.StudentLastName, rec.CourseRef))
		// The record is dropped whole; tear the meeting down again
		// rather than leaking it.
		if mtg != nil {
			if err := s.gateway.DeleteMeeting(ctx, mtg.ID); err != nil {
				s.logger.Warn("Failed to delete abandoned meeting",
					zap.Int64("meeting_id", mtg.ID),
					zap.Error(err))
			}
		}
		return false, nil
	}

	appointment := &model.Appointment{
		StudentID:             student.ID,
		AppointmentNoteFormat: 1,
		TeacherNoteFormat:     1,
		StudentNoteFormat:     1,
	}

	// Slot and appointment commit together or not at all.
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.slots.Create(ctx, slot); err != nil {
			return err
		}
		appointment.SlotID = slot.ID
		return s.appointments.Create(ctx, appointment)
	})
	if err != nil {
		return false, err
	}

	// Push the final time and duration to the meeting provider.
	if mtg != nil {
		duration := time.Duration(slot.Duration) * time.Minute
		if err := s.gateway.UpdateMeeting(ctx, mtg.ID, slot.StartTime, duration, nil); err != nil {
			s.logger.Warn("Failed to sync meeting time",
				zap.Int64("meeting_id", mtg.ID),
				zap.Error(err))
		}
	}

	if err := s.upsertCalendarEvents(ctx, course, activity, slot, teacher, student, mtg); err != nil {
		return false, err
	}

	rec.Status = importer.StatusResolved

	s.logger.Info("Session imported",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("appointment_id", appointment.ID),
		zap.String("course", course.Shortname),
		zap.String("activity", activity.Name),
		zap.Bool("meeting", mtg != nil))

	return true, nil
}

// createMeeting resolves the teacher's host identity through the cache
// and asks the gateway for a meeting. Every failure here is recoverable
// for the record: the slot is still created, just without a meeting.
func (s *ImportService) createMeeting(ctx context.Context, teacherID int64, slot *model.Slot, ledger *importer.Ledger) *meeting.Meeting {
	hostID, ok := s.identities.Get(teacherID)
	if !ok {
		var err error
		hostID, err = s.gateway.ResolveHostIdentity(ctx, teacherID)
		if err != nil {
			switch {
			case errors.Is(err, meeting.ErrHostNotFound):
				ledger.Problem(importer.CodeInvalidRemoteMeetingUser,
					fmt.Sprintf("teacher %d has no meeting host account", teacherID))
			default:
				ledger.Problem(importer.CodeRemoteLookupFailed,
					fmt.Sprintf("meeting host lookup failed for teacher %d", teacherID))
			}
			return nil
		}
		s.identities.Set(teacherID, hostID)
	}

	duration := time.Duration(slot.Duration) * time.Minute
	mtg, err := s.gateway.CreateMeeting(ctx, hostID, slot.StartTime, duration)
	if err != nil {
		ledger.Problem(importer.CodeRemoteLookupFailed,
			fmt.Sprintf("meeting creation failed for teacher %d", teacherID))
		return nil
	}

	return mtg
}

// upsertCalendarEvents writes the teacher and student calendar entries,
// keyed so repeated imports update rather than duplicate them.
func (s *ImportService) upsertCalendarEvents(ctx context.Context, course *model.Course, activity *model.SchedulerActivity, slot *model.Slot, teacher, student *model.User, mtg *meeting.Meeting) error {
	description := fmt.Sprintf("%s<br/><br/>%s", activity.Name, activity.Intro)
	if mtg != nil {
		description = fmt.Sprintf("%s<br><br> Meeting Link: <a href='%s'>%s</a>", description, mtg.JoinURL, mtg.JoinURL)
	}

	base := model.CalendarEvent{
		CourseID:     course.ID,
		Instance:     activity.ID,
		Description:  description,
		TimeStart:    slot.StartTime,
		TimeDuration: slot.Duration * 60,
		Visible:      true,
	}

	studentEvent := base
	studentEvent.EventType = fmt.Sprintf("%s:%d:%d", model.EventTypeStudent, slot.ID, course.ID)
	studentEvent.UserID = student.ID
	studentEvent.Name = shortenText("Meeting with Teacher, "+teacher.FullName(), eventNameLimit)
	if err := s.calendar.Upsert(ctx, &studentEvent); err != nil {
		return err
	}

	teacherEvent := base
	teacherEvent.EventType = fmt.Sprintf("%s:%d:%d", model.EventTypeTeacher, slot.ID, course.ID)
	teacherEvent.UserID = teacher.ID
	teacherEvent.Name = shortenText("Meeting with Student, "+student.FullName(), eventNameLimit)
	return s.calendar.Upsert(ctx, &teacherEvent)
}

// meetingNotes builds the join-URL snippet stored in the slot notes.
func meetingNotes(joinURL string) string {
	return fmt.Sprintf("<h2>%s</h2><br><a href='%s'>%s</a>", meetingLinkLabel, joinURL, joinURL)
}

func shortenText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
