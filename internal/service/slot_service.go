package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campusbook/scheduler/internal/meeting"
	"github.com/campusbook/scheduler/internal/model"
	"go.uber.org/zap"
)

// ConflictError reports the slots a candidate window collides with.
type ConflictError struct {
	Conflicts []*model.Slot
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflicts with %d existing slot(s)", len(e.Conflicts))
}

// SlotRequest carries the editable slot fields for create and update.
type SlotRequest struct {
	SchedulerID        int64      `json:"scheduler_id"`
	TeacherID          int64      `json:"teacher_id"`
	StartTime          time.Time  `json:"start_time"`
	Duration           int        `json:"duration"` // minutes
	Exclusivity        int        `json:"exclusivity"`
	ExclusivityEnabled bool       `json:"exclusivity_enabled"`
	Location           string     `json:"location"`
	Notes              string     `json:"notes"`
	HideUntil          time.Time  `json:"hide_until"`
	EmailReminderAt    *time.Time `json:"email_reminder_at"`

	// IgnoreConflicts bypasses the overlap check; the caller's
	// capability to do so is checked upstream.
	IgnoreConflicts bool `json:"ignore_conflicts"`
}

// SlotService owns slot create/update/delete outside the bulk import
// path, plus appointment attendance.
type SlotService struct {
	slots        SlotStore
	appointments AppointmentStore
	schedulers   SchedulerStore
	calendar     CalendarStore
	conflicts    *ConflictService
	gateway      meeting.Gateway
	logger       *zap.Logger
}

func NewSlotService(
	slots SlotStore,
	appointments AppointmentStore,
	schedulers SchedulerStore,
	calendar CalendarStore,
	conflicts *ConflictService,
	gateway meeting.Gateway,
	logger *zap.Logger,
) *SlotService {
	return &SlotService{
		slots:        slots,
		appointments: appointments,
		schedulers:   schedulers,
		calendar:     calendar,
		conflicts:    conflicts,
		gateway:      gateway,
		logger:       logger,
	}
}

// CreateSlot validates and persists a teacher-created slot.
func (s *SlotService) CreateSlot(ctx context.Context, req SlotRequest) (*model.Slot, error) {
	if err := s.validate(ctx, req, 0, 0); err != nil {
		return nil, err
	}

	now := time.Now()
	slot := &model.Slot{
		SchedulerID:     req.SchedulerID,
		TeacherID:       req.TeacherID,
		StartTime:       req.StartTime,
		Duration:        req.Duration,
		Exclusivity:     effectiveExclusivity(req),
		Location:        req.Location,
		Notes:           req.Notes,
		NotesFormat:     1,
		HideUntil:       req.HideUntil,
		EmailReminderAt: req.EmailReminderAt,
		TimeModified:    now,
	}
	if slot.HideUntil.IsZero() {
		slot.HideUntil = now
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int64("teacher_id", slot.TeacherID),
		zap.Time("start_time", slot.StartTime))

	return slot, nil
}

// UpdateSlot validates and rewrites an existing slot.
func (s *SlotService) UpdateSlot(ctx context.Context, slotID int64, req SlotRequest) (*model.Slot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, fmt.Errorf("slot not found")
	}

	if err := s.validate(ctx, req, slotID, slot.AppointmentCount); err != nil {
		return nil, err
	}

	slot.StartTime = req.StartTime
	slot.Duration = req.Duration
	slot.Exclusivity = effectiveExclusivity(req)
	slot.Location = req.Location
	slot.Notes = req.Notes
	slot.HideUntil = req.HideUntil
	slot.EmailReminderAt = req.EmailReminderAt
	slot.TimeModified = time.Now()

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}

	// Keep the remote meeting in step with the slot time.
	if slot.MeetingID != nil && s.gateway != nil {
		duration := time.Duration(slot.Duration) * time.Minute
		if err := s.gateway.UpdateMeeting(ctx, *slot.MeetingID, slot.StartTime, duration, nil); err != nil {
			s.logger.Warn("Failed to sync meeting time",
				zap.Int64("meeting_id", *slot.MeetingID),
				zap.Error(err))
		}
	}

	s.logger.Info("Slot updated", zap.Int64("slot_id", slot.ID))

	return slot, nil
}

// DeleteSlot removes a slot with its appointments, first attempting to
// tear down the backing remote meeting when one exists.
func (s *SlotService) DeleteSlot(ctx context.Context, slotID int64) error {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return fmt.Errorf("slot not found")
	}

	if slot.MeetingID != nil && s.gateway != nil {
		if err := s.gateway.DeleteMeeting(ctx, *slot.MeetingID); err != nil {
			s.logger.Warn("Failed to delete remote meeting, removing slot anyway",
				zap.Int64("meeting_id", *slot.MeetingID),
				zap.Error(err))
		}
	}

	if err := s.deleteCalendarEvents(ctx, slot); err != nil {
		return err
	}

	if err := s.slots.Delete(ctx, slotID); err != nil {
		return err
	}

	s.logger.Info("Slot deleted", zap.Int64("slot_id", slotID))

	return nil
}

// SetAttended flags an appointment as attended or not.
func (s *SlotService) SetAttended(ctx context.Context, appointmentID int64, attended bool) error {
	app, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if app == nil {
		return fmt.Errorf("appointment not found")
	}

	if err := s.appointments.SetAttended(ctx, appointmentID, attended); err != nil {
		return err
	}

	s.logger.Info("Appointment attendance updated",
		zap.Int64("appointment_id", appointmentID),
		zap.Bool("attended", attended))

	return nil
}

// validate applies the slot form rules: positive exclusivity when
// enabled, no shrinking below the booked count, no past start for an
// unbooked slot, and no overlap with the teacher's other slots unless
// the caller asked to ignore conflicts.
func (s *SlotService) validate(ctx context.Context, req SlotRequest, excludeSlotID int64, appointmentCount int) error {
	if req.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if req.ExclusivityEnabled && req.Exclusivity <= 0 {
		return fmt.Errorf("exclusivity must be positive when enabled")
	}
	if req.ExclusivityEnabled && appointmentCount > req.Exclusivity {
		return fmt.Errorf("%d appointments already booked, exclusivity cannot be lower", appointmentCount)
	}
	if appointmentCount == 0 && req.StartTime.Before(time.Now()) {
		return fmt.Errorf("start time is in the past")
	}

	if !req.IgnoreConflicts {
		candidate := model.NewTimeRange(req.StartTime, req.Duration)
		conflicts, err := s.conflicts.FindConflicts(ctx, candidate, req.TeacherID, excludeSlotID, model.ScopeAll)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}
	}

	return nil
}

func (s *SlotService) deleteCalendarEvents(ctx context.Context, slot *model.Slot) error {
	activity, err := s.schedulers.GetByID(ctx, slot.SchedulerID)
	if err != nil {
		return err
	}
	if activity == nil {
		return nil
	}

	for _, prefix := range []string{model.EventTypeStudent, model.EventTypeTeacher} {
		eventType := fmt.Sprintf("%s:%d:%d", prefix, slot.ID, activity.CourseID)
		if err := s.calendar.DeleteByEventType(ctx, eventType); err != nil {
			return err
		}
	}
	return nil
}

func effectiveExclusivity(req SlotRequest) int {
	if !req.ExclusivityEnabled {
		return 0 // unlimited
	}
	return req.Exclusivity
}
