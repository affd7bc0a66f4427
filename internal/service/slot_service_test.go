package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/campusbook/scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type slotFixture struct {
	slots        *fakeSlotStore
	appointments *fakeAppointmentStore
	schedulers   *fakeSchedulerStore
	calendar     *fakeCalendarStore
	gateway      *fakeGateway

	service *SlotService
}

func newSlotFixture() *slotFixture {
	f := &slotFixture{
		slots:        &fakeSlotStore{},
		appointments: &fakeAppointmentStore{},
		schedulers: &fakeSchedulerStore{activities: []*model.SchedulerActivity{
			{ID: 10, CourseID: 1, Name: "Office Hours"},
		}},
		calendar: &fakeCalendarStore{},
		gateway:  &fakeGateway{hosts: map[int64]string{7: "host-tara"}},
	}

	f.service = NewSlotService(
		f.slots, f.appointments, f.schedulers, f.calendar,
		NewConflictService(f.slots), f.gateway, zap.NewNop(),
	)
	return f
}

func futureSlotRequest(start time.Time) SlotRequest {
	return SlotRequest{
		SchedulerID: 10,
		TeacherID:   7,
		StartTime:   start,
		Duration:    60,
	}
}

func TestCreateSlot(t *testing.T) {
	f := newSlotFixture()
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)

	slot, err := f.service.CreateSlot(context.Background(), futureSlotRequest(start))
	require.NoError(t, err)

	assert.NotZero(t, slot.ID)
	assert.Equal(t, start, slot.StartTime)
	assert.Equal(t, 0, slot.Exclusivity) // disabled means unlimited
	assert.False(t, slot.HideUntil.IsZero())
	require.Len(t, f.slots.slots, 1)
}

func TestCreateSlotRejectsOverlap(t *testing.T) {
	f := newSlotFixture()
	start := time.Now().Add(24 * time.Hour)

	existing, err := f.service.CreateSlot(context.Background(), futureSlotRequest(start))
	require.NoError(t, err)

	req := futureSlotRequest(start.Add(30 * time.Minute))
	_, err = f.service.CreateSlot(context.Background(), req)
	require.Error(t, err)

	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, existing.ID, conflictErr.Conflicts[0].ID)
	assert.Len(t, f.slots.slots, 1)
}

func TestCreateSlotIgnoreConflicts(t *testing.T) {
	f := newSlotFixture()
	start := time.Now().Add(24 * time.Hour)

	_, err := f.service.CreateSlot(context.Background(), futureSlotRequest(start))
	require.NoError(t, err)

	req := futureSlotRequest(start.Add(30 * time.Minute))
	req.IgnoreConflicts = true
	_, err = f.service.CreateSlot(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, f.slots.slots, 2)
}

func TestCreateSlotTouchingSlotsDoNotConflict(t *testing.T) {
	f := newSlotFixture()
	start := time.Now().Add(24 * time.Hour)

	_, err := f.service.CreateSlot(context.Background(), futureSlotRequest(start))
	require.NoError(t, err)

	// Back to back with the first slot.
	_, err = f.service.CreateSlot(context.Background(), futureSlotRequest(start.Add(60*time.Minute)))
	require.NoError(t, err)
	assert.Len(t, f.slots.slots, 2)
}

func TestCreateSlotValidation(t *testing.T) {
	f := newSlotFixture()
	future := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name   string
		mutate func(req *SlotRequest)
	}{
		{"zero duration", func(r *SlotRequest) { r.Duration = 0 }},
		{"negative duration", func(r *SlotRequest) { r.Duration = -30 }},
		{"zero exclusivity while enabled", func(r *SlotRequest) {
			r.ExclusivityEnabled = true
			r.Exclusivity = 0
		}},
		{"start in the past", func(r *SlotRequest) { r.StartTime = time.Now().Add(-time.Hour) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := futureSlotRequest(future)
			tt.mutate(&req)

			_, err := f.service.CreateSlot(context.Background(), req)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, f.slots.slots)
}

func TestUpdateSlotAllowsPastStartWhenBooked(t *testing.T) {
	f := newSlotFixture()
	past := time.Now().Add(-2 * time.Hour)
	f.slots.slots = append(f.slots.slots, &model.Slot{
		ID: 1, SchedulerID: 10, TeacherID: 7,
		StartTime: past, Duration: 60, AppointmentCount: 1,
	})
	f.slots.nextID = 1

	req := futureSlotRequest(past.Add(15 * time.Minute))
	_, err := f.service.UpdateSlot(context.Background(), 1, req)
	assert.NoError(t, err)
}

func TestUpdateSlotRejectsExclusivityBelowBookedCount(t *testing.T) {
	f := newSlotFixture()
	start := time.Now().Add(24 * time.Hour)
	f.slots.slots = append(f.slots.slots, &model.Slot{
		ID: 1, SchedulerID: 10, TeacherID: 7,
		StartTime: start, Duration: 60, Exclusivity: 3, AppointmentCount: 2,
	})
	f.slots.nextID = 1

	req := futureSlotRequest(start)
	req.ExclusivityEnabled = true
	req.Exclusivity = 1

	_, err := f.service.UpdateSlot(context.Background(), 1, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 appointments already booked")
}

func TestUpdateSlotSyncsMeetingTime(t *testing.T) {
	f := newSlotFixture()
	start := time.Now().Add(24 * time.Hour)
	meetingID := int64(500)
	f.slots.slots = append(f.slots.slots, &model.Slot{
		ID: 1, SchedulerID: 10, TeacherID: 7,
		StartTime: start, Duration: 60, MeetingID: &meetingID,
	})
	f.slots.nextID = 1

	req := futureSlotRequest(start.Add(time.Hour))
	_, err := f.service.UpdateSlot(context.Background(), 1, req)
	require.NoError(t, err)

	assert.Equal(t, []int64{500}, f.gateway.updated)
}

func TestUpdateSlotNotFound(t *testing.T) {
	f := newSlotFixture()

	_, err := f.service.UpdateSlot(context.Background(), 99, futureSlotRequest(time.Now().Add(time.Hour)))
	assert.Error(t, err)
}

func TestDeleteSlotTearsDownMeetingAndCalendar(t *testing.T) {
	f := newSlotFixture()
	meetingID := int64(500)
	slot := &model.Slot{
		ID: 1, SchedulerID: 10, TeacherID: 7,
		StartTime: time.Now().Add(24 * time.Hour), Duration: 60, MeetingID: &meetingID,
	}
	f.slots.slots = append(f.slots.slots, slot)
	f.slots.nextID = 1

	for userID, prefix := range map[int64]string{21: model.EventTypeStudent, 7: model.EventTypeTeacher} {
		require.NoError(t, f.calendar.Upsert(context.Background(), &model.CalendarEvent{
			EventType: fmt.Sprintf("%s:%d:%d", prefix, slot.ID, 1),
			UserID:    userID,
		}))
	}

	require.NoError(t, f.service.DeleteSlot(context.Background(), 1))

	assert.Empty(t, f.slots.slots)
	assert.Equal(t, []int64{500}, f.gateway.deleted)
	assert.Empty(t, f.calendar.events)
}

func TestDeleteSlotWithoutMeeting(t *testing.T) {
	f := newSlotFixture()
	f.slots.slots = append(f.slots.slots, &model.Slot{
		ID: 1, SchedulerID: 10, TeacherID: 7,
		StartTime: time.Now().Add(24 * time.Hour), Duration: 60,
	})
	f.slots.nextID = 1

	require.NoError(t, f.service.DeleteSlot(context.Background(), 1))
	assert.Empty(t, f.gateway.deleted)
	assert.Empty(t, f.slots.slots)
}

func TestSetAttended(t *testing.T) {
	f := newSlotFixture()
	app := &model.Appointment{SlotID: 1, StudentID: 21}
	require.NoError(t, f.appointments.Create(context.Background(), app))

	require.NoError(t, f.service.SetAttended(context.Background(), app.ID, true))
	assert.True(t, f.appointments.appointments[0].Attended)

	require.NoError(t, f.service.SetAttended(context.Background(), app.ID, false))
	assert.False(t, f.appointments.appointments[0].Attended)

	assert.Error(t, f.service.SetAttended(context.Background(), 999, true))
}
