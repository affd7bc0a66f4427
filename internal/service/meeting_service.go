package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campusbook/scheduler/internal/meeting"
	"go.uber.org/zap"
)

// Placeholder duration for meetings created ahead of slot submission;
// the final time is pushed once the slot is saved.
const draftMeetingDuration = 60 * time.Minute

// MeetingService backs the ad-hoc meeting actions consumed by the UI:
// create-or-fetch a meeting for a teacher and delete one by id.
type MeetingService struct {
	gateway    meeting.Gateway
	identities meeting.IdentityCache
	logger     *zap.Logger
}

func NewMeetingService(gateway meeting.Gateway, identities meeting.IdentityCache, logger *zap.Logger) *MeetingService {
	return &MeetingService{
		gateway:    gateway,
		identities: identities,
		logger:     logger,
	}
}

// CreateOrFetch returns the existing meeting when meetingID is nonzero,
// otherwise creates a draft meeting for the teacher. ErrHostNotFound
// surfaces unchanged so the caller can report the missing account.
func (s *MeetingService) CreateOrFetch(ctx context.Context, teacherID, meetingID int64) (*meeting.Meeting, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("meeting integration is disabled")
	}
	if meetingID != 0 {
		return s.gateway.GetMeeting(ctx, meetingID)
	}

	hostID, ok := s.identities.Get(teacherID)
	if !ok {
		var err error
		hostID, err = s.gateway.ResolveHostIdentity(ctx, teacherID)
		if err != nil {
			return nil, err
		}
		s.identities.Set(teacherID, hostID)
	}

	mtg, err := s.gateway.CreateMeeting(ctx, hostID, time.Now(), draftMeetingDuration)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Draft meeting created",
		zap.Int64("teacher_id", teacherID),
		zap.Int64("meeting_id", mtg.ID))

	return mtg, nil
}

// Delete removes a meeting by id; deleting a missing meeting succeeds.
func (s *MeetingService) Delete(ctx context.Context, meetingID int64) error {
	if s.gateway == nil {
		return fmt.Errorf("meeting integration is disabled")
	}
	return s.gateway.DeleteMeeting(ctx, meetingID)
}
