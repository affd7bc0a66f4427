package service

import (
	"context"
	"fmt"

	"github.com/campusbook/scheduler/internal/model"
)

// ConflictService answers whether a candidate time range collides with
// a teacher's existing slots. The overlap decision itself lives in
// model.FindConflicts; this service only loads the snapshot.
type ConflictService struct {
	slots SlotStore
}

func NewConflictService(slots SlotStore) *ConflictService {
	return &ConflictService{slots: slots}
}

// FindConflicts returns every slot of the teacher overlapping the
// candidate range, excluding excludeSlotID (0 = nothing excluded) and
// slots outside the scope. An empty result means no conflict.
func (s *ConflictService) FindConflicts(ctx context.Context, candidate model.TimeRange, teacherID, excludeSlotID int64, scope model.ConflictScope) ([]*model.Slot, error) {
	snapshot, err := s.slots.ListByTeacher(ctx, teacherID, candidate.Start, candidate.End())
	if err != nil {
		return nil, fmt.Errorf("load teacher slots: %w", err)
	}

	return model.FindConflicts(candidate, teacherID, excludeSlotID, scope, snapshot), nil
}
