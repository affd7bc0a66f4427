package model

// ConflictScope narrows which of a teacher's slots count as conflict
// candidates. The scope is the caller's capability, not the detector's.
type ConflictScope int

const (
	ScopeAll ConflictScope = iota
	ScopeBookedOnly
	ScopeUnbookedOnly
)

// FindConflicts returns every slot in the snapshot that overlaps the
// candidate range for the given teacher, excluding the slot being
// edited and slots outside the scope. Exclusivity never influences the
// result; it only limits appointment counts.
//
// The function is pure: it performs no I/O and never mutates slots.
// An empty result means no conflict.
func FindConflicts(candidate TimeRange, teacherID, excludeSlotID int64, scope ConflictScope, slots []*Slot) []*Slot {
	conflicts := []*Slot{}

	for _, slot := range slots {
		if slot.TeacherID != teacherID {
			continue
		}
		if excludeSlotID != 0 && slot.ID == excludeSlotID {
			continue
		}
		switch scope {
		case ScopeBookedOnly:
			if !slot.IsBooked() {
				continue
			}
		case ScopeUnbookedOnly:
			if slot.IsBooked() {
				continue
			}
		}
		if candidate.Overlaps(slot.Range()) {
			conflicts = append(conflicts, slot)
		}
	}

	return conflicts
}
