package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", value, err)
	}
	return parsed
}

func TestTimeRangeEnd(t *testing.T) {
	r := NewTimeRange(mustTime(t, "2024-03-04T14:30:00Z"), 30)
	assert.Equal(t, mustTime(t, "2024-03-04T15:00:00Z"), r.End())
}

func TestTimeRangeOverlaps(t *testing.T) {
	base := mustTime(t, "2024-03-04T10:00:00Z")

	tests := []struct {
		name string
		a    TimeRange
		b    TimeRange
		want bool
	}{
		{
			name: "identical ranges",
			a:    NewTimeRange(base, 60),
			b:    NewTimeRange(base, 60),
			want: true,
		},
		{
			name: "partial overlap",
			a:    NewTimeRange(base, 60),
			b:    NewTimeRange(base.Add(30*time.Minute), 60),
			want: true,
		},
		{
			name: "contained range",
			a:    NewTimeRange(base, 120),
			b:    NewTimeRange(base.Add(30*time.Minute), 30),
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    NewTimeRange(base, 60),
			b:    NewTimeRange(base.Add(60*time.Minute), 60),
			want: false,
		},
		{
			name: "disjoint ranges",
			a:    NewTimeRange(base, 30),
			b:    NewTimeRange(base.Add(2*time.Hour), 30),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.a.Overlaps(tt.b), tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeRangeContains(t *testing.T) {
	r := NewTimeRange(mustTime(t, "2024-03-04T10:00:00Z"), 60)

	assert.True(t, r.Contains(mustTime(t, "2024-03-04T10:00:00Z")))
	assert.True(t, r.Contains(mustTime(t, "2024-03-04T10:59:00Z")))
	// End is exclusive.
	assert.False(t, r.Contains(mustTime(t, "2024-03-04T11:00:00Z")))
	assert.False(t, r.Contains(mustTime(t, "2024-03-04T09:59:00Z")))
}
