package meeting

import (
	"context"
	"errors"
	"time"
)

// Meeting is a remote video-conference resource. The service only
// references meetings; the vendor owns their lifecycle.
type Meeting struct {
	ID      int64  `json:"id"`
	HostID  string `json:"host_id"`
	JoinURL string `json:"join_url"`
}

// ErrHostNotFound means the vendor answered and knows no such host.
// ErrLookupFailed means the vendor could not be reached or timed out;
// the two are handled differently during import.
var (
	ErrHostNotFound = errors.New("meeting host not found")
	ErrLookupFailed = errors.New("remote lookup failed")
)

// Gateway is the boundary to the video-conference vendor. All calls are
// synchronous round-trips with a bounded timeout; a timed-out call is a
// failure, never retried automatically.
type Gateway interface {
	// ResolveHostIdentity maps a local user id to the vendor's host id.
	ResolveHostIdentity(ctx context.Context, userID int64) (string, error)

	CreateMeeting(ctx context.Context, hostID string, start time.Time, duration time.Duration) (*Meeting, error)

	// GetMeeting fetches an existing meeting by id.
	GetMeeting(ctx context.Context, meetingID int64) (*Meeting, error)

	UpdateMeeting(ctx context.Context, meetingID int64, start time.Time, duration time.Duration, cohosts []string) error

	// DeleteMeeting is idempotent: deleting an already-deleted meeting
	// is not an error.
	DeleteMeeting(ctx context.Context, meetingID int64) error
}

// IdentityCache memoizes host identity lookups. Writers only ever add
// or overwrite entries; there is no invalidation protocol.
type IdentityCache interface {
	Get(userID int64) (string, bool)
	Set(userID int64, hostID string)
}
