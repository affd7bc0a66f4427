package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ZoomGateway talks to the Zoom REST API. Every call shares one
// http.Client whose timeout bounds the round-trip; on timeout the
// operation fails and is not retried.
type ZoomGateway struct {
	baseURL  string
	apiToken string
	client   *http.Client
	logger   *zap.Logger
}

func NewZoomGateway(baseURL, apiToken string, timeout time.Duration, logger *zap.Logger) *ZoomGateway {
	return &ZoomGateway{
		baseURL:  baseURL,
		apiToken: apiToken,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type zoomUser struct {
	ID string `json:"id"`
}

type zoomMeeting struct {
	ID      int64  `json:"id"`
	HostID  string `json:"host_id"`
	JoinURL string `json:"join_url"`
}

// ResolveHostIdentity looks up the vendor account for a local user.
// A 404 means the user has no host account (ErrHostNotFound); transport
// failures wrap ErrLookupFailed so callers can tell the two apart.
func (g *ZoomGateway) ResolveHostIdentity(ctx context.Context, userID int64) (string, error) {
	endpoint := fmt.Sprintf("/users/%s", url.PathEscape(strconv.FormatInt(userID, 10)))

	var user zoomUser
	status, err := g.do(ctx, http.MethodGet, endpoint, nil, &user)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if status == http.StatusNotFound {
		return "", ErrHostNotFound
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, status)
	}
	if user.ID == "" {
		return "", ErrHostNotFound
	}

	return user.ID, nil
}

func (g *ZoomGateway) CreateMeeting(ctx context.Context, hostID string, start time.Time, duration time.Duration) (*Meeting, error) {
	body := map[string]interface{}{
		"topic":      "Scheduled appointment",
		"type":       2, // scheduled meeting
		"start_time": start.UTC().Format(time.RFC3339),
		"duration":   int(duration.Minutes()),
	}

	var created zoomMeeting
	status, err := g.do(ctx, http.MethodPost, fmt.Sprintf("/users/%s/meetings", url.PathEscape(hostID)), body, &created)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("create meeting: unexpected status %d", status)
	}

	g.logger.Info("Remote meeting created",
		zap.Int64("meeting_id", created.ID),
		zap.String("host_id", hostID))

	return &Meeting{ID: created.ID, HostID: created.HostID, JoinURL: created.JoinURL}, nil
}

func (g *ZoomGateway) GetMeeting(ctx context.Context, meetingID int64) (*Meeting, error) {
	var m zoomMeeting
	status, err := g.do(ctx, http.MethodGet, fmt.Sprintf("/meetings/%d", meetingID), nil, &m)
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get meeting: unexpected status %d", status)
	}

	return &Meeting{ID: m.ID, HostID: m.HostID, JoinURL: m.JoinURL}, nil
}

func (g *ZoomGateway) UpdateMeeting(ctx context.Context, meetingID int64, start time.Time, duration time.Duration, cohosts []string) error {
	body := map[string]interface{}{
		"start_time": start.UTC().Format(time.RFC3339),
		"duration":   int(duration.Minutes()),
	}
	if len(cohosts) > 0 {
		body["settings"] = map[string]interface{}{
			"alternative_hosts": strings.Join(cohosts, ";"),
		}
	}

	status, err := g.do(ctx, http.MethodPatch, fmt.Sprintf("/meetings/%d", meetingID), body, nil)
	if err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("update meeting: unexpected status %d", status)
	}

	return nil
}

// DeleteMeeting removes a meeting. A 404 counts as success so repeated
// deletes stay idempotent.
func (g *ZoomGateway) DeleteMeeting(ctx context.Context, meetingID int64) error {
	status, err := g.do(ctx, http.MethodDelete, fmt.Sprintf("/meetings/%d", meetingID), nil, nil)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if status != http.StatusNoContent && status != http.StatusOK && status != http.StatusNotFound {
		return fmt.Errorf("delete meeting: unexpected status %d", status)
	}

	return nil
}

// do performs one request and decodes the response into out when it is
// non-nil and the status carries a body worth decoding.
func (g *ZoomGateway) do(ctx context.Context, method, endpoint string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
