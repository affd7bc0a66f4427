package meeting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *ZoomGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewZoomGateway(server.URL, "test-token", 2*time.Second, zap.NewNop())
}

func TestResolveHostIdentity(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/users/42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"id": "host-abc"})
	})

	hostID, err := gw.ResolveHostIdentity(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "host-abc", hostID)
}

func TestResolveHostIdentityNotFound(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := gw.ResolveHostIdentity(context.Background(), 42)
	assert.ErrorIs(t, err, ErrHostNotFound)
}

func TestResolveHostIdentityUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	gw := NewZoomGateway(server.URL, "test-token", time.Second, zap.NewNop())

	_, err := gw.ResolveHostIdentity(context.Background(), 42)
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.NotErrorIs(t, err, ErrHostNotFound)
}

func TestCreateMeeting(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/host-abc/meetings", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(30), body["duration"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       98765,
			"host_id":  "host-abc",
			"join_url": "https://zoom.example/j/98765",
		})
	})

	start := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)
	mtg, err := gw.CreateMeeting(context.Background(), "host-abc", start, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(98765), mtg.ID)
	assert.Equal(t, "https://zoom.example/j/98765", mtg.JoinURL)
}

func TestDeleteMeetingIdempotent(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		// Already deleted upstream.
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, gw.DeleteMeeting(context.Background(), 98765))
}

func TestUpdateMeeting(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/meetings/98765", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	start := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	err := gw.UpdateMeeting(context.Background(), 98765, start, time.Hour, []string{"a@example.com"})
	assert.NoError(t, err)
}

func TestLRUIdentityCache(t *testing.T) {
	cache, err := NewLRUIdentityCache(2)
	require.NoError(t, err)

	_, ok := cache.Get(1)
	assert.False(t, ok)

	cache.Set(1, "host-1")
	hostID, ok := cache.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "host-1", hostID)

	// Overwrite is allowed; there is no invalidation.
	cache.Set(1, "host-1b")
	hostID, _ = cache.Get(1)
	assert.Equal(t, "host-1b", hostID)
}
