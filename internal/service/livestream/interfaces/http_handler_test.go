package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamcart/internal/service/livestream/domain"
)

// --- Mock implementations ---

type mockEventRepo struct {
	events []*domain.StreamEvent
	err    error

	gotLivestreamID string
	gotLimit        int
}

func (m *mockEventRepo) Save(_ context.Context, _ *domain.StreamEvent) error {
	return nil
}

func (m *mockEventRepo) FindByLivestream(_ context.Context, livestreamID string, limit int) ([]*domain.StreamEvent, error) {
	m.gotLivestreamID = livestreamID
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

// --- Tests ---

func TestListStreamEvents(t *testing.T) {
	repo := &mockEventRepo{
		events: []*domain.StreamEvent{
			{
				ID:           "evt-1",
				LivestreamID: "live-1",
				UserID:       "user-1",
				EventType:    domain.EventTypeOrderComment,
				Payload:      "đặt LTBX x2",
				CreatedAt:    time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			},
		},
	}
	handler := NewIntakeHandler(nil, repo)

	req := httptest.NewRequest(http.MethodGet, "/livestreams/events?livestreamId=live-1", nil)
	rec := httptest.NewRecorder()
	handler.handleListEvents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "live-1", repo.gotLivestreamID)
	assert.Equal(t, defaultEventsLimit, repo.gotLimit)

	var events []*domain.StreamEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "đặt LTBX x2", events[0].Payload)
}

func TestListStreamEvents_LimitClamped(t *testing.T) {
	repo := &mockEventRepo{}
	handler := NewIntakeHandler(nil, repo)

	req := httptest.NewRequest(http.MethodGet, "/livestreams/events?livestreamId=live-1&limit=9999", nil)
	rec := httptest.NewRecorder()
	handler.handleListEvents(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxEventsLimit, repo.gotLimit)
}

func TestListStreamEvents_BadRequests(t *testing.T) {
	handler := NewIntakeHandler(nil, &mockEventRepo{})

	req := httptest.NewRequest(http.MethodGet, "/livestreams/events", nil)
	rec := httptest.NewRecorder()
	handler.handleListEvents(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/livestreams/events?livestreamId=live-1&limit=abc", nil)
	rec = httptest.NewRecorder()
	handler.handleListEvents(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/livestreams/events?livestreamId=live-1", nil)
	rec = httptest.NewRecorder()
	handler.handleListEvents(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListStreamEvents_RepositoryError(t *testing.T) {
	handler := NewIntakeHandler(nil, &mockEventRepo{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodGet, "/livestreams/events?livestreamId=live-1", nil)
	rec := httptest.NewRecorder()
	handler.handleListEvents(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
