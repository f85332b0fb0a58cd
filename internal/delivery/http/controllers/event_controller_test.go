package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEventService struct {
	createFn func(ctx context.Context, input domain.EventInput) (*domain.Event, error)
	updateFn func(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	getFn    func(ctx context.Context, slug string) (*domain.Event, error)
	listFn   func(ctx context.Context) ([]*domain.Event, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeEventService) CreateEvent(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	return f.createFn(ctx, input)
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	return f.updateFn(ctx, id, patch)
}

func (f *fakeEventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	return f.getFn(ctx, slug)
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.listFn(ctx)
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) helpers.APIResponse {
	t.Helper()
	var resp helpers.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func createEventBody() map[string]any {
	return map[string]any{
		"title":       "My Big Event!!",
		"description": "A description",
		"overview":    "An overview",
		"image":       "/images/big-event.png",
		"venue":       "Town Hall",
		"location":    "Wellington",
		"date":        "July 5, 2025",
		"time":        "10:00 AM - 12:30 PM",
		"mode":        "in-person",
		"audience":    "everyone",
		"agenda":      []string{"Welcome"},
		"organizer":   "EventDesk",
		"tags":        []string{"community"},
	}
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestEventController_CreateEvent(t *testing.T) {
	t.Run("201 on success", func(t *testing.T) {
		svc := &fakeEventService{
			createFn: func(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
				return &domain.Event{ID: "ev-1", Title: input.Title, Slug: "my-big-event"}, nil
			},
		}
		ctrl := NewEventController(testLogger(), svc)

		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, postJSON(t, "/events", createEventBody()))

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Nil(t, resp.Error)
		require.Equal(t, "my-big-event", resp.Data.(map[string]any)["slug"])
	})

	t.Run("400 when required fields missing", func(t *testing.T) {
		ctrl := NewEventController(testLogger(), &fakeEventService{})

		body := createEventBody()
		delete(body, "title")
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, postJSON(t, "/events", body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.NotNil(t, resp.Error)
		require.Equal(t, helpers.ErrCodeBadRequest, resp.Error.Code)
		require.Contains(t, resp.Error.Message, "title is required")
	})

	t.Run("400 on unknown body field", func(t *testing.T) {
		ctrl := NewEventController(testLogger(), &fakeEventService{})

		body := createEventBody()
		body["slug"] = "client-supplied"
		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, postJSON(t, "/events", body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 names the offending field on validation failure", func(t *testing.T) {
		svc := &fakeEventService{
			createFn: func(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
				return nil, domain.NewValidationError("time", "25:00", "invalid time")
			},
		}
		ctrl := NewEventController(testLogger(), svc)

		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, postJSON(t, "/events", createEventBody()))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Contains(t, resp.Error.Message, "time")
		require.Contains(t, resp.Error.Message, "25:00")
	})

	t.Run("409 on duplicate slug", func(t *testing.T) {
		svc := &fakeEventService{
			createFn: func(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
				return nil, domain.ErrDuplicateSlug
			},
		}
		ctrl := NewEventController(testLogger(), svc)

		rec := httptest.NewRecorder()
		ctrl.CreateEvent(rec, postJSON(t, "/events", createEventBody()))

		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Equal(t, helpers.ErrCodeConflict, resp.Error.Code)
	})
}

func TestEventController_UpdateEvent(t *testing.T) {
	t.Run("200 on success", func(t *testing.T) {
		var gotID string
		svc := &fakeEventService{
			updateFn: func(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
				gotID = id
				return &domain.Event{ID: id, Venue: *patch.Venue}, nil
			},
		}
		ctrl := NewEventController(testLogger(), svc)

		req := postJSON(t, "/events/ev-1", map[string]any{"venue": "Civic Centre"})
		req.Method = http.MethodPatch
		req.SetPathValue("eventID", "ev-1")
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ev-1", gotID)
	})

	t.Run("404 when missing", func(t *testing.T) {
		svc := &fakeEventService{
			updateFn: func(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
				return nil, domain.ErrNotFound
			},
		}
		ctrl := NewEventController(testLogger(), svc)

		req := postJSON(t, "/events/ev-missing", map[string]any{"venue": "Civic Centre"})
		req.Method = http.MethodPatch
		req.SetPathValue("eventID", "ev-missing")
		rec := httptest.NewRecorder()
		ctrl.UpdateEvent(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventController_GetEventBySlug(t *testing.T) {
	t.Run("200 on success", func(t *testing.T) {
		svc := &fakeEventService{
			getFn: func(ctx context.Context, slug string) (*domain.Event, error) {
				return &domain.Event{ID: "ev-1", Slug: slug}, nil
			},
		}
		ctrl := NewEventController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodGet, "/events/my-big-event", nil)
		req.SetPathValue("slug", "my-big-event")
		rec := httptest.NewRecorder()
		ctrl.GetEventBySlug(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("404 when missing", func(t *testing.T) {
		svc := &fakeEventService{
			getFn: func(ctx context.Context, slug string) (*domain.Event, error) {
				return nil, domain.ErrNotFound
			},
		}
		ctrl := NewEventController(testLogger(), svc)

		req := httptest.NewRequest(http.MethodGet, "/events/nope", nil)
		req.SetPathValue("slug", "nope")
		rec := httptest.NewRecorder()
		ctrl.GetEventBySlug(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Equal(t, helpers.ErrCodeNotFound, resp.Error.Code)
	})
}

func TestEventController_ListEvents(t *testing.T) {
	svc := &fakeEventService{
		listFn: func(ctx context.Context) ([]*domain.Event, error) {
			return []*domain.Event{{ID: "ev-1"}, {ID: "ev-2"}}, nil
		},
	}
	ctrl := NewEventController(testLogger(), svc)

	rec := httptest.NewRecorder()
	ctrl.ListEvents(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec.Body)
	require.Len(t, resp.Data.([]any), 2)
}

func TestEventController_DeleteEvent(t *testing.T) {
	svc := &fakeEventService{
		deleteFn: func(ctx context.Context, id string) error {
			if id != "ev-1" {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	ctrl := NewEventController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodDelete, "/events/ev-1", nil)
	req.SetPathValue("eventID", "ev-1")
	rec := httptest.NewRecorder()
	ctrl.DeleteEvent(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/events/ev-missing", nil)
	req.SetPathValue("eventID", "ev-missing")
	rec = httptest.NewRecorder()
	ctrl.DeleteEvent(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
