package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"

	"github.com/stretchr/testify/require"
)

type fakeBookingService struct {
	createFn func(ctx context.Context, eventID, email string) (*domain.Booking, error)
	updateFn func(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error)
	listFn   func(ctx context.Context, eventID string) ([]*domain.Booking, error)
	cancelFn func(ctx context.Context, id string) error
}

func (f *fakeBookingService) CreateBooking(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	return f.createFn(ctx, eventID, email)
}

func (f *fakeBookingService) UpdateBooking(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error) {
	return f.updateFn(ctx, id, patch)
}

func (f *fakeBookingService) ListEventBookings(ctx context.Context, eventID string) ([]*domain.Booking, error) {
	return f.listFn(ctx, eventID)
}

func (f *fakeBookingService) CancelBooking(ctx context.Context, id string) error {
	return f.cancelFn(ctx, id)
}

func TestBookingController_CreateBooking(t *testing.T) {
	body := map[string]any{"event_id": "ev-1", "email": "jane@example.com"}

	t.Run("201 on success", func(t *testing.T) {
		svc := &fakeBookingService{
			createFn: func(ctx context.Context, eventID, email string) (*domain.Booking, error) {
				return &domain.Booking{ID: "bk-1", EventID: eventID, Email: email}, nil
			},
		}
		ctrl := NewBookingController(testLogger(), svc)

		rec := httptest.NewRecorder()
		ctrl.CreateBooking(rec, postJSON(t, "/bookings", body))

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Nil(t, resp.Error)
		require.Equal(t, "bk-1", resp.Data.(map[string]any)["id"])
	})

	t.Run("400 when fields missing", func(t *testing.T) {
		ctrl := NewBookingController(testLogger(), &fakeBookingService{})

		rec := httptest.NewRecorder()
		ctrl.CreateBooking(rec, postJSON(t, "/bookings", map[string]any{"event_id": "ev-1"}))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Contains(t, resp.Error.Message, "email is required")
	})

	t.Run("400 names the rejected email", func(t *testing.T) {
		svc := &fakeBookingService{
			createFn: func(ctx context.Context, eventID, email string) (*domain.Booking, error) {
				return nil, domain.NewValidationError("email", "not-an-email", "invalid email address")
			},
		}
		ctrl := NewBookingController(testLogger(), svc)

		rec := httptest.NewRecorder()
		ctrl.CreateBooking(rec, postJSON(t, "/bookings", body))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Equal(t, helpers.ErrCodeBadRequest, resp.Error.Code)
		require.Contains(t, resp.Error.Message, "not-an-email")
	})

	t.Run("404 when the referenced event does not exist", func(t *testing.T) {
		svc := &fakeBookingService{
			createFn: func(ctx context.Context, eventID, email string) (*domain.Booking, error) {
				return nil, domain.ErrEventNotFound
			},
		}
		ctrl := NewBookingController(testLogger(), svc)

		rec := httptest.NewRecorder()
		ctrl.CreateBooking(rec, postJSON(t, "/bookings", body))

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Equal(t, "referenced event does not exist", resp.Error.Message)
	})

	t.Run("500 on unexpected error", func(t *testing.T) {
		svc := &fakeBookingService{
			createFn: func(ctx context.Context, eventID, email string) (*domain.Booking, error) {
				return nil, errors.New("connection reset")
			},
		}
		ctrl := NewBookingController(testLogger(), svc)

		rec := httptest.NewRecorder()
		ctrl.CreateBooking(rec, postJSON(t, "/bookings", body))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Equal(t, helpers.ErrCodeInternalError, resp.Error.Code)
	})
}

func TestBookingController_UpdateBooking(t *testing.T) {
	t.Run("200 on success", func(t *testing.T) {
		svc := &fakeBookingService{
			updateFn: func(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error) {
				return &domain.Booking{ID: id, Email: *patch.Email}, nil
			},
		}
		ctrl := NewBookingController(testLogger(), svc)

		req := postJSON(t, "/bookings/bk-1", map[string]any{"email": "new@example.com"})
		req.Method = http.MethodPatch
		req.SetPathValue("bookingID", "bk-1")
		rec := httptest.NewRecorder()
		ctrl.UpdateBooking(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("404 when the booking is missing", func(t *testing.T) {
		svc := &fakeBookingService{
			updateFn: func(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error) {
				return nil, domain.ErrNotFound
			},
		}
		ctrl := NewBookingController(testLogger(), svc)

		req := postJSON(t, "/bookings/bk-missing", map[string]any{"email": "new@example.com"})
		req.Method = http.MethodPatch
		req.SetPathValue("bookingID", "bk-missing")
		rec := httptest.NewRecorder()
		ctrl.UpdateBooking(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeEnvelope(t, rec.Body)
		require.Equal(t, "booking not found", resp.Error.Message)
	})
}

func TestBookingController_ListEventBookings(t *testing.T) {
	svc := &fakeBookingService{
		listFn: func(ctx context.Context, eventID string) ([]*domain.Booking, error) {
			return []*domain.Booking{{ID: "bk-1", EventID: eventID}}, nil
		},
	}
	ctrl := NewBookingController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/events/ev-1/bookings", nil)
	req.SetPathValue("eventID", "ev-1")
	rec := httptest.NewRecorder()
	ctrl.ListEventBookings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec.Body)
	require.Len(t, resp.Data.([]any), 1)
}

func TestBookingController_CancelBooking(t *testing.T) {
	svc := &fakeBookingService{
		cancelFn: func(ctx context.Context, id string) error {
			if id != "bk-1" {
				return domain.ErrNotFound
			}
			return nil
		},
	}
	ctrl := NewBookingController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodDelete, "/bookings/bk-1", nil)
	req.SetPathValue("bookingID", "bk-1")
	rec := httptest.NewRecorder()
	ctrl.CancelBooking(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/bookings/bk-missing", nil)
	req.SetPathValue("bookingID", "bk-missing")
	rec = httptest.NewRecorder()
	ctrl.CancelBooking(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
