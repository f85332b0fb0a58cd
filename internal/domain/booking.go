package domain

import (
	"context"
	"time"
)

// Booking represents a reservation of one email address against one event.
// Email is stored trimmed and lowercased. Many bookings may reference one
// event; deleting an event does not delete its bookings.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingPatch carries the fields being changed on update. Nil fields are
// unchanged. The referential check against events is re-run only when
// EventID is set.
type BookingPatch struct {
	EventID *string `json:"event_id"`
	Email   *string `json:"email"`
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Booking, error)
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id string) error
}

// BookingService defines the business logic for bookings, including the
// pre-commit referential existence check against the event collection.
type BookingService interface {
	CreateBooking(ctx context.Context, eventID, email string) (*Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, patch BookingPatch) (*Booking, error)
	ListEventBookings(ctx context.Context, eventID string) ([]*Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
}
