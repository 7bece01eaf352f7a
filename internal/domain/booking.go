package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a reservation of a single slot in the system
// PaymentReference is the globally unique idempotency key that links the booking
// to the payment session and to asynchronous payment notifications.
type Booking struct {
	ID               int64
	SlotID           int64
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	PaymentReference string
	AmountCents      int64
	Status           BookingStatus

	CancellationReason *string
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending returns true if the booking is awaiting a payment outcome
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// IsConfirmed returns true if the booking has been paid for
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a final state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted || b.Status == StatusNoShow
}

// HoldsSlot returns true if the booking currently owns its slot's unavailability
func (b *Booking) HoldsSlot() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusCompleted
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsExpiredAt returns true if a pending booking outlived the payment session window
func (b *Booking) IsExpiredAt(now time.Time, sessionTTL time.Duration) bool {
	return b.Status == StatusPending && now.Sub(b.CreatedAt) > sessionTTL
}
