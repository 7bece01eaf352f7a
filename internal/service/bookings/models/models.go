package models

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// BookingResponse бронирование в ответе API
type BookingResponse struct {
	ID               int64  `json:"id"`
	SlotID           int64  `json:"slotId"`
	CustomerName     string `json:"customerName"`
	CustomerEmail    string `json:"customerEmail"`
	CustomerPhone    string `json:"customerPhone"`
	PaymentReference string `json:"paymentReference"`
	AmountCents      int64  `json:"amountCents"`
	Status           string `json:"status"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	ConfirmedAt        *string `json:"confirmedAt,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FromDomainBooking конвертирует доменное бронирование в ответ API
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		SlotID:             b.SlotID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		PaymentReference:   b.PaymentReference,
		AmountCents:        b.AmountCents,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          b.UpdatedAt.Format(time.RFC3339),
	}
	if b.ConfirmedAt != nil {
		confirmedAt := b.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &confirmedAt
	}
	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}
	return resp
}
