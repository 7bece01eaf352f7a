package create_booking

import (
	createBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP запрос на создание бронирования
type CreateBookingRequest struct {
	SlotID        int64  `json:"slotId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
}

// CreateBookingResponse HTTP ответ с созданным бронированием
type CreateBookingResponse struct {
	BookingID        int64  `json:"bookingId"`
	PaymentReference string `json:"paymentReference"`
	RedirectURL      string `json:"redirectUrl"`
	AmountCents      int64  `json:"amountCents"`
	Status           string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		SlotID:        r.SlotID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		BookingID:        resp.BookingID,
		PaymentReference: resp.PaymentReference,
		RedirectURL:      resp.RedirectURL,
		AmountCents:      resp.AmountCents,
		Status:           resp.Status,
	}
}
