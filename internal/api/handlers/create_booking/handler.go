package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные бронирования"
	msgSlotNotFound       = "слот не найден"
	msgSlotNotAvailable   = "выбранный слот уже занят"
	msgPaymentUnavailable = "платёжный сервис временно недоступен, попробуйте позже"
	msgPaymentRejected    = "платёжная сессия отклонена"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Info("POST /bookings - Slot not available: slot_id=%d", req.SlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrPaymentGatewayUnavailable):
			h.logger.Error("POST /bookings - Payment gateway unavailable: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentUnavailable)

		case errors.Is(err, createBooking.ErrPaymentRejected):
			h.logger.Warn("POST /bookings - Payment rejected: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgPaymentRejected)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, slot_id=%d", result.BookingID, req.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
