package generate_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	generateSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/generate_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDateRange   = "некорректный диапазон дат"
	msgHorizonExceeded    = "диапазон выходит за горизонт генерации"
	msgInvalidRules       = "конфигурация правил не позволяет сгенерировать слоты"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /admin/slots/generate - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrInvalidInput), errors.Is(err, generateSlots.ErrInvalidDateRange):
			h.logger.Warn("POST /admin/slots/generate - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, generateSlots.ErrHorizonExceeded):
			h.logger.Warn("POST /admin/slots/generate - Horizon exceeded: %v", err)
			handlers.RespondBadRequest(w, msgHorizonExceeded)

		case errors.Is(err, generateSlots.ErrConfiguration):
			// Противоречивые правила - ошибка конфигурации, не запроса
			h.logger.Error("POST /admin/slots/generate - Rules configuration error: %v", err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidRules)

		default:
			h.logger.Error("POST /admin/slots/generate - Generation failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots/generate - Generated: created=%d, updated=%d, skipped=%d",
		result.SlotsCreated, result.SlotsUpdated, result.PairsSkipped)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
