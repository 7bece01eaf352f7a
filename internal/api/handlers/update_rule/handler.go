package update_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/rules"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/rules/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnknownRuleType    = "неизвестный тип правила"
	msgInvalidDocument    = "некорректный документ правила"
	msgInvalidInput       = "некорректные данные правила"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrUnknownRuleType):
			h.logger.Warn("PUT /admin/rules - Unknown rule type: %v", err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgUnknownRuleType)

		case errors.Is(err, rules.ErrInvalidRuleDocument):
			h.logger.Warn("PUT /admin/rules - Invalid document: %v", err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidDocument)

		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("PUT /admin/rules - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /admin/rules - Failed to update rule: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/rules - Rule %s/%s updated, id=%d", result.RuleType, result.RuleKey, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
