package reconcile_expired

import (
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
)

// ReconcileResponse HTTP ответ с результатом reconcile-прохода
type ReconcileResponse struct {
	Released int `json:"released"`
}

type Handler struct {
	useCase ReconcileExpiredUseCase
	logger  Logger
}

func NewHandler(useCase ReconcileExpiredUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/reconcile-expired
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		h.logger.Error("POST /admin/bookings/reconcile-expired - Sweep failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/bookings/reconcile-expired - Released %d bookings", result.Released)
	handlers.RespondJSON(w, http.StatusOK, ReconcileResponse{Released: result.Released})
}
