package reconcile_expired

import (
	"context"

	reconcileExpired "github.com/m04kA/SMC-CourtBookingService/internal/usecase/reconcile_expired"
)

type ReconcileExpiredUseCase interface {
	Execute(ctx context.Context) (*reconcileExpired.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
