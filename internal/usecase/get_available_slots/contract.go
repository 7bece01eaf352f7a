package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByFilter(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
