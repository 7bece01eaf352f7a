package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// RulesService интерфейс сервиса бизнес-правил
type RulesService interface {
	ResolveForDate(ctx context.Context, date time.Time) (*domain.RuleSet, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	UpsertGenerated(ctx context.Context, s *domain.Slot) (bool, error)
	GetUtilization(ctx context.Context, courtName string, date time.Time) (*domain.CourtUtilization, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
