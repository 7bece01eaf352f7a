package rules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// RulesRepository интерфейс репозитория бизнес-правил
type RulesRepository interface {
	ListEffectiveOn(ctx context.Context, date time.Time) ([]*domain.BusinessRule, error)
	List(ctx context.Context) ([]*domain.BusinessRule, error)
	Create(ctx context.Context, rule *domain.BusinessRule) (*domain.BusinessRule, error)
	DeactivateByTypeAndKey(ctx context.Context, ruleType domain.RuleType, ruleKey string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
