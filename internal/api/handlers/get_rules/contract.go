package get_rules

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/rules/models"
)

type RulesService interface {
	List(ctx context.Context) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
