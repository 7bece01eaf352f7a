package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/rules/models"
)

// Service сервис разрешения и администрирования бизнес-правил
// Превращает сырые JSONB-документы в закрытое множество типизированных правил;
// неизвестные и некорректные формы отклоняются на этапе загрузки
type Service struct {
	rulesRepo RulesRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(rulesRepo RulesRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		rulesRepo: rulesRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// ResolveForDate собирает набор правил, действующих на указанную дату
// Возвращает ErrRuleConflict, если для (type, key) действует более одного
// активного правила, и ErrMissingRule, если нет обязательных правил
func (s *Service) ResolveForDate(ctx context.Context, date time.Time) (*domain.RuleSet, error) {
	raw, err := s.rulesRepo.ListEffectiveOn(ctx, date)
	if err != nil {
		s.logger.Error("ResolveForDate: failed to list rules for %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ResolveForDate - repository error: %v", ErrInternal, err)
	}

	if err := checkDuplicates(raw); err != nil {
		s.logger.Error("ResolveForDate: %v", err)
		return nil, err
	}

	ruleSet, err := buildRuleSet(raw)
	if err != nil {
		s.logger.Error("ResolveForDate: failed to build rule set for %s: %v", date.Format(domain.DateFormat), err)
		return nil, err
	}

	s.logger.Info("ResolveForDate: resolved %d rules for %s (%d courts, %d holiday rules)",
		len(raw), date.Format(domain.DateFormat), len(ruleSet.Courts), len(ruleSet.Holidays))

	return ruleSet, nil
}

// List возвращает все правила для административного просмотра
func (s *Service) List(ctx context.Context) (*models.RuleListResponse, error) {
	raw, err := s.rulesRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRuleList(raw), nil
}

// Update заменяет активное правило (type, key) новым документом
// Старое правило деактивируется, новое создается в одной транзакции,
// так что на каждую дату остается не более одного активного правила
func (s *Service) Update(ctx context.Context, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	ruleType := domain.RuleType(req.RuleType)

	if !isKnownRuleType(ruleType) {
		s.logger.Warn("Update: unknown rule type %q", req.RuleType)
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleType, req.RuleType)
	}
	if req.RuleKey == "" {
		return nil, fmt.Errorf("%w: rule key is required", ErrInvalidInput)
	}

	// Валидируем документ до записи, битые правила не попадают в хранилище
	if err := validateDocument(ruleType, req.Value); err != nil {
		s.logger.Warn("Update: invalid document for %s/%s: %v", req.RuleType, req.RuleKey, err)
		return nil, err
	}

	effectiveFrom := time.Now().UTC()
	if req.EffectiveFrom != nil {
		parsed, err := time.Parse(domain.DateFormat, *req.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid effective_from: %v", ErrInvalidInput, err)
		}
		effectiveFrom = parsed
	}

	rule := &domain.BusinessRule{
		RuleType:      ruleType,
		RuleKey:       req.RuleKey,
		Value:         req.Value,
		EffectiveFrom: effectiveFrom,
		Active:        true,
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.rulesRepo.DeactivateByTypeAndKey(txCtx, ruleType, req.RuleKey); err != nil {
			return fmt.Errorf("%w: Update - deactivate previous rule: %v", ErrInternal, err)
		}
		if _, err := s.rulesRepo.Create(txCtx, rule); err != nil {
			return fmt.Errorf("%w: Update - create rule: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Update: transaction failed for %s/%s: %v", req.RuleType, req.RuleKey, err)
		return nil, err
	}

	s.logger.Info("Update: rule %s/%s replaced, new id=%d", req.RuleType, req.RuleKey, rule.ID)
	return models.FromDomainRule(rule), nil
}

// checkDuplicates проверяет инвариант "не более одного активного правила на (type, key)"
func checkDuplicates(rules []*domain.BusinessRule) error {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		key := string(r.RuleType) + "/" + r.RuleKey
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrRuleConflict, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func isKnownRuleType(t domain.RuleType) bool {
	for _, known := range domain.KnownRuleTypes {
		if t == known {
			return true
		}
	}
	return false
}
