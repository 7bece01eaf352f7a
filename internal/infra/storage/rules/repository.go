package rules

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бизнес-правилами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListEffectiveOn получает все активные правила, действующие на указанную дату
// Разбор и валидация документов выполняются в сервисе правил;
// репозиторий возвращает сырые записи
func (r *Repository) ListEffectiveOn(ctx context.Context, date time.Time) ([]*domain.BusinessRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	day := date.Format(domain.DateFormat)

	query, args, err := psqlbuilder.Select(
		"id",
		"rule_type",
		"rule_key",
		"value",
		"effective_from",
		"effective_until",
		"active",
		"created_at",
		"updated_at",
	).
		From("business_rules").
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.LtOrEq{"effective_from": day}).
		Where(squirrel.Or{
			squirrel.Eq{"effective_until": nil},
			squirrel.GtOrEq{"effective_until": day},
		}).
		OrderBy("rule_type ASC, rule_key ASC, effective_from ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListEffectiveOn - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListEffectiveOn - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// List получает все правила (включая неактивные), для административного просмотра
func (r *Repository) List(ctx context.Context) ([]*domain.BusinessRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"rule_type",
		"rule_key",
		"value",
		"effective_from",
		"effective_until",
		"active",
		"created_at",
		"updated_at",
	).
		From("business_rules").
		OrderBy("rule_type ASC, rule_key ASC, effective_from DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// Create создает новое правило
func (r *Repository) Create(ctx context.Context, rule *domain.BusinessRule) (*domain.BusinessRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("business_rules").
		Columns(
			"rule_type",
			"rule_key",
			"value",
			"effective_from",
			"effective_until",
			"active",
		).
		Values(
			rule.RuleType,
			rule.RuleKey,
			[]byte(rule.Value),
			rule.EffectiveFrom,
			rule.EffectiveUntil,
			rule.Active,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// DeactivateByTypeAndKey снимает флаг active со всех правил (type, key)
// Используется при замене правила новым документом
func (r *Repository) DeactivateByTypeAndKey(ctx context.Context, ruleType domain.RuleType, ruleKey string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("business_rules").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"rule_type": ruleType, "rule_key": ruleKey, "active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeactivateByTypeAndKey - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeactivateByTypeAndKey - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// scanRules сканирует результаты запроса в слайс правил
func (r *Repository) scanRules(rows *sql.Rows) ([]*domain.BusinessRule, error) {
	result := make([]*domain.BusinessRule, 0)

	for rows.Next() {
		var rule domain.BusinessRule
		var value []byte
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.RuleType,
			&rule.RuleKey,
			&value,
			&rule.EffectiveFrom,
			&rule.EffectiveUntil,
			&rule.Active,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}

		rule.Value = value
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		result = append(result, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
