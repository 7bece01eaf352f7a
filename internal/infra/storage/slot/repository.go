package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL exclusion_violation
const exclusionViolationCode = "23P01"

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertGenerated идемпотентный upsert слота по ключу (court_name, slot_date, start_time)
// Повторная генерация обновляет только цены; is_available и связь с бронированием
// не затрагиваются, уже занятые слоты остаются занятыми.
// Возвращает true, если слот был создан, false - если обновлён существующий.
func (r *Repository) UpsertGenerated(ctx context.Context, s *domain.Slot) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"court_name",
			"slot_date",
			"start_time",
			"end_time",
			"base_price_cents",
			"current_price_cents",
			"is_available",
		).
		Values(
			s.CourtName,
			s.Date,
			s.StartTime,
			s.EndTime,
			s.BasePriceCents,
			s.CurrentPriceCents,
			true,
		).
		Suffix(`ON CONFLICT (court_name, slot_date, start_time) DO UPDATE SET
			base_price_cents = EXCLUDED.base_price_cents,
			current_price_cents = EXCLUDED.current_price_cents,
			updated_at = NOW()
		RETURNING id, is_available, (xmax = 0) AS inserted`).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: UpsertGenerated - build insert query: %v", ErrBuildQuery, err)
	}

	var inserted bool
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.IsAvailable,
		&inserted,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return false, fmt.Errorf("%w: UpsertGenerated - court=%s date=%s start=%s: %v",
				ErrOverlapViolation, s.CourtName, s.Date.Format(domain.DateFormat), s.StartTime, err)
		}
		return false, fmt.Errorf("%w: UpsertGenerated - execute insert: %v", ErrExecQuery, err)
	}

	return inserted, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"court_name",
		"slot_date",
		"start_time",
		"end_time",
		"base_price_cents",
		"current_price_cents",
		"is_available",
		"created_at",
		"updated_at",
	).
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := r.scanSlotRow(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListByFilter получает слоты на дату с опциональной фильтрацией по корту и доступности
func (r *Repository) ListByFilter(ctx context.Context, filter domain.SlotsFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"court_name",
		"slot_date",
		"start_time",
		"end_time",
		"base_price_cents",
		"current_price_cents",
		"is_available",
		"created_at",
		"updated_at",
	).
		From("slots").
		Where(squirrel.Eq{"slot_date": filter.Date}).
		OrderBy("court_name ASC, start_time ASC")

	if filter.CourtName != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"court_name": *filter.CourtName})
	}
	if filter.OnlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_available": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// Reserve атомарно помечает свободный слот занятым
// Условие is_available = TRUE в самом UPDATE - единственная точка линеаризации
// бронирования: из N конкурентных вызовов ровно один получит строку, остальные
// ErrSlotNotAvailable. Чтение с последующей записью здесь недопустимо.
func (r *Repository) Reserve(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_available", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_available": true}).
		Suffix("RETURNING id, court_name, slot_date, start_time, end_time, base_price_cents, current_price_cents, is_available, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	s, err := r.scanSlotRow(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	// Условный UPDATE не нашёл строку: либо слота нет, либо он уже занят
	if _, err := r.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return nil, ErrSlotNotAvailable
}

// Release возвращает слот в продажу
// Идемпотентна: освобождение уже свободного слота - no-op, не ошибка
// (повторная доставка платёжного уведомления не должна падать)
func (r *Repository) Release(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_available", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// GetUtilization получает занятость корта на дату для динамического ценообразования
func (r *Repository) GetUtilization(ctx context.Context, courtName string, date time.Time) (*domain.CourtUtilization, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE NOT is_available)",
	).
		From("slots").
		Where(squirrel.Eq{"court_name": courtName, "slot_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetUtilization - build select query: %v", ErrBuildQuery, err)
	}

	utilization := &domain.CourtUtilization{
		CourtName: courtName,
		Date:      date,
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&utilization.TotalSlots,
		&utilization.BookedSlots,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: GetUtilization - scan counts: %v", ErrScanRow, err)
	}

	return utilization, nil
}

// scanSlotRow сканирует одну строку слота
func (r *Repository) scanSlotRow(row *sql.Row) (*domain.Slot, error) {
	var s domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.CourtName,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.BasePriceCents,
		&s.CurrentPriceCents,
		&s.IsAvailable,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var s domain.Slot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&s.ID,
			&s.CourtName,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.BasePriceCents,
			&s.CurrentPriceCents,
			&s.IsAvailable,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		s.CreatedAt = createdAt.Time
		s.UpdatedAt = updatedAt.Time

		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == exclusionViolationCode
	}
	return false
}
