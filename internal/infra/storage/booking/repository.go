package booking

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

// Код ошибки PostgreSQL unique_violation
const uniqueViolationCode = "23505"

// Имена ограничений из миграций
const (
	constraintPaymentReference = "bookings_payment_reference_unique"
	indexSlotConfirmed         = "idx_bookings_slot_confirmed"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование в статусе pending
// Вызывается только внутри транзакции резервирования, после условного
// захвата слота (slot.Repository.Reserve)
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"slot_id",
			"customer_name",
			"customer_email",
			"customer_phone",
			"payment_reference",
			"amount_cents",
			"status",
		).
		Values(
			b.SlotID,
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.PaymentReference,
			b.AmountCents,
			b.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByPaymentReference получает бронирование по платёжной ссылке
// Внутри транзакции добавляет FOR UPDATE: finalize конкурирует с reconcile
// и повторными доставками одного и того же уведомления
func (r *Repository) GetByPaymentReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"payment_reference": reference}, "GetByPaymentReference")
}

// Confirm переводит pending-бронирование в confirmed
// Условие на статус в самом UPDATE делает повторное подтверждение no-op
// на уровне строк: 0 затронутых строк - ErrInvalidTransition, решение
// об идемпотентности принимает вызывающий usecase
func (r *Repository) Confirm(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("confirmed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%w: Confirm - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Confirm - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

// Cancel переводит бронирование в cancelled с указанием причины
// Разрешён только из pending/confirmed
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

// ListExpiredPending получает pending-бронирования, созданные до cutoff
// Внутри транзакции блокирует строки (FOR UPDATE), чтобы reconcile не гонялся
// с конкурентным finalize по тем же бронированиям
func (r *Repository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns()...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("created_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns()...).
		From("bookings").
		Where(where)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.SlotID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.PaymentReference,
		&b.AmountCents,
		&b.Status,
		&b.CancellationReason,
		&b.ConfirmedAt,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func bookingColumns() []string {
	return []string{
		"id",
		"slot_id",
		"customer_name",
		"customer_email",
		"customer_phone",
		"payment_reference",
		"amount_cents",
		"status",
		"cancellation_reason",
		"confirmed_at",
		"cancelled_at",
		"created_at",
		"updated_at",
	}
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var b domain.Booking
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&b.ID,
			&b.SlotID,
			&b.CustomerName,
			&b.CustomerEmail,
			&b.CustomerPhone,
			&b.PaymentReference,
			&b.AmountCents,
			&b.Status,
			&b.CancellationReason,
			&b.ConfirmedAt,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		b.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// mapUniqueViolation превращает нарушение уникальных ограничений в доменные ошибки
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolationCode {
		return nil
	}

	switch pqErr.Constraint {
	case constraintPaymentReference:
		return fmt.Errorf("%w: %v", ErrDuplicatePaymentReference, err)
	case indexSlotConfirmed:
		return fmt.Errorf("%w: %v", ErrSlotAlreadyConfirmed, err)
	default:
		return fmt.Errorf("%w: unique violation: %v", ErrExecQuery, err)
	}
}
