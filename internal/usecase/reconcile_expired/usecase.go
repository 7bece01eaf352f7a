package reconcile_expired

import (
	"context"
	"fmt"
	"time"
)

// Причина отмены для бронирований, переживших окно оплаты
const reasonSessionExpired = "payment session expired"

// UseCase use case снятия просроченных pending-бронирований
//
// Страховка от потерянных уведомлений шлюза: pending-бронирования старше окна
// оплаты снимаются, их слоты возвращаются в продажу. Запускается внешним
// планировщиком по HTTP, собственного таймера у сервиса нет.
//
// Выборка блокирует строки (FOR UPDATE), поэтому проход не гоняется
// с конкурентным finalize по тем же бронированиям: подтверждение либо
// успевает до выборки, либо ждёт конца транзакции и видит cancelled.
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	sessionTTL   time.Duration
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	sessionTTL time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// Execute выполняет reconcile-проход по просроченным бронированиям
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now()
	cutoff := now.Add(-uc.sessionTTL)
	uc.logger.Info("ReconcileExpired: sweeping pending bookings created before %s", cutoff.Format(time.RFC3339))

	resp := &Response{}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		candidates, err := uc.bookingRepo.ListExpiredPending(txCtx, cutoff)
		if err != nil {
			return fmt.Errorf("%w: failed to list expired bookings: %v", ErrInternal, err)
		}

		for _, booking := range candidates {
			// Выборка по cutoff лишь сужает кандидатов, решение о снятии
			// принимает доменный предикат на заблокированной строке
			if !booking.IsExpiredAt(now, uc.sessionTTL) {
				continue
			}

			if err := uc.bookingRepo.Cancel(txCtx, booking.ID, reasonSessionExpired); err != nil {
				return fmt.Errorf("%w: failed to cancel booking id=%d: %v", ErrInternal, booking.ID, err)
			}
			if err := uc.slotRepo.Release(txCtx, booking.SlotID); err != nil {
				return fmt.Errorf("%w: failed to release slot id=%d: %v", ErrInternal, booking.SlotID, err)
			}
			uc.logger.Info("ReconcileExpired: booking id=%d expired, slot id=%d released",
				booking.ID, booking.SlotID)
			resp.Released++
		}

		return nil
	})

	if err != nil {
		uc.logger.Error("ReconcileExpired: sweep failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ReconcileExpired: done, released=%d", resp.Released)
	return resp, nil
}
