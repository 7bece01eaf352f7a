package finalize_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
)

// Причина отмены для локально истёкшей платёжной сессии
const reasonPaymentExpired = "payment session expired"

// UseCase use case финализации платежа по уведомлению шлюза
//
// Уведомления доставляются минимум один раз, порядок не гарантирован, поэтому
// каждая ветка идемпотентна: повторное success по подтверждённому бронированию
// и повторное expired по отменённому - no-op. Бронирование читается с
// блокировкой строки (FOR UPDATE), так что конкурирующие доставки и
// reconcile-проход сериализуются на ней.
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет финализацию платежа
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FinalizePayment: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("FinalizePayment: reference=%s outcome=%s", req.PaymentReference, req.Outcome)

	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByPaymentReference(txCtx, req.PaymentReference)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				// Неизвестная ссылка не ошибка: шлюз мог прислать уведомление
				// по сессии, чья транзакция у нас откатилась
				uc.logger.Warn("FinalizePayment: unknown reference=%s, ignoring", req.PaymentReference)
				result = &Response{Status: "unknown", Changed: false}
				return nil
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		switch req.Outcome {
		case OutcomeSuccess:
			result, err = uc.applySuccess(txCtx, booking)
		case OutcomeExpired:
			result, err = uc.applyExpired(txCtx, booking)
		default:
			err = fmt.Errorf("%w: %q", ErrInvalidOutcome, req.Outcome)
		}
		return err
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// applySuccess переводит pending-бронирование в confirmed
func (uc *UseCase) applySuccess(ctx context.Context, booking *domain.Booking) (*Response, error) {
	switch booking.Status {
	case domain.StatusPending:
		if err := uc.bookingRepo.Confirm(ctx, booking.ID); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotAlreadyConfirmed) {
				uc.logger.Error("FinalizePayment: INTEGRITY VIOLATION, slot id=%d double-confirmed: %v",
					booking.SlotID, err)
				return nil, fmt.Errorf("%w: %v", ErrIntegrityViolation, err)
			}
			return nil, fmt.Errorf("%w: failed to confirm booking id=%d: %v", ErrInternal, booking.ID, err)
		}
		uc.logger.Info("FinalizePayment: booking id=%d confirmed", booking.ID)
		return &Response{BookingID: booking.ID, Status: string(domain.StatusConfirmed), Changed: true}, nil

	case domain.StatusConfirmed, domain.StatusCompleted:
		uc.logger.Info("FinalizePayment: booking id=%d already confirmed, duplicate delivery", booking.ID)
		return &Response{BookingID: booking.ID, Status: string(booking.Status), Changed: false}, nil

	default:
		// Платёж прошёл, но сессия у нас уже истекла и бронирование снято.
		// Возврат денег - задача оператора, ядро состояние не трогает
		uc.logger.Warn("FinalizePayment: success for booking id=%d in status=%s, ignoring",
			booking.ID, booking.Status)
		return &Response{BookingID: booking.ID, Status: string(booking.Status), Changed: false}, nil
	}
}

// applyExpired снимает pending-бронирование и возвращает слот в продажу
func (uc *UseCase) applyExpired(ctx context.Context, booking *domain.Booking) (*Response, error) {
	switch booking.Status {
	case domain.StatusPending:
		if err := uc.bookingRepo.Cancel(ctx, booking.ID, reasonPaymentExpired); err != nil {
			return nil, fmt.Errorf("%w: failed to cancel booking id=%d: %v", ErrInternal, booking.ID, err)
		}
		if err := uc.slotRepo.Release(ctx, booking.SlotID); err != nil {
			return nil, fmt.Errorf("%w: failed to release slot id=%d: %v", ErrInternal, booking.SlotID, err)
		}
		uc.logger.Info("FinalizePayment: booking id=%d expired, slot id=%d released", booking.ID, booking.SlotID)
		return &Response{BookingID: booking.ID, Status: string(domain.StatusCancelled), Changed: true}, nil

	case domain.StatusCancelled:
		uc.logger.Info("FinalizePayment: booking id=%d already cancelled, duplicate delivery", booking.ID)
		return &Response{BookingID: booking.ID, Status: string(booking.Status), Changed: false}, nil

	default:
		uc.logger.Warn("FinalizePayment: expired for booking id=%d in status=%s, ignoring",
			booking.ID, booking.Status)
		return &Response{BookingID: booking.ID, Status: string(booking.Status), Changed: false}, nil
	}
}
