package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/paymentgw"
)

// UseCase use case создания бронирования
//
// Весь путь резервирования выполняется в одной сериализуемой транзакции:
//  1. Условный UPDATE помечает свободный слот занятым. Это единственная
//     точка линеаризации: из N конкурентных запросов ровно один проходит.
//  2. Создаётся pending-бронирование с уникальным payment_reference.
//  3. Создаётся платёжная сессия. Слот к этому моменту уже захвачен,
//     поэтому медленный шлюз не открывает окно двойной продажи.
//
// Любой сбой откатывает транзакцию целиком: слот возвращается в продажу,
// осиротевших бронирований не остаётся.
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	gateway     PaymentGatewayClient
	txManager   TransactionManager
	currency    string
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	gateway PaymentGatewayClient,
	txManager TransactionManager,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		txManager:   txManager,
		currency:    currency,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: slot=%d, customer=%s", req.SlotID, req.CustomerEmail)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	reference := uuid.NewString()
	var result *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Захват слота; никакого чтения с последующей записью
		reserved, err := uc.slotRepo.Reserve(txCtx, req.SlotID)
		if err != nil {
			switch {
			case errors.Is(err, slotRepo.ErrSlotNotFound):
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			case errors.Is(err, slotRepo.ErrSlotNotAvailable):
				uc.logger.Info("CreateBooking: slot id=%d already taken", req.SlotID)
				return ErrSlotNotAvailable
			default:
				uc.logger.Error("CreateBooking: failed to reserve slot id=%d: %v", req.SlotID, err)
				return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
			}
		}

		booking := &domain.Booking{
			SlotID:           reserved.ID,
			CustomerName:     req.CustomerName,
			CustomerEmail:    req.CustomerEmail,
			CustomerPhone:    req.CustomerPhone,
			PaymentReference: reference,
			AmountCents:      reserved.CurrentPriceCents,
			Status:           domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotAlreadyConfirmed) {
				uc.logger.Error("CreateBooking: INTEGRITY VIOLATION, slot id=%d already confirmed: %v", req.SlotID, err)
				return fmt.Errorf("%w: %v", ErrIntegrityViolation, err)
			}
			uc.logger.Error("CreateBooking: failed to create booking for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		session, err := uc.gateway.CreateSession(txCtx, &paymentgw.CreateSessionRequest{
			Reference:     reference,
			AmountCents:   created.AmountCents,
			Currency:      uc.currency,
			Description:   sessionDescription(reserved),
			CustomerEmail: created.CustomerEmail,
		})
		if err != nil {
			switch {
			case errors.Is(err, paymentgw.ErrSessionRejected):
				uc.logger.Warn("CreateBooking: payment session rejected for reference=%s: %v", reference, err)
				return fmt.Errorf("%w: %v", ErrPaymentRejected, err)
			default:
				uc.logger.Error("CreateBooking: payment gateway failed for reference=%s: %v", reference, err)
				return fmt.Errorf("%w: %v", ErrPaymentGatewayUnavailable, err)
			}
		}

		result = &Response{
			BookingID:        created.ID,
			PaymentReference: created.PaymentReference,
			RedirectURL:      session.RedirectURL,
			AmountCents:      created.AmountCents,
			Status:           string(created.Status),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking id=%d created for slot=%d, reference=%s",
		result.BookingID, req.SlotID, result.PaymentReference)

	return result, nil
}

// sessionDescription строит описание платежа для страницы оплаты
func sessionDescription(s *domain.Slot) string {
	return fmt.Sprintf("Court %s, %s %s-%s",
		s.CourtName, s.Date.Format(domain.DateFormat), s.StartTime, s.EndTime)
}
