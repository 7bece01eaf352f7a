package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
// Сложные операции (резервирование, finalize, reconcile) живут в usecases;
// здесь простые запросы и явная отмена клиентом
type Service struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование по запросу клиента и возвращает слот в продажу
// Отмена и освобождение слота выполняются в одной транзакции: частичного
// состояния "бронирование отменено, слот занят" не существует
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - get booking: %v", ErrInternal, err)
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.Reason); err != nil {
			if errors.Is(err, bookingRepo.ErrInvalidTransition) {
				return ErrCannotCancel
			}
			return fmt.Errorf("%w: Cancel - cancel booking: %v", ErrInternal, err)
		}

		if err := s.slotRepo.Release(txCtx, booking.SlotID); err != nil {
			return fmt.Errorf("%w: Cancel - release slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Cancel: booking id=%d cancelled, slot released", bookingID)
	return nil
}
