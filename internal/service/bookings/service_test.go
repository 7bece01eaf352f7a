package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBookingRepo struct {
	bookings  map[int64]*domain.Booking
	cancelled map[int64]string
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{
		bookings:  make(map[int64]*domain.Booking),
		cancelled: make(map[int64]string),
	}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if !b.CanBeCancelled() {
		return bookingRepo.ErrInvalidTransition
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	f.cancelled[id] = reason
	return nil
}

type fakeSlotRepo struct {
	released []int64
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	return &domain.Slot{ID: id}, nil
}

func (f *fakeSlotRepo) Release(_ context.Context, id int64) error {
	f.released = append(f.released, id)
	return nil
}

func TestGetByID(t *testing.T) {
	repo := newFakeBookingRepo(&domain.Booking{
		ID:               7,
		SlotID:           42,
		CustomerName:     "Анна Смирнова",
		PaymentReference: "ref-007",
		AmountCents:      8500,
		Status:           domain.StatusConfirmed,
	})
	svc := NewService(repo, &fakeSlotRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, int64(42), resp.SlotID)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(newFakeBookingRepo(), &fakeSlotRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.GetByID(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ReleasesSlot(t *testing.T) {
	repo := newFakeBookingRepo(&domain.Booking{
		ID:     1,
		SlotID: 42,
		Status: domain.StatusConfirmed,
	})
	slots := &fakeSlotRepo{}
	svc := NewService(repo, slots, passthroughTxManager{}, nopLogger{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{Reason: "планы изменились"})
	require.NoError(t, err)

	assert.Equal(t, "планы изменились", repo.cancelled[1])
	assert.Equal(t, []int64{42}, slots.released)
}

func TestCancel_PendingBooking(t *testing.T) {
	repo := newFakeBookingRepo(&domain.Booking{ID: 1, SlotID: 10, Status: domain.StatusPending})
	slots := &fakeSlotRepo{}
	svc := NewService(repo, slots, passthroughTxManager{}, nopLogger{})

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{Reason: "не успеваю оплатить"})
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, slots.released)
}

func TestCancel_TerminalStatuses(t *testing.T) {
	for _, status := range []domain.BookingStatus{
		domain.StatusCancelled,
		domain.StatusCompleted,
		domain.StatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			repo := newFakeBookingRepo(&domain.Booking{ID: 1, SlotID: 10, Status: status})
			slots := &fakeSlotRepo{}
			svc := NewService(repo, slots, passthroughTxManager{}, nopLogger{})

			err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{Reason: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Empty(t, slots.released)
		})
	}
}

func TestCancel_NotFound(t *testing.T) {
	slots := &fakeSlotRepo{}
	svc := NewService(newFakeBookingRepo(), slots, passthroughTxManager{}, nopLogger{})

	err := svc.Cancel(context.Background(), 404, &models.CancelBookingRequest{Reason: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Empty(t, slots.released)
}
