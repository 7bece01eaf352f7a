package reconcile_expired

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeBookingRepo struct {
	bookings []*domain.Booking
	// listAll отдаёт все бронирования без фильтра, как если бы выборка
	// вернула лишних кандидатов
	listAll bool
}

func (f *fakeBookingRepo) ListExpiredPending(_ context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	if f.listAll {
		return f.bookings, nil
	}
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.Status == domain.StatusPending && b.CreatedAt.Before(cutoff) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	for _, b := range f.bookings {
		if b.ID == id {
			if b.Status != domain.StatusPending && b.Status != domain.StatusConfirmed {
				return bookingRepo.ErrInvalidTransition
			}
			b.Status = domain.StatusCancelled
			b.CancellationReason = &reason
			return nil
		}
	}
	return bookingRepo.ErrBookingNotFound
}

type fakeSlotRepo struct {
	released map[int64]int
}

func (f *fakeSlotRepo) Release(_ context.Context, id int64) error {
	f.released[id]++
	return nil
}

func booking(id, slotID int64, status domain.BookingStatus, age time.Duration, now time.Time) *domain.Booking {
	return &domain.Booking{
		ID:               id,
		SlotID:           slotID,
		PaymentReference: "ref",
		Status:           status,
		CreatedAt:        now.Add(-age),
	}
}

func TestExecute_ReleasesOnlyExpiredPending(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	ttl := 15 * time.Minute

	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, 101, domain.StatusPending, 20*time.Minute, now),   // просрочено
		booking(2, 102, domain.StatusPending, 5*time.Minute, now),    // ещё в окне оплаты
		booking(3, 103, domain.StatusConfirmed, time.Hour, now),      // оплачено
		booking(4, 104, domain.StatusPending, 16*time.Minute, now),   // просрочено
		booking(5, 105, domain.StatusCancelled, 2*time.Hour, now),    // уже снято
	}}
	slots := &fakeSlotRepo{released: make(map[int64]int)}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, ttl, nopLogger{})
	uc.timeProvider = fixedTime{now: now}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Released)
	assert.Equal(t, map[int64]int{101: 1, 104: 1}, slots.released)

	assert.Equal(t, domain.StatusCancelled, bookings.bookings[0].Status)
	assert.Equal(t, domain.StatusPending, bookings.bookings[1].Status)
	assert.Equal(t, domain.StatusConfirmed, bookings.bookings[2].Status)
	assert.Equal(t, domain.StatusCancelled, bookings.bookings[3].Status)

	require.NotNil(t, bookings.bookings[0].CancellationReason)
	assert.Equal(t, "payment session expired", *bookings.bookings[0].CancellationReason)
}

func TestExecute_PredicateFiltersCandidates(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	ttl := 15 * time.Minute

	// Выборка отдаёт всё подряд; снимаются только просроченные pending
	bookings := &fakeBookingRepo{
		listAll: true,
		bookings: []*domain.Booking{
			booking(1, 101, domain.StatusPending, time.Hour, now),
			booking(2, 102, domain.StatusPending, 5*time.Minute, now),
			booking(3, 103, domain.StatusConfirmed, time.Hour, now),
			booking(4, 104, domain.StatusPending, ttl, now), // ровно на границе окна
		},
	}
	slots := &fakeSlotRepo{released: make(map[int64]int)}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, ttl, nopLogger{})
	uc.timeProvider = fixedTime{now: now}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Released)
	assert.Equal(t, map[int64]int{101: 1}, slots.released)
	assert.Equal(t, domain.StatusPending, bookings.bookings[1].Status)
	assert.Equal(t, domain.StatusConfirmed, bookings.bookings[2].Status)
	assert.Equal(t, domain.StatusPending, bookings.bookings[3].Status)
}

func TestExecute_NothingToSweep(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, 101, domain.StatusPending, time.Minute, now),
	}}
	slots := &fakeSlotRepo{released: make(map[int64]int)}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, 15*time.Minute, nopLogger{})
	uc.timeProvider = fixedTime{now: now}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, resp.Released)
	assert.Empty(t, slots.released)
}

func TestExecute_Rerun_Idempotent(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, 101, domain.StatusPending, time.Hour, now),
	}}
	slots := &fakeSlotRepo{released: make(map[int64]int)}

	uc := NewUseCase(bookings, slots, passthroughTxManager{}, 15*time.Minute, nopLogger{})
	uc.timeProvider = fixedTime{now: now}

	first, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Released)

	second, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Released)
	assert.Equal(t, 1, slots.released[101])
}
