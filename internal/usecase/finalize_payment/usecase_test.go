package finalize_payment

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

// fakeBookingRepo повторяет условные UPDATE настоящего репозитория:
// переходы статусов проверяются так же, как WHERE status = ... в SQL
type fakeBookingRepo struct {
	byReference map[string]*domain.Booking
	confirmErr  error
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{byReference: make(map[string]*domain.Booking)}
	for _, b := range bookings {
		repo.byReference[b.PaymentReference] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByPaymentReference(_ context.Context, reference string) (*domain.Booking, error) {
	b, ok := f.byReference[reference]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) find(id int64) *domain.Booking {
	for _, b := range f.byReference {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeBookingRepo) Confirm(_ context.Context, id int64) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	b := f.find(id)
	if b == nil || b.Status != domain.StatusPending {
		return bookingRepo.ErrInvalidTransition
	}
	b.Status = domain.StatusConfirmed
	now := time.Now()
	b.ConfirmedAt = &now
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b := f.find(id)
	if b == nil || (b.Status != domain.StatusPending && b.Status != domain.StatusConfirmed) {
		return bookingRepo.ErrInvalidTransition
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	return nil
}

type fakeSlotRepo struct {
	released map[int64]int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{released: make(map[int64]int)}
}

func (f *fakeSlotRepo) Release(_ context.Context, id int64) error {
	f.released[id]++
	return nil
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:               1,
		SlotID:           42,
		PaymentReference: "ref-001",
		AmountCents:      8500,
		Status:           domain.StatusPending,
		CreatedAt:        time.Now().Add(-time.Minute),
	}
}

func newTestUseCase(bookings *fakeBookingRepo, slots *fakeSlotRepo) *UseCase {
	return NewUseCase(bookings, slots, passthroughTxManager{}, nopLogger{})
}

func TestExecute_SuccessConfirmsPending(t *testing.T) {
	bookings := newFakeBookingRepo(pendingBooking())
	slots := newFakeSlotRepo()
	uc := newTestUseCase(bookings, slots)

	resp, err := uc.Execute(context.Background(), &Request{PaymentReference: "ref-001", Outcome: OutcomeSuccess})
	require.NoError(t, err)

	assert.True(t, resp.Changed)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, domain.StatusConfirmed, bookings.byReference["ref-001"].Status)
	assert.NotNil(t, bookings.byReference["ref-001"].ConfirmedAt)
	assert.Empty(t, slots.released)
}

func TestExecute_SuccessTwice_SecondIsNoop(t *testing.T) {
	bookings := newFakeBookingRepo(pendingBooking())
	uc := newTestUseCase(bookings, newFakeSlotRepo())

	req := &Request{PaymentReference: "ref-001", Outcome: OutcomeSuccess}

	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, string(domain.StatusConfirmed), second.Status)
}

func TestExecute_SuccessAfterLocalExpiry_WarnNoop(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusCancelled
	bookings := newFakeBookingRepo(b)
	uc := newTestUseCase(bookings, newFakeSlotRepo())

	resp, err := uc.Execute(context.Background(), &Request{PaymentReference: "ref-001", Outcome: OutcomeSuccess})
	require.NoError(t, err)

	assert.False(t, resp.Changed)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, domain.StatusCancelled, bookings.byReference["ref-001"].Status)
}

func TestExecute_ExpiredReleasesSlot(t *testing.T) {
	bookings := newFakeBookingRepo(pendingBooking())
	slots := newFakeSlotRepo()
	uc := newTestUseCase(bookings, slots)

	resp, err := uc.Execute(context.Background(), &Request{PaymentReference: "ref-001", Outcome: OutcomeExpired})
	require.NoError(t, err)

	assert.True(t, resp.Changed)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Equal(t, 1, slots.released[42])
	require.NotNil(t, bookings.byReference["ref-001"].CancellationReason)
	assert.Equal(t, "payment session expired", *bookings.byReference["ref-001"].CancellationReason)
}

func TestExecute_ExpiredTwice_SecondIsNoop(t *testing.T) {
	bookings := newFakeBookingRepo(pendingBooking())
	slots := newFakeSlotRepo()
	uc := newTestUseCase(bookings, slots)

	req := &Request{PaymentReference: "ref-001", Outcome: OutcomeExpired}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, 1, slots.released[42], "slot must not be released twice")
}

func TestExecute_ExpiredForConfirmed_WarnNoop(t *testing.T) {
	b := pendingBooking()
	b.Status = domain.StatusConfirmed
	bookings := newFakeBookingRepo(b)
	slots := newFakeSlotRepo()
	uc := newTestUseCase(bookings, slots)

	resp, err := uc.Execute(context.Background(), &Request{PaymentReference: "ref-001", Outcome: OutcomeExpired})
	require.NoError(t, err)

	assert.False(t, resp.Changed)
	assert.Equal(t, domain.StatusConfirmed, bookings.byReference["ref-001"].Status)
	assert.Empty(t, slots.released)
}

func TestExecute_UnknownReference_Noop(t *testing.T) {
	bookings := newFakeBookingRepo()
	uc := newTestUseCase(bookings, newFakeSlotRepo())

	resp, err := uc.Execute(context.Background(), &Request{PaymentReference: "ghost", Outcome: OutcomeSuccess})
	require.NoError(t, err)

	assert.False(t, resp.Changed)
	assert.Equal(t, "unknown", resp.Status)
	assert.Zero(t, resp.BookingID)
}

func TestExecute_DoubleConfirmViolation_Loud(t *testing.T) {
	bookings := newFakeBookingRepo(pendingBooking())
	bookings.confirmErr = bookingRepo.ErrSlotAlreadyConfirmed
	uc := newTestUseCase(bookings, newFakeSlotRepo())

	_, err := uc.Execute(context.Background(), &Request{PaymentReference: "ref-001", Outcome: OutcomeSuccess})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIntegrityViolation)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(newFakeBookingRepo(), newFakeSlotRepo())

	_, err := uc.Execute(context.Background(), &Request{Outcome: OutcomeSuccess})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{PaymentReference: "ref", Outcome: "refunded"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}
