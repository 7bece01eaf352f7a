package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusPredicates(t *testing.T) {
	tests := []struct {
		status         BookingStatus
		pending        bool
		confirmed      bool
		terminal       bool
		holdsSlot      bool
		canBeCancelled bool
	}{
		{StatusPending, true, false, false, true, true},
		{StatusConfirmed, false, true, false, true, true},
		{StatusCancelled, false, false, true, false, false},
		{StatusCompleted, false, false, true, true, false},
		{StatusNoShow, false, false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.pending, b.IsPending())
			assert.Equal(t, tt.confirmed, b.IsConfirmed())
			assert.Equal(t, tt.terminal, b.IsTerminal())
			assert.Equal(t, tt.holdsSlot, b.HoldsSlot())
			assert.Equal(t, tt.canBeCancelled, b.CanBeCancelled())
		})
	}
}

// Предикаты и статусные списки для SQL-фильтров обязаны совпадать:
// расхождение означало бы разный учёт занятости в памяти и в запросах
func TestPredicatesMatchStatusLists(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow}

	inList := func(list []BookingStatus, s BookingStatus) bool {
		for _, item := range list {
			if item == s {
				return true
			}
		}
		return false
	}

	for _, status := range all {
		b := &Booking{Status: status}
		assert.Equal(t, inList(SlotHoldingStatuses, status), b.HoldsSlot(), "status %s", status)
		assert.Equal(t, inList(TerminalStatuses, status), b.IsTerminal(), "status %s", status)
	}
}

func TestIsExpiredAt(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	ttl := 15 * time.Minute

	fresh := &Booking{Status: StatusPending, CreatedAt: now.Add(-5 * time.Minute)}
	assert.False(t, fresh.IsExpiredAt(now, ttl))

	// Ровно на границе окна бронирование ещё живо
	boundary := &Booking{Status: StatusPending, CreatedAt: now.Add(-ttl)}
	assert.False(t, boundary.IsExpiredAt(now, ttl))

	expired := &Booking{Status: StatusPending, CreatedAt: now.Add(-ttl - time.Second)}
	assert.True(t, expired.IsExpiredAt(now, ttl))

	// Не-pending статусы не истекают независимо от возраста
	for _, status := range []BookingStatus{StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow} {
		old := &Booking{Status: status, CreatedAt: now.Add(-24 * time.Hour)}
		assert.False(t, old.IsExpiredAt(now, ttl), "status %s", status)
	}
}
