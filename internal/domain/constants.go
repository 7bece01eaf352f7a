package domain

// Business validation constants
const (
	MinSlotDurationMinutes      = 15
	MaxSlotDurationMinutes      = 240
	MinOperatingHour            = 0
	MaxOperatingHour            = 24
	MinHorizonDays              = 1
	MaxHorizonDays              = 365
	MaxCustomerNameLength       = 200
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SlotHoldingStatuses статусы бронирований, удерживающих слот занятым
// Используется для подсчёта занятости при динамическом ценообразовании
var SlotHoldingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// TerminalStatuses статусы, из которых нет переходов (кроме административных)
var TerminalStatuses = []BookingStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
