package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Slot represents a fixed-duration, priced, reservable time interval on one court
// The [StartTime, EndTime) interval never overlaps another slot of the same court;
// the fixed-tick generation walk guarantees it structurally, the unique index on
// (court_name, slot_date, start_time) guarantees it in storage.
type Slot struct {
	ID                int64
	CourtName         string
	Date              time.Time
	StartTime         types.TimeString
	EndTime           types.TimeString
	BasePriceCents    int64
	CurrentPriceCents int64
	IsAvailable       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps returns true if the slot's time interval intersects [start, end)
// Touching boundaries do not count as overlap.
func (s *Slot) Overlaps(start, end types.TimeString) bool {
	return s.StartTime.IsBefore(end) && s.EndTime.IsAfter(start)
}

// SlotsFilter фильтр для выборки слотов
type SlotsFilter struct {
	Date          time.Time // Обязательный параметр
	CourtName     *string   // Фильтр по корту (опционально, если nil - все корты)
	OnlyAvailable bool      // Только свободные слоты
}

// CourtUtilization занятость корта на дату, входные данные динамического ценообразования
type CourtUtilization struct {
	CourtName   string
	Date        time.Time
	TotalSlots  int
	BookedSlots int
}

// Ratio returns booked/total, 0 when the court has no generated slots yet
func (u CourtUtilization) Ratio() float64 {
	if u.TotalSlots == 0 {
		return 0
	}
	return float64(u.BookedSlots) / float64(u.TotalSlots)
}
