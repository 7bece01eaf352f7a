package domain

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// RuleType тип бизнес-правила; закрытое множество, неизвестные типы отклоняются
type RuleType string

const (
	RuleTypePricingTimeTable RuleType = "pricing_time_table"
	RuleTypePricingHoliday   RuleType = "pricing_holiday"
	RuleTypeCourtConfig      RuleType = "court_config"
	RuleTypeGenerationConfig RuleType = "generation_config"
)

// KnownRuleTypes список поддерживаемых типов правил
var KnownRuleTypes = []RuleType{
	RuleTypePricingTimeTable,
	RuleTypePricingHoliday,
	RuleTypeCourtConfig,
	RuleTypeGenerationConfig,
}

// Ключи правил pricing_time_table
const (
	RuleKeyWeekday = "weekday"
	RuleKeyWeekend = "weekend"
)

// RuleKeyDefault ключ для court_config и generation_config
const RuleKeyDefault = "default"

// BusinessRule versioned, typed business rule document
// At most one active rule per (type, key) may be effective on any given date;
// a second one is a configuration error, never a silent pick.
type BusinessRule struct {
	ID             int64
	RuleType       RuleType
	RuleKey        string
	Value          json.RawMessage
	EffectiveFrom  time.Time
	EffectiveUntil *time.Time
	Active         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEffectiveOn returns true if the rule is active and its date range covers date
func (r *BusinessRule) IsEffectiveOn(date time.Time) bool {
	if !r.Active {
		return false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	from := time.Date(r.EffectiveFrom.Year(), r.EffectiveFrom.Month(), r.EffectiveFrom.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(from) {
		return false
	}
	if r.EffectiveUntil != nil {
		until := time.Date(r.EffectiveUntil.Year(), r.EffectiveUntil.Month(), r.EffectiveUntil.Day(), 0, 0, 0, 0, time.UTC)
		if day.After(until) {
			return false
		}
	}
	return true
}

// PriceBucket ценовой интервал таблицы тарифов, полуинтервал [Start, End)
type PriceBucket struct {
	Start      types.TimeString `json:"start"`
	End        types.TimeString `json:"end"`
	PriceCents int64            `json:"price_cents"`
}

// Contains returns true if the bucket covers the given start time
func (b PriceBucket) Contains(t types.TimeString) bool {
	return !t.IsBefore(b.Start) && t.IsBefore(b.End)
}

// TimeTableRule документ правила pricing_time_table
type TimeTableRule struct {
	Buckets []PriceBucket `json:"buckets"`
}

// HolidayRule документ правила pricing_holiday
// PriceOverride, если задан, даёт окончательную цену для интервала.
// Иначе price = max(round(base * Multiplier), MinimumPriceCents).
type HolidayRule struct {
	Dates             []string      `json:"dates"` // "YYYY-MM-DD"
	Multiplier        float64       `json:"multiplier,omitempty"`
	MinimumPriceCents int64         `json:"minimum_price_cents,omitempty"`
	PriceOverride     []PriceBucket `json:"price_override,omitempty"`
}

// CourtConfig конфигурация одного корта
// StartOffsetMinutes сдвигает сетку слотов корта относительно начала рабочего дня;
// всегда строго меньше длительности слота, иначе сетки кортов пересекались бы.
type CourtConfig struct {
	Name               string `json:"name"`
	StartOffsetMinutes int    `json:"start_offset_minutes"`
}

// CourtConfigRule документ правила court_config
type CourtConfigRule struct {
	Courts []CourtConfig `json:"courts"`
}

// DynamicPricingConfig параметры динамического ценообразования
// Применяется только в момент генерации, уже созданные слоты не пересчитываются.
type DynamicPricingConfig struct {
	Enabled        bool    `json:"enabled"`
	HighThreshold  float64 `json:"high_threshold"`
	LowThreshold   float64 `json:"low_threshold"`
	HighMultiplier float64 `json:"high_multiplier"`
	LowMultiplier  float64 `json:"low_multiplier"`
	MaxPriceCents  int64   `json:"max_price_cents"`
	MinPriceCents  int64   `json:"min_price_cents"`
}

// GenerationConfigRule документ правила generation_config
type GenerationConfigRule struct {
	SlotDurationMinutes int                  `json:"slot_duration_minutes"`
	OperatingStartHour  int                  `json:"operating_start_hour"`
	OperatingEndHour    int                  `json:"operating_end_hour"`
	HorizonDays         int                  `json:"horizon_days"`
	DynamicPricing      DynamicPricingConfig `json:"dynamic_pricing"`
}

// RuleSet разрешённый набор правил, действующих на конкретную дату
// Единственный вход Pricing Resolver и Slot Generator.
type RuleSet struct {
	WeekdayTable TimeTableRule
	WeekendTable TimeTableRule
	Holidays     []HolidayRule
	Courts       []CourtConfig
	Generation   GenerationConfigRule
}

// IsWeekend returns true for Saturday and Sunday
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
