package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Resolver вычисляет цену слота по разрешённому набору правил
// Чистая функция от RuleSet: никакого состояния и обращений к хранилищу.
//
// Порядок разрешения (первое совпадение выигрывает):
//  1. Праздничное правило с явной ценой для интервала - цена окончательная
//  2. Праздничное правило с multiplier/minimum_price поверх базовой ставки:
//     price = max(round(base * multiplier), minimum_price)
//  3. Таблица тарифов будний/выходной по дню недели, интервал по времени начала
//
// Floor применяется ПОСЛЕ множителя - зафиксированное решение, проверяется тестом.
type Resolver struct {
	rules *domain.RuleSet
}

// NewResolver создает резолвер поверх набора правил
func NewResolver(rules *domain.RuleSet) *Resolver {
	return &Resolver{rules: rules}
}

// PriceFor возвращает цену слота в копейках для даты и времени начала
func (r *Resolver) PriceFor(date time.Time, start types.TimeString) (int64, error) {
	if err := start.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}

	holiday := r.holidayRuleFor(date)

	// Явная праздничная цена окончательна, multiplier и floor не применяются
	if holiday != nil {
		if price, ok := bucketPrice(holiday.PriceOverride, start); ok {
			return price, nil
		}
	}

	base, err := r.basePrice(date, start)
	if err != nil {
		return 0, err
	}

	if holiday == nil {
		return base, nil
	}

	return applyHoliday(base, holiday), nil
}

// AdjustForDemand применяет динамическую корректировку к уже разрешённой цене
// Советующая операция на момент генерации; сгенерированные ранее слоты
// не пересчитываются
func (r *Resolver) AdjustForDemand(price int64, utilization float64) int64 {
	cfg := r.rules.Generation.DynamicPricing
	if !cfg.Enabled {
		return price
	}

	adjusted := price
	switch {
	case utilization >= cfg.HighThreshold:
		adjusted = int64(math.Round(float64(price) * cfg.HighMultiplier))
		if cfg.MaxPriceCents > 0 && adjusted > cfg.MaxPriceCents {
			adjusted = cfg.MaxPriceCents
		}
	case utilization <= cfg.LowThreshold:
		adjusted = int64(math.Round(float64(price) * cfg.LowMultiplier))
		if adjusted < cfg.MinPriceCents {
			adjusted = cfg.MinPriceCents
		}
	}

	return adjusted
}

// basePrice ищет цену в таблице тарифов по классу дня и времени начала
func (r *Resolver) basePrice(date time.Time, start types.TimeString) (int64, error) {
	table := r.rules.WeekdayTable
	if domain.IsWeekend(date) {
		table = r.rules.WeekendTable
	}

	if price, ok := bucketPrice(table.Buckets, start); ok {
		return price, nil
	}

	return 0, fmt.Errorf("%w: date=%s start=%s", ErrNoPriceBucket, date.Format(domain.DateFormat), start)
}

// holidayRuleFor возвращает первое праздничное правило, содержащее дату
// Правила приходят из репозитория в детерминированном порядке (type, key)
func (r *Resolver) holidayRuleFor(date time.Time) *domain.HolidayRule {
	day := date.Format(domain.DateFormat)
	for i := range r.rules.Holidays {
		for _, d := range r.rules.Holidays[i].Dates {
			if d == day {
				return &r.rules.Holidays[i]
			}
		}
	}
	return nil
}

func bucketPrice(buckets []domain.PriceBucket, start types.TimeString) (int64, bool) {
	for _, b := range buckets {
		if b.Contains(start) {
			return b.PriceCents, true
		}
	}
	return 0, false
}

func applyHoliday(base int64, holiday *domain.HolidayRule) int64 {
	price := base
	if holiday.Multiplier > 0 {
		price = int64(math.Round(float64(base) * holiday.Multiplier))
	}
	if price < holiday.MinimumPriceCents {
		price = holiday.MinimumPriceCents
	}
	return price
}
