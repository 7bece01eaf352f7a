package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// buildRuleSet собирает типизированный RuleSet из сырых записей правил
// Порядок обязательной комплектности: обе таблицы тарифов, конфигурация кортов
// и параметры генерации; праздничные правила опциональны
func buildRuleSet(raw []*domain.BusinessRule) (*domain.RuleSet, error) {
	ruleSet := &domain.RuleSet{}

	var haveWeekday, haveWeekend, haveCourts, haveGeneration bool

	for _, rule := range raw {
		switch rule.RuleType {
		case domain.RuleTypePricingTimeTable:
			var table domain.TimeTableRule
			if err := decodeStrict(rule.Value, &table); err != nil {
				return nil, invalidDocument(rule, err)
			}
			if err := validateTimeTable(&table); err != nil {
				return nil, invalidDocument(rule, err)
			}
			switch rule.RuleKey {
			case domain.RuleKeyWeekday:
				ruleSet.WeekdayTable = table
				haveWeekday = true
			case domain.RuleKeyWeekend:
				ruleSet.WeekendTable = table
				haveWeekend = true
			default:
				return nil, invalidDocument(rule, fmt.Errorf("unsupported time table key %q", rule.RuleKey))
			}

		case domain.RuleTypePricingHoliday:
			var holiday domain.HolidayRule
			if err := decodeStrict(rule.Value, &holiday); err != nil {
				return nil, invalidDocument(rule, err)
			}
			if err := validateHoliday(&holiday); err != nil {
				return nil, invalidDocument(rule, err)
			}
			ruleSet.Holidays = append(ruleSet.Holidays, holiday)

		case domain.RuleTypeCourtConfig:
			var courts domain.CourtConfigRule
			if err := decodeStrict(rule.Value, &courts); err != nil {
				return nil, invalidDocument(rule, err)
			}
			ruleSet.Courts = courts.Courts
			haveCourts = true

		case domain.RuleTypeGenerationConfig:
			var generation domain.GenerationConfigRule
			if err := decodeStrict(rule.Value, &generation); err != nil {
				return nil, invalidDocument(rule, err)
			}
			if err := validateGeneration(&generation); err != nil {
				return nil, invalidDocument(rule, err)
			}
			ruleSet.Generation = generation
			haveGeneration = true

		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownRuleType, rule.RuleType)
		}
	}

	switch {
	case !haveWeekday:
		return nil, fmt.Errorf("%w: pricing_time_table/weekday", ErrMissingRule)
	case !haveWeekend:
		return nil, fmt.Errorf("%w: pricing_time_table/weekend", ErrMissingRule)
	case !haveCourts:
		return nil, fmt.Errorf("%w: court_config/default", ErrMissingRule)
	case !haveGeneration:
		return nil, fmt.Errorf("%w: generation_config/default", ErrMissingRule)
	}

	// Оффсеты кортов можно проверить только после разбора generation_config
	if err := validateCourts(ruleSet.Courts, ruleSet.Generation.SlotDurationMinutes); err != nil {
		return nil, fmt.Errorf("%w: court_config: %v", ErrInvalidRuleDocument, err)
	}

	return ruleSet, nil
}

// validateDocument валидирует документ правила при администрировании
// Проверки, требующие других правил (оффсеты кортов против длительности слота),
// выполняются при разрешении набора
func validateDocument(ruleType domain.RuleType, value json.RawMessage) error {
	switch ruleType {
	case domain.RuleTypePricingTimeTable:
		var table domain.TimeTableRule
		if err := decodeStrict(value, &table); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleDocument, err)
		}
		if err := validateTimeTable(&table); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleDocument, err)
		}
	case domain.RuleTypePricingHoliday:
		var holiday domain.HolidayRule
		if err := decodeStrict(value, &holiday); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleDocument, err)
		}
		if err := validateHoliday(&holiday); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleDocument, err)
		}
	case domain.RuleTypeCourtConfig:
		var courts domain.CourtConfigRule
		if err := decodeStrict(value, &courts); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleDocument, err)
		}
		if len(courts.Courts) == 0 {
			return fmt.Errorf("%w: at least one court is required", ErrInvalidRuleDocument)
		}
	case domain.RuleTypeGenerationConfig:
		var generation domain.GenerationConfigRule
		if err := decodeStrict(value, &generation); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleDocument, err)
		}
		if err := validateGeneration(&generation); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRuleDocument, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRuleType, ruleType)
	}
	return nil
}

// decodeStrict разбирает JSON документ, отклоняя неизвестные поля
func decodeStrict(value json.RawMessage, target interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(value))
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func invalidDocument(rule *domain.BusinessRule, err error) error {
	return fmt.Errorf("%w: %s/%s: %v", ErrInvalidRuleDocument, rule.RuleType, rule.RuleKey, err)
}

// validateTimeTable проверяет, что интервалы корректны, упорядочены и не пересекаются
// Дыры допустимы только если генератор никогда не создаёт слот с началом в дыре;
// отсутствующий интервал обнаруживается резолвером и валит генерацию слота
func validateTimeTable(table *domain.TimeTableRule) error {
	if len(table.Buckets) == 0 {
		return fmt.Errorf("time table must contain at least one bucket")
	}

	for i, b := range table.Buckets {
		if err := b.Start.Validate(); err != nil {
			return fmt.Errorf("bucket %d: %v", i, err)
		}
		if err := b.End.Validate(); err != nil {
			return fmt.Errorf("bucket %d: %v", i, err)
		}
		if !b.Start.IsBefore(b.End) {
			return fmt.Errorf("bucket %d: start %s must be before end %s", i, b.Start, b.End)
		}
		if b.PriceCents <= 0 {
			return fmt.Errorf("bucket %d: price must be positive", i)
		}
		if i > 0 && table.Buckets[i-1].End.IsAfter(b.Start) {
			return fmt.Errorf("bucket %d overlaps bucket %d", i, i-1)
		}
	}

	return nil
}

func validateHoliday(holiday *domain.HolidayRule) error {
	if len(holiday.Dates) == 0 {
		return fmt.Errorf("holiday rule must list at least one date")
	}
	for _, d := range holiday.Dates {
		if _, err := time.Parse(domain.DateFormat, d); err != nil {
			return fmt.Errorf("invalid holiday date %q", d)
		}
	}
	if holiday.Multiplier < 0 {
		return fmt.Errorf("multiplier must not be negative")
	}
	if holiday.MinimumPriceCents < 0 {
		return fmt.Errorf("minimum price must not be negative")
	}
	if holiday.Multiplier == 0 && holiday.MinimumPriceCents == 0 && len(holiday.PriceOverride) == 0 {
		return fmt.Errorf("holiday rule must define multiplier, minimum price or price override")
	}
	if len(holiday.PriceOverride) > 0 {
		override := domain.TimeTableRule{Buckets: holiday.PriceOverride}
		if err := validateTimeTable(&override); err != nil {
			return fmt.Errorf("price override: %v", err)
		}
	}
	return nil
}

func validateCourts(courts []domain.CourtConfig, slotDurationMinutes int) error {
	if len(courts) == 0 {
		return fmt.Errorf("at least one court is required")
	}

	names := make(map[string]struct{}, len(courts))
	for i, court := range courts {
		if court.Name == "" {
			return fmt.Errorf("court %d: name is required", i)
		}
		if _, ok := names[court.Name]; ok {
			return fmt.Errorf("duplicate court name %q", court.Name)
		}
		names[court.Name] = struct{}{}

		// Оффсет строго меньше длительности слота - иначе сетка корта
		// наложилась бы на соседний тик
		if court.StartOffsetMinutes < 0 || court.StartOffsetMinutes >= slotDurationMinutes {
			return fmt.Errorf("court %q: offset %d must be in [0, %d)",
				court.Name, court.StartOffsetMinutes, slotDurationMinutes)
		}
	}

	return nil
}

func validateGeneration(generation *domain.GenerationConfigRule) error {
	if generation.SlotDurationMinutes < domain.MinSlotDurationMinutes ||
		generation.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("slot duration %d out of range [%d, %d]",
			generation.SlotDurationMinutes, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if generation.OperatingStartHour < domain.MinOperatingHour || generation.OperatingStartHour >= domain.MaxOperatingHour {
		return fmt.Errorf("operating start hour %d out of range", generation.OperatingStartHour)
	}
	if generation.OperatingEndHour <= generation.OperatingStartHour || generation.OperatingEndHour > domain.MaxOperatingHour {
		return fmt.Errorf("operating end hour %d must be after start hour %d",
			generation.OperatingEndHour, generation.OperatingStartHour)
	}
	if generation.HorizonDays < domain.MinHorizonDays || generation.HorizonDays > domain.MaxHorizonDays {
		return fmt.Errorf("horizon %d out of range [%d, %d]",
			generation.HorizonDays, domain.MinHorizonDays, domain.MaxHorizonDays)
	}

	dynamic := generation.DynamicPricing
	if dynamic.Enabled {
		if dynamic.HighThreshold <= dynamic.LowThreshold {
			return fmt.Errorf("dynamic pricing: high threshold must exceed low threshold")
		}
		if dynamic.HighThreshold > 1 || dynamic.LowThreshold < 0 {
			return fmt.Errorf("dynamic pricing: thresholds must be within [0, 1]")
		}
		if dynamic.HighMultiplier < 1 {
			return fmt.Errorf("dynamic pricing: high multiplier must be >= 1")
		}
		if dynamic.LowMultiplier <= 0 || dynamic.LowMultiplier > 1 {
			return fmt.Errorf("dynamic pricing: low multiplier must be in (0, 1]")
		}
	}

	return nil
}
