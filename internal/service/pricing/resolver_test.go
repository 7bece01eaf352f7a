package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func makeBuckets(t *testing.T, triples ...interface{}) []domain.PriceBucket {
	t.Helper()
	require.Equal(t, 0, len(triples)%3)
	result := make([]domain.PriceBucket, 0, len(triples)/3)
	for i := 0; i < len(triples); i += 3 {
		result = append(result, domain.PriceBucket{
			Start:      mustTime(t, triples[i].(string)),
			End:        mustTime(t, triples[i+1].(string)),
			PriceCents: int64(triples[i+2].(int)),
		})
	}
	return result
}

func testRuleSet(t *testing.T) *domain.RuleSet {
	t.Helper()
	return &domain.RuleSet{
		WeekdayTable: domain.TimeTableRule{
			Buckets: makeBuckets(t,
				"07:00", "09:00", 6500,
				"09:00", "17:00", 4000,
				"17:00", "23:00", 8500,
			),
		},
		WeekendTable: domain.TimeTableRule{
			Buckets: makeBuckets(t, "07:00", "23:00", 9000),
		},
	}
}

// Среда 2026-09-02, суббота 2026-09-05
var (
	wednesday = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	saturday  = time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
)

func TestPriceFor_WeekdayBuckets(t *testing.T) {
	resolver := NewResolver(testRuleSet(t))

	tests := []struct {
		name  string
		start string
		want  int64
	}{
		{"morning bucket", "07:00", 6500},
		{"last start of morning bucket", "08:30", 6500},
		{"day bucket boundary", "09:00", 4000},
		{"evening bucket", "17:00", 8500},
		{"late evening", "21:30", 8500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := resolver.PriceFor(wednesday, mustTime(t, tt.start))
			require.NoError(t, err)
			assert.Equal(t, tt.want, price)
		})
	}
}

func TestPriceFor_WeekendTable(t *testing.T) {
	resolver := NewResolver(testRuleSet(t))

	price, err := resolver.PriceFor(saturday, mustTime(t, "17:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(9000), price)
}

func TestPriceFor_NoBucket(t *testing.T) {
	resolver := NewResolver(testRuleSet(t))

	_, err := resolver.PriceFor(wednesday, mustTime(t, "06:00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPriceBucket)
}

func TestPriceFor_HolidayMultiplierThenFloor(t *testing.T) {
	ruleSet := testRuleSet(t)
	ruleSet.Holidays = []domain.HolidayRule{
		{
			Dates:             []string{"2026-09-02"},
			Multiplier:        1.5,
			MinimumPriceCents: 8000,
		},
	}
	resolver := NewResolver(ruleSet)

	// base 8500 * 1.5 = 12750, минимум 8000 не срабатывает:
	// floor применяется после множителя, не до
	price, err := resolver.PriceFor(wednesday, mustTime(t, "17:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(12750), price)

	// base 4000 * 1.5 = 6000, поднимается до минимума 8000
	price, err = resolver.PriceFor(wednesday, mustTime(t, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(8000), price)
}

func TestPriceFor_HolidayOverrideWins(t *testing.T) {
	ruleSet := testRuleSet(t)
	ruleSet.Holidays = []domain.HolidayRule{
		{
			Dates:             []string{"2026-09-02"},
			Multiplier:        2.0,
			MinimumPriceCents: 20000,
			PriceOverride:     makeBuckets(t, "17:00", "23:00", 5550),
		},
	}
	resolver := NewResolver(ruleSet)

	// Явная праздничная цена окончательна: ни множитель, ни минимум не применяются
	price, err := resolver.PriceFor(wednesday, mustTime(t, "17:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(5550), price)

	// Вне override-интервала работает обычная праздничная ветка
	price, err = resolver.PriceFor(wednesday, mustTime(t, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(20000), price)
}

func TestPriceFor_HolidayDoesNotLeakToOtherDates(t *testing.T) {
	ruleSet := testRuleSet(t)
	ruleSet.Holidays = []domain.HolidayRule{
		{Dates: []string{"2026-09-03"}, Multiplier: 3.0},
	}
	resolver := NewResolver(ruleSet)

	price, err := resolver.PriceFor(wednesday, mustTime(t, "17:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(8500), price)
}

func TestAdjustForDemand(t *testing.T) {
	ruleSet := testRuleSet(t)
	ruleSet.Generation.DynamicPricing = domain.DynamicPricingConfig{
		Enabled:        true,
		HighThreshold:  0.8,
		LowThreshold:   0.2,
		HighMultiplier: 1.2,
		LowMultiplier:  0.9,
		MaxPriceCents:  10000,
		MinPriceCents:  3000,
	}
	resolver := NewResolver(ruleSet)

	tests := []struct {
		name        string
		price       int64
		utilization float64
		want        int64
	}{
		{"high demand", 8000, 0.9, 9600},
		{"high demand capped", 9000, 0.85, 10000},
		{"low demand", 4000, 0.1, 3600},
		{"low demand floored", 3200, 0.0, 3000},
		{"mid demand untouched", 5000, 0.5, 5000},
		{"boundary high", 5000, 0.8, 6000},
		{"boundary low", 5000, 0.2, 4500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.AdjustForDemand(tt.price, tt.utilization))
		})
	}
}

func TestAdjustForDemand_Disabled(t *testing.T) {
	resolver := NewResolver(testRuleSet(t))

	assert.Equal(t, int64(5000), resolver.AdjustForDemand(5000, 0.95))
}
