package rules

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/rules/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRulesRepo struct {
	rules       []*domain.BusinessRule
	created     []*domain.BusinessRule
	deactivated []string
}

func (f *fakeRulesRepo) ListEffectiveOn(_ context.Context, _ time.Time) ([]*domain.BusinessRule, error) {
	return f.rules, nil
}

func (f *fakeRulesRepo) List(_ context.Context) ([]*domain.BusinessRule, error) {
	return f.rules, nil
}

func (f *fakeRulesRepo) Create(_ context.Context, rule *domain.BusinessRule) (*domain.BusinessRule, error) {
	rule.ID = int64(len(f.created) + 1)
	f.created = append(f.created, rule)
	return rule, nil
}

func (f *fakeRulesRepo) DeactivateByTypeAndKey(_ context.Context, ruleType domain.RuleType, ruleKey string) error {
	f.deactivated = append(f.deactivated, string(ruleType)+"/"+ruleKey)
	return nil
}

func rule(ruleType domain.RuleType, key, value string) *domain.BusinessRule {
	return &domain.BusinessRule{
		RuleType: ruleType,
		RuleKey:  key,
		Value:    json.RawMessage(value),
		Active:   true,
	}
}

const (
	weekdayDoc = `{"buckets":[
		{"start":"07:00","end":"09:00","price_cents":6500},
		{"start":"09:00","end":"17:00","price_cents":4000},
		{"start":"17:00","end":"23:00","price_cents":8500}]}`
	weekendDoc    = `{"buckets":[{"start":"07:00","end":"23:00","price_cents":9000}]}`
	courtsDoc     = `{"courts":[{"name":"A","start_offset_minutes":0},{"name":"B","start_offset_minutes":30}]}`
	generationDoc = `{"slot_duration_minutes":90,"operating_start_hour":7,"operating_end_hour":23,"horizon_days":30,
		"dynamic_pricing":{"enabled":false,"high_threshold":0,"low_threshold":0,"high_multiplier":0,"low_multiplier":0,"max_price_cents":0,"min_price_cents":0}}`
	holidayDoc = `{"dates":["2026-01-01"],"multiplier":1.5,"minimum_price_cents":8000}`
)

func completeRules() []*domain.BusinessRule {
	return []*domain.BusinessRule{
		rule(domain.RuleTypePricingTimeTable, domain.RuleKeyWeekday, weekdayDoc),
		rule(domain.RuleTypePricingTimeTable, domain.RuleKeyWeekend, weekendDoc),
		rule(domain.RuleTypeCourtConfig, domain.RuleKeyDefault, courtsDoc),
		rule(domain.RuleTypeGenerationConfig, domain.RuleKeyDefault, generationDoc),
		rule(domain.RuleTypePricingHoliday, "new-year", holidayDoc),
	}
}

var anyDate = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

func TestResolveForDate_CompleteSet(t *testing.T) {
	svc := NewService(&fakeRulesRepo{rules: completeRules()}, passthroughTxManager{}, nopLogger{})

	ruleSet, err := svc.ResolveForDate(context.Background(), anyDate)
	require.NoError(t, err)

	assert.Len(t, ruleSet.WeekdayTable.Buckets, 3)
	assert.Len(t, ruleSet.WeekendTable.Buckets, 1)
	assert.Len(t, ruleSet.Courts, 2)
	assert.Len(t, ruleSet.Holidays, 1)
	assert.Equal(t, 90, ruleSet.Generation.SlotDurationMinutes)
	assert.Equal(t, 30, ruleSet.Courts[1].StartOffsetMinutes)
}

func TestResolveForDate_DuplicateActiveRule(t *testing.T) {
	rules := completeRules()
	rules = append(rules, rule(domain.RuleTypePricingTimeTable, domain.RuleKeyWeekday, weekdayDoc))
	svc := NewService(&fakeRulesRepo{rules: rules}, passthroughTxManager{}, nopLogger{})

	_, err := svc.ResolveForDate(context.Background(), anyDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRuleConflict)
}

func TestResolveForDate_MissingRequiredRule(t *testing.T) {
	for _, drop := range []struct {
		name     string
		ruleType domain.RuleType
		ruleKey  string
	}{
		{"weekday table", domain.RuleTypePricingTimeTable, domain.RuleKeyWeekday},
		{"weekend table", domain.RuleTypePricingTimeTable, domain.RuleKeyWeekend},
		{"court config", domain.RuleTypeCourtConfig, domain.RuleKeyDefault},
		{"generation config", domain.RuleTypeGenerationConfig, domain.RuleKeyDefault},
	} {
		t.Run("missing "+drop.name, func(t *testing.T) {
			var kept []*domain.BusinessRule
			for _, r := range completeRules() {
				if r.RuleType == drop.ruleType && r.RuleKey == drop.ruleKey {
					continue
				}
				kept = append(kept, r)
			}

			svc := NewService(&fakeRulesRepo{rules: kept}, passthroughTxManager{}, nopLogger{})
			_, err := svc.ResolveForDate(context.Background(), anyDate)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingRule)
		})
	}
}

func TestResolveForDate_UnknownRuleType(t *testing.T) {
	rules := append(completeRules(), rule("pricing_lunar_phase", "full-moon", `{}`))
	svc := NewService(&fakeRulesRepo{rules: rules}, passthroughTxManager{}, nopLogger{})

	_, err := svc.ResolveForDate(context.Background(), anyDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRuleType)
}

func TestResolveForDate_MalformedDocuments(t *testing.T) {
	base := completeRules()[1:] // без weekday-таблицы, подставляем свои варианты

	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field rejected", `{"buckets":[{"start":"07:00","end":"09:00","price_cents":100}],"surge":true}`},
		{"overlapping buckets", `{"buckets":[
			{"start":"07:00","end":"10:00","price_cents":100},
			{"start":"09:00","end":"12:00","price_cents":200}]}`},
		{"start after end", `{"buckets":[{"start":"10:00","end":"07:00","price_cents":100}]}`},
		{"non-positive price", `{"buckets":[{"start":"07:00","end":"09:00","price_cents":0}]}`},
		{"empty table", `{"buckets":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := append([]*domain.BusinessRule{
				rule(domain.RuleTypePricingTimeTable, domain.RuleKeyWeekday, tt.doc),
			}, base...)
			svc := NewService(&fakeRulesRepo{rules: rules}, passthroughTxManager{}, nopLogger{})

			_, err := svc.ResolveForDate(context.Background(), anyDate)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRuleDocument)
		})
	}
}

func TestResolveForDate_CourtOffsetOutOfBounds(t *testing.T) {
	rules := completeRules()
	// Оффсет равен длительности слота - сетка наложится на следующий тик
	rules[2] = rule(domain.RuleTypeCourtConfig, domain.RuleKeyDefault,
		`{"courts":[{"name":"A","start_offset_minutes":90}]}`)
	svc := NewService(&fakeRulesRepo{rules: rules}, passthroughTxManager{}, nopLogger{})

	_, err := svc.ResolveForDate(context.Background(), anyDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRuleDocument)
}

func TestUpdate_ReplacesRuleTransactionally(t *testing.T) {
	repo := &fakeRulesRepo{}
	svc := NewService(repo, passthroughTxManager{}, nopLogger{})

	resp, err := svc.Update(context.Background(), &models.UpdateRuleRequest{
		RuleType: string(domain.RuleTypePricingHoliday),
		RuleKey:  "new-year",
		Value:    json.RawMessage(holidayDoc),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"pricing_holiday/new-year"}, repo.deactivated)
	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].Active)
	assert.Equal(t, resp.ID, repo.created[0].ID)
}

func TestUpdate_RejectsInvalidDocument(t *testing.T) {
	repo := &fakeRulesRepo{}
	svc := NewService(repo, passthroughTxManager{}, nopLogger{})

	_, err := svc.Update(context.Background(), &models.UpdateRuleRequest{
		RuleType: string(domain.RuleTypeGenerationConfig),
		RuleKey:  domain.RuleKeyDefault,
		Value:    json.RawMessage(`{"slot_duration_minutes":5,"operating_start_hour":7,"operating_end_hour":23,"horizon_days":30,"dynamic_pricing":{"enabled":false,"high_threshold":0,"low_threshold":0,"high_multiplier":0,"low_multiplier":0,"max_price_cents":0,"min_price_cents":0}}`),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRuleDocument)
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.deactivated)
}

func TestUpdate_RejectsUnknownType(t *testing.T) {
	svc := NewService(&fakeRulesRepo{}, passthroughTxManager{}, nopLogger{})

	_, err := svc.Update(context.Background(), &models.UpdateRuleRequest{
		RuleType: "pricing_lunar_phase",
		RuleKey:  "full-moon",
		Value:    json.RawMessage(`{}`),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRuleType)
}
