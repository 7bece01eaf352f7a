package generate_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// UseCase use case генерации слотов
// Идёт фиксированным шагом по сетке каждого корта и пишет слоты идемпотентным
// upsert'ом: повторный запуск на том же диапазоне обновляет только цены,
// занятые слоты не трогаются. Каждый upsert автономен, поэтому частично
// выполненная генерация дозапускается без отката уже записанных слотов.
type UseCase struct {
	rulesService RulesService
	slotRepo     SlotRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(rulesService RulesService, slotRepo SlotRepository, logger Logger) *UseCase {
	return &UseCase{
		rulesService: rulesService,
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет генерацию слотов для диапазона дат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: range %s..%s",
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	resp := &Response{}

	for date := dateOnly(req.StartDate); !date.After(dateOnly(req.EndDate)); date = date.AddDate(0, 0, 1) {
		// Правила версионированы по датам, набор разрешается на каждую дату отдельно
		ruleSet, err := uc.rulesService.ResolveForDate(ctx, date)
		if err != nil {
			uc.logger.Error("GenerateSlots: rules resolution failed for %s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}

		if err := validateHorizon(date, now, ruleSet.Generation.HorizonDays); err != nil {
			uc.logger.Warn("GenerateSlots: %v", err)
			return nil, err
		}

		if err := uc.generateForDate(ctx, date, ruleSet, resp); err != nil {
			return nil, err
		}
	}

	// Пропуск отдельных пар терпим, но прогон без единого слота означает,
	// что ценовые правила не покрывают рабочее окно целиком
	if resp.PairsSkipped > 0 && resp.SlotsCreated == 0 && resp.SlotsUpdated == 0 {
		uc.logger.Error("GenerateSlots: all %d date/court pairs failed pricing, nothing generated", resp.PairsSkipped)
		return nil, fmt.Errorf("%w: pricing failed for all %d date/court pairs", ErrConfiguration, resp.PairsSkipped)
	}

	uc.logger.Info("GenerateSlots: done, created=%d updated=%d skipped_pairs=%d",
		resp.SlotsCreated, resp.SlotsUpdated, resp.PairsSkipped)

	return resp, nil
}

// generateForDate генерирует слоты всех кортов на одну дату
func (uc *UseCase) generateForDate(ctx context.Context, date time.Time, ruleSet *domain.RuleSet, resp *Response) error {
	resolver := pricing.NewResolver(ruleSet)

	for _, court := range ruleSet.Courts {
		if err := uc.generateForCourt(ctx, date, court, ruleSet.Generation, resolver, resp); err != nil {
			return err
		}
	}

	return nil
}

// generateForCourt проходит сетку одного корта на одну дату
// Ошибка цены прерывает только эту пару дата/корт: уже записанные слоты
// остаются, остальные корты и даты генерируются дальше
func (uc *UseCase) generateForCourt(
	ctx context.Context,
	date time.Time,
	court domain.CourtConfig,
	gen domain.GenerationConfigRule,
	resolver *pricing.Resolver,
	resp *Response,
) error {
	// Занятость читается один раз до прохода: динамическая корректировка
	// советующая и применяется только в момент генерации
	utilization, err := uc.slotRepo.GetUtilization(ctx, court.Name, date)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to get utilization for court=%s date=%s: %v",
			court.Name, date.Format(domain.DateFormat), err)
		return fmt.Errorf("%w: failed to get utilization: %v", ErrInternal, err)
	}

	openMinutes := gen.OperatingStartHour * 60
	closeMinutes := gen.OperatingEndHour * 60

	for startMin := openMinutes + court.StartOffsetMinutes; startMin+gen.SlotDurationMinutes <= closeMinutes; startMin += gen.SlotDurationMinutes {
		start, err := types.NewTimeStringFromMinutes(startMin)
		if err != nil {
			return fmt.Errorf("%w: invalid slot start: %v", ErrInternal, err)
		}
		end, err := types.NewTimeStringFromMinutes(startMin + gen.SlotDurationMinutes)
		if err != nil {
			return fmt.Errorf("%w: invalid slot end: %v", ErrInternal, err)
		}

		price, err := resolver.PriceFor(date, start)
		if err != nil {
			uc.logger.Warn("GenerateSlots: pricing failed for court=%s date=%s start=%s, pair aborted: %v",
				court.Name, date.Format(domain.DateFormat), start, err)
			resp.PairsSkipped++
			return nil
		}

		slot := &domain.Slot{
			CourtName:         court.Name,
			Date:              date,
			StartTime:         start,
			EndTime:           end,
			BasePriceCents:    price,
			CurrentPriceCents: resolver.AdjustForDemand(price, utilization.Ratio()),
		}

		inserted, err := uc.slotRepo.UpsertGenerated(ctx, slot)
		if err != nil {
			uc.logger.Error("GenerateSlots: upsert failed for court=%s date=%s start=%s: %v",
				court.Name, date.Format(domain.DateFormat), start, err)
			return fmt.Errorf("%w: failed to upsert slot: %v", ErrInternal, err)
		}

		if inserted {
			resp.SlotsCreated++
		} else {
			resp.SlotsUpdated++
		}
	}

	return nil
}

// dateOnly обнуляет компонент времени
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
