package get_available_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// UseCase use case получения доступных слотов
type UseCase struct {
	slotRepo SlotRepository
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(slotRepo SlotRepository, logger Logger) *UseCase {
	return &UseCase{
		slotRepo: slotRepo,
		logger:   logger,
	}
}

// Execute возвращает доступные слоты на дату с опциональным фильтром по корту
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	filter := domain.SlotsFilter{
		Date:          req.Date,
		CourtName:     req.CourtName,
		OnlyAvailable: true,
	}

	slots, err := uc.slotRepo.ListByFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots for %s: %v",
			req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	resp := &Response{
		Date:  req.Date,
		Slots: make([]SlotInfo, 0, len(slots)),
	}

	for _, s := range slots {
		resp.Slots = append(resp.Slots, SlotInfo{
			ID:         s.ID,
			CourtName:  s.CourtName,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			PriceCents: s.CurrentPriceCents,
		})
	}

	return resp, nil
}
