package get_available_slots

import (
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	getSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_available_slots"
)

// SlotResponse один доступный слот в HTTP ответе
type SlotResponse struct {
	ID         int64  `json:"id"`
	CourtName  string `json:"courtName"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	PriceCents int64  `json:"priceCents"`
}

// SlotsListResponse список доступных слотов
type SlotsListResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response) *SlotsListResponse {
	result := &SlotsListResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Slots: make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			ID:         s.ID,
			CourtName:  s.CourtName,
			StartTime:  s.StartTime.String(),
			EndTime:    s.EndTime.String(),
			PriceCents: s.PriceCents,
		})
	}
	return result
}
