package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	generateSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/generate_slots"
)

// GenerateSlotsRequest HTTP запрос на генерацию слотов
type GenerateSlotsRequest struct {
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
}

// GenerateSlotsResponse HTTP ответ с результатом генерации
type GenerateSlotsResponse struct {
	SlotsCreated int `json:"slotsCreated"`
	SlotsUpdated int `json:"slotsUpdated"`
	PairsSkipped int `json:"pairsSkipped,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest() (*generateSlots.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &generateSlots.Request{
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	return &GenerateSlotsResponse{
		SlotsCreated: resp.SlotsCreated,
		SlotsUpdated: resp.SlotsUpdated,
		PairsSkipped: resp.PairsSkipped,
	}
}
