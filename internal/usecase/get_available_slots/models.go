package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса доступных слотов
type Request struct {
	Date      time.Time // Дата, на которую запрашиваются слоты
	CourtName *string   // Фильтр по корту (опционально)
}

// SlotInfo информация об одном доступном слоте
type SlotInfo struct {
	ID         int64            // ID слота
	CourtName  string           // Название корта
	StartTime  types.TimeString // Время начала
	EndTime    types.TimeString // Время окончания
	PriceCents int64            // Текущая цена в копейках
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date  time.Time  // Запрошенная дата
	Slots []SlotInfo // Доступные слоты, отсортированы по корту и времени
}
