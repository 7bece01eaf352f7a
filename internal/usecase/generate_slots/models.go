package generate_slots

import "time"

// Request модель запроса на генерацию слотов
type Request struct {
	StartDate time.Time // Первая дата диапазона (включительно)
	EndDate   time.Time // Последняя дата диапазона (включительно)
}

// Response модель ответа с результатом генерации
type Response struct {
	SlotsCreated int // Количество созданных слотов
	SlotsUpdated int // Количество обновлённых слотов (освежены только цены)
	PairsSkipped int // Количество пар дата/корт, пропущенных из-за ошибок цены
}
