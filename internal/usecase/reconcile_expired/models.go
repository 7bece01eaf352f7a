package reconcile_expired

// Response модель результата reconcile-прохода
type Response struct {
	Released int // Количество снятых бронирований с освобождёнными слотами
}
