package pricing

import "errors"

var (
	// ErrNoPriceBucket возвращается, когда ни один ценовой интервал таблицы
	// не покрывает время начала слота. Ошибка конфигурации: генерация для
	// этого слота падает, цена никогда не подставляется нулём
	ErrNoPriceBucket = errors.New("pricing: no price bucket covers slot start time")

	// ErrInvalidInterval возвращается при некорректном интервале слота
	ErrInvalidInterval = errors.New("pricing: invalid slot interval")
)
