package book_appointment

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrSlotNotAvailable возвращается, когда интервал пересекается с активной
	// записью. Детали конкурирующей записи не раскрываются.
	ErrSlotNotAvailable = errors.New("book_appointment: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
