package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrCannotCancel возвращается, когда запись нельзя отменить
	// (она уже отменена или завершена)
	ErrCannotCancel = errors.New("appointments: appointment cannot be cancelled")

	// ErrCannotComplete возвращается, когда запись нельзя завершить
	// (завершаются только подтвержденные записи)
	ErrCannotComplete = errors.New("appointments: appointment cannot be completed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
