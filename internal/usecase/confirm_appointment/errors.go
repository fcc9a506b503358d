package confirm_appointment

import "errors"

var (
	// ErrTokenNotFound возвращается для любого токена, не ведущего к
	// подтверждаемой записи: неизвестного, искаженного или принадлежащего
	// отмененной/завершенной записи. Единый ответ не позволяет отличить
	// искаженный токен от просто неизвестного.
	ErrTokenNotFound = errors.New("confirm_appointment: token not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_appointment: internal error")
)
