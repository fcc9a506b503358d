package confirm_appointment

// Request модель запроса на подтверждение записи
type Request struct {
	Token string // Токен из письма подтверждения
}

// Response модель ответа на подтверждение
type Response struct {
	AppointmentID    string // ID подтвержденной записи
	Status           string // Текущий статус (confirmed)
	AlreadyConfirmed bool   // true, если запись была подтверждена ранее
}
