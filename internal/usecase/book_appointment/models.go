package book_appointment

import "time"

// Request модель запроса на создание записи
type Request struct {
	Name            string    // Имя клиента
	Email           string    // Email клиента (ключ дедупликации)
	Phone           *string   // Телефон (опционально)
	Service         string    // Название услуги
	StartTime       time.Time // Начало слота
	DurationMinutes int       // Длительность в минутах (0 = дефолт из конфигурации)
	Notes           *string   // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID                string    // ID созданной записи
	CustomerID        string    // ID клиента
	Service           string    // Название услуги
	StartTime         time.Time // Начало слота
	EndTime           time.Time // Конец слота
	DurationMinutes   int       // Длительность в минутах
	Status            string    // Статус записи (scheduled)
	ConfirmationToken string    // Токен подтверждения
	Notes             *string   // Заметки

	CreatedAt time.Time // Время создания
}
