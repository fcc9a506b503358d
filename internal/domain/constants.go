package domain

// Default configuration values
const (
	DefaultDurationMinutes = 30
)

// Business validation constants
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 480 // 8 hours
	MaxNotesLength     = 500
	MaxServiceLength   = 200
)

// Aggregation windows for the admin stats
const (
	DailyVolumeWindowDays     = 30
	HourlyHistogramWindowDays = 90
	TopCustomersLimit         = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, занимающих слот
// Используется в проверке пересечений при создании записи
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
}

// AllStatuses полный список статусов записи
// Используется для валидации и для zero-fill агрегатов
var AllStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
}
