package stats

import (
	"context"
	"time"

	"github.com/jrbarber/scheduling-service/internal/domain"
)

// StatsRepository интерфейс репозитория агрегатов по записям
type StatsRepository interface {
	CountByDay(ctx context.Context, since time.Time) ([]domain.DailyCount, error)
	CountByHour(ctx context.Context, since time.Time) ([]domain.HourCount, error)
	TopCustomers(ctx context.Context, limit uint64) ([]domain.RepeatCustomer, error)
	StatusTotals(ctx context.Context) (domain.StatusTotals, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования
// границ дневных и часовых окон)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
