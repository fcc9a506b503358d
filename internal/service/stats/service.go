package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jrbarber/scheduling-service/internal/domain"
	"github.com/jrbarber/scheduling-service/internal/service/stats/models"
)

// Service read-only агрегатор загрузки: дневные объемы, часовая гистограмма,
// постоянные клиенты, итоги по статусам.
// Каждый агрегат считается одним запросом и потому внутренне консистентен;
// консистентность между четырьмя агрегатами в рамках одного отчета не
// гарантируется и не требуется.
type Service struct {
	statsRepo    StatsRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр агрегатора статистики
func NewService(statsRepo StatsRepository, logger Logger) *Service {
	return &Service{
		statsRepo:    statsRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// NewServiceWithTimeProvider создает агрегатор с внешним источником времени
// (используется в тестах для детерминированных границ окон)
func NewServiceWithTimeProvider(statsRepo StatsRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		statsRepo:    statsRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetStats собирает полную сводку для админки
func (s *Service) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	now := s.timeProvider.Now()

	// Окна отсчитываются от локальной полуночи: "последние 30 дней" -
	// сегодняшний день плюс 29 предыдущих
	dailySince := windowStart(now, domain.DailyVolumeWindowDays)
	hourlySince := windowStart(now, domain.HourlyHistogramWindowDays)

	dailyVolume, err := s.statsRepo.CountByDay(ctx, dailySince)
	if err != nil {
		s.logger.Error("GetStats: failed to count by day: %v", err)
		return nil, fmt.Errorf("%w: GetStats - count by day: %v", ErrInternal, err)
	}

	hourlyHistogram, err := s.statsRepo.CountByHour(ctx, hourlySince)
	if err != nil {
		s.logger.Error("GetStats: failed to count by hour: %v", err)
		return nil, fmt.Errorf("%w: GetStats - count by hour: %v", ErrInternal, err)
	}

	topCustomers, err := s.statsRepo.TopCustomers(ctx, domain.TopCustomersLimit)
	if err != nil {
		s.logger.Error("GetStats: failed to get top customers: %v", err)
		return nil, fmt.Errorf("%w: GetStats - top customers: %v", ErrInternal, err)
	}

	statusTotals, err := s.statsRepo.StatusTotals(ctx)
	if err != nil {
		s.logger.Error("GetStats: failed to get status totals: %v", err)
		return nil, fmt.Errorf("%w: GetStats - status totals: %v", ErrInternal, err)
	}

	s.logger.Info("GetStats: collected report: %d days, %d hour buckets, %d top customers, %d appointments total",
		len(dailyVolume), len(hourlyHistogram), len(topCustomers), statusTotals.Total)

	return models.FromDomainReport(&domain.StatsReport{
		DailyVolume:     dailyVolume,
		HourlyHistogram: hourlyHistogram,
		TopCustomers:    topCustomers,
		StatusTotals:    statusTotals,
	}), nil
}

// windowStart возвращает локальную полночь (windowDays-1) дней назад
func windowStart(now time.Time, windowDays int) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -(windowDays - 1))
}
