package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookAppointmentHandler "github.com/jrbarber/scheduling-service/internal/api/handlers/book_appointment"
	cancelAppointmentHandler "github.com/jrbarber/scheduling-service/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/jrbarber/scheduling-service/internal/api/handlers/complete_appointment"
	confirmAppointmentHandler "github.com/jrbarber/scheduling-service/internal/api/handlers/confirm_appointment"
	getStatsHandler "github.com/jrbarber/scheduling-service/internal/api/handlers/get_stats"
	listAppointmentsHandler "github.com/jrbarber/scheduling-service/internal/api/handlers/list_appointments"
	"github.com/jrbarber/scheduling-service/internal/api/middleware"
	"github.com/jrbarber/scheduling-service/internal/config"
	appointmentRepo "github.com/jrbarber/scheduling-service/internal/infra/storage/appointment"
	customerRepo "github.com/jrbarber/scheduling-service/internal/infra/storage/customer"
	"github.com/jrbarber/scheduling-service/internal/integrations/mailer"
	appointmentsService "github.com/jrbarber/scheduling-service/internal/service/appointments"
	customersService "github.com/jrbarber/scheduling-service/internal/service/customers"
	statsService "github.com/jrbarber/scheduling-service/internal/service/stats"
	bookAppointmentUC "github.com/jrbarber/scheduling-service/internal/usecase/book_appointment"
	confirmAppointmentUC "github.com/jrbarber/scheduling-service/internal/usecase/confirm_appointment"
	"github.com/jrbarber/scheduling-service/pkg/dbmetrics"
	"github.com/jrbarber/scheduling-service/pkg/logger"
	"github.com/jrbarber/scheduling-service/pkg/metrics"
	"github.com/jrbarber/scheduling-service/pkg/securetoken"
	"github.com/jrbarber/scheduling-service/pkg/simpletxmanager"
	"github.com/jrbarber/scheduling-service/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting scheduling-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем SMTP-клиент уведомлений
	mailClient := mailer.NewClient(mailer.Config{
		Enabled:       cfg.SMTP.Enabled,
		Host:          cfg.SMTP.Host,
		Port:          cfg.SMTP.Port,
		User:          cfg.SMTP.User,
		Password:      cfg.SMTP.Password,
		From:          cfg.SMTP.From,
		OwnerEmail:    cfg.SMTP.OwnerEmail,
		PublicBaseURL: cfg.Server.PublicBaseURL,
		Timeout:       time.Duration(cfg.SMTP.Timeout) * time.Second,
	}, log)
	log.Info("Mail client initialized (enabled=%t, host=%s:%d)", cfg.SMTP.Enabled, cfg.SMTP.Host, cfg.SMTP.Port)

	// Инициализируем репозитории (с метриками или без)
	var (
		customerRepository    *customerRepo.Repository
		appointmentRepository *appointmentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		customerRepository = customerRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		customerRepository = customerRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	customerDirectory := customersService.NewService(customerRepository, log)
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		txMgr,
		cfg.Booking.ListLimit,
		log,
	)
	statsSvc := statsService.NewService(appointmentRepository, log)

	// Инициализируем use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		customerDirectory,
		appointmentRepository,
		txMgr,
		securetoken.Generator{},
		mailClient,
		cfg.Booking.DefaultDurationMinutes,
		log,
	)
	confirmAppointmentUseCase := confirmAppointmentUC.NewUseCase(
		appointmentRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	bookAppointment := bookAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(confirmAppointmentUseCase, log)
	getStats := getStatsHandler.NewHandler(statsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Создание записи
	api.HandleFunc("/appointments", bookAppointment.Handle).Methods(http.MethodPost)

	// Подтверждение записи по токену из письма
	api.HandleFunc("/confirm/{token}", confirmAppointment.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (bearer-токен из конфигурации)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token))

	// Сводка загрузки
	admin.HandleFunc("/stats", getStats.Handle).Methods(http.MethodGet)

	// Список записей с клиентами (от новых к старым)
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)

	// Отмена записи (освобождает слот)
	admin.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Завершение записи
	admin.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Info("Starting HTTP server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
