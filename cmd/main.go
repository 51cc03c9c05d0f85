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

	cancelReservationHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/create_reservation"
	decideReservationHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/decide_reservation"
	getCalendarHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/get_calendar"
	getNotificationsHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/get_notifications"
	getPendingReservationsHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/get_pending_reservations"
	getReportsHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/get_reports"
	getReservationHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/get_reservation"
	getResourceAvailabilityHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/get_resource_availability"
	getUserReservationsHandler "github.com/m04kA/UCS-ReservationService/internal/api/handlers/get_user_reservations"
	"github.com/m04kA/UCS-ReservationService/internal/api/middleware"
	"github.com/m04kA/UCS-ReservationService/internal/app"
	"github.com/m04kA/UCS-ReservationService/internal/config"
	approvalRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/approval"
	identityRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/identity"
	notificationRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/notification"
	reservationRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/reservation"
	resourceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/resource"
	spaceRepo "github.com/m04kA/UCS-ReservationService/internal/infra/storage/space"
	notifierService "github.com/m04kA/UCS-ReservationService/internal/service/notifier"
	reportsService "github.com/m04kA/UCS-ReservationService/internal/service/reports"
	reservationsService "github.com/m04kA/UCS-ReservationService/internal/service/reservations"
	cancelReservationUC "github.com/m04kA/UCS-ReservationService/internal/usecase/cancel_reservation"
	createReservationUC "github.com/m04kA/UCS-ReservationService/internal/usecase/create_reservation"
	decideReservationUC "github.com/m04kA/UCS-ReservationService/internal/usecase/decide_reservation"
	getResourceAvailabilityUC "github.com/m04kA/UCS-ReservationService/internal/usecase/get_resource_availability"
	"github.com/m04kA/UCS-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/UCS-ReservationService/pkg/logger"
	"github.com/m04kA/UCS-ReservationService/pkg/metrics"
	"github.com/m04kA/UCS-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/UCS-ReservationService/pkg/txmanager"
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

	log.Info("Starting UCS-ReservationService...")
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

	// Применяем миграции
	migrator, err := app.NewMigrator(db, cfg.Database.MigrationsPath, log)
	if err != nil {
		log.Fatal("Failed to init migrator: %v", err)
	}
	if err := migrator.Run(context.Background()); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository  *reservationRepo.Repository
		resourceRepository     *resourceRepo.Repository
		spaceRepository        *spaceRepo.Repository
		approvalRepository     *approvalRepo.Repository
		notificationRepository *notificationRepo.Repository
		identityRepository     *identityRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		resourceRepository = resourceRepo.NewRepository(wrappedDB)
		spaceRepository = spaceRepo.NewRepository(wrappedDB)
		approvalRepository = approvalRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		identityRepository = identityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		resourceRepository = resourceRepo.NewRepository(db)
		spaceRepository = spaceRepo.NewRepository(db)
		approvalRepository = approvalRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		identityRepository = identityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	notifierSvc := notifierService.NewService(
		notificationRepository,
		identityRepository,
		log,
	)
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		approvalRepository,
		identityRepository,
		cfg.Reservations.StaffRole,
		log,
	)
	reportsSvc := reportsService.NewService(
		reservationRepository,
		approvalRepository,
		identityRepository,
		cfg.Reservations.StaffRole,
		&reportsService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		spaceRepository,
		resourceRepository,
		notifierSvc,
		txMgr,
		cfg.Reservations.StaffRole,
		log,
	)
	decideReservationUseCase := decideReservationUC.NewUseCase(
		reservationRepository,
		approvalRepository,
		resourceRepository,
		identityRepository,
		notifierSvc,
		txMgr,
		cfg.Reservations.StaffRole,
		cfg.Reservations.OperationsRole,
		log,
	)
	cancelReservationUseCase := cancelReservationUC.NewUseCase(
		reservationRepository,
		notifierSvc,
		txMgr,
		cfg.Reservations.MinCancelWindow(),
		cfg.Reservations.OperationsRole,
		log,
	)
	resourceAvailabilityUseCase := getResourceAvailabilityUC.NewUseCase(
		reservationRepository,
		resourceRepository,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	decideReservation := decideReservationHandler.NewHandler(decideReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(cancelReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationsSvc, log)
	getPendingReservations := getPendingReservationsHandler.NewHandler(reservationsSvc, log)
	getCalendar := getCalendarHandler.NewHandler(reservationsSvc, log)
	getResourceAvailability := getResourceAvailabilityHandler.NewHandler(resourceAvailabilityUseCase, log)
	getReports := getReportsHandler.NewHandler(reportsSvc, log)
	getNotifications := getNotificationsHandler.NewHandler(notifierSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарная сетка занятости помещений
	api.HandleFunc("/calendar/events", getCalendar.Handle).Methods(http.MethodGet)

	// Доступность ресурсов на интервале
	// (маршрут без параметра регистрируется раньше параметризованного)
	api.HandleFunc("/resources/availability", getResourceAvailability.HandleBulk).Methods(http.MethodGet)
	api.HandleFunc("/resources/{resourceId}/availability", getResourceAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Резервации ---
	// Создание заявки на резервацию
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Очередь заявок на модерацию (раньше параметризованного маршрута)
	protected.HandleFunc("/reservations/pending", getPendingReservations.Handle).Methods(http.MethodGet)

	// Получение резервации по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Решение по заявке (одобрить/отклонить)
	protected.HandleFunc("/reservations/{reservationId}/decision", decideReservation.Handle).Methods(http.MethodPost)

	// Отмена резервации владельцем
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// История резерваций пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Отчётность (для модераторов) ---
	protected.HandleFunc("/reports/reservations", getReports.HandleExport).Methods(http.MethodGet)
	protected.HandleFunc("/reports/statistics", getReports.HandleStatistics).Methods(http.MethodGet)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", getNotifications.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read", getNotifications.HandleMarkRead).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
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
