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

	cancelReservationHandler "github.com/rezervo/booking-service/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/rezervo/booking-service/internal/api/handlers/create_reservation"
	createServiceHandler "github.com/rezervo/booking-service/internal/api/handlers/create_service"
	getAvailableSlotsHandler "github.com/rezervo/booking-service/internal/api/handlers/get_available_slots"
	getBusinessConfigHandler "github.com/rezervo/booking-service/internal/api/handlers/get_business_config"
	getBusinessReservationsHandler "github.com/rezervo/booking-service/internal/api/handlers/get_business_reservations"
	getReservationHandler "github.com/rezervo/booking-service/internal/api/handlers/get_reservation"
	getScheduleHandler "github.com/rezervo/booking-service/internal/api/handlers/get_schedule"
	listServicesHandler "github.com/rezervo/booking-service/internal/api/handlers/list_services"
	updateBusinessConfigHandler "github.com/rezervo/booking-service/internal/api/handlers/update_business_config"
	updateReservationStatusHandler "github.com/rezervo/booking-service/internal/api/handlers/update_reservation_status"
	updateScheduleHandler "github.com/rezervo/booking-service/internal/api/handlers/update_schedule"
	updateServiceHandler "github.com/rezervo/booking-service/internal/api/handlers/update_service"
	"github.com/rezervo/booking-service/internal/api/middleware"
	"github.com/rezervo/booking-service/internal/config"
	bookingconfigRepo "github.com/rezervo/booking-service/internal/infra/storage/bookingconfig"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	catalogRepo "github.com/rezervo/booking-service/internal/infra/storage/catalog"
	notificationRepo "github.com/rezervo/booking-service/internal/infra/storage/notification"
	reservationRepo "github.com/rezervo/booking-service/internal/infra/storage/reservation"
	scheduleRepo "github.com/rezervo/booking-service/internal/infra/storage/schedule"
	notifierClient "github.com/rezervo/booking-service/internal/integrations/notifier"
	catalogService "github.com/rezervo/booking-service/internal/service/catalog"
	configService "github.com/rezervo/booking-service/internal/service/config"
	notificationsService "github.com/rezervo/booking-service/internal/service/notifications"
	reservationsService "github.com/rezervo/booking-service/internal/service/reservations"
	scheduleService "github.com/rezervo/booking-service/internal/service/schedule"
	createReservationUC "github.com/rezervo/booking-service/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/rezervo/booking-service/internal/usecase/get_available_slots"
	"github.com/rezervo/booking-service/pkg/dbmetrics"
	"github.com/rezervo/booking-service/pkg/logger"
	"github.com/rezervo/booking-service/pkg/metrics"
	"github.com/rezervo/booking-service/pkg/simpletxmanager"
	"github.com/rezervo/booking-service/pkg/txmanager"
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

	log.Info("Starting booking-service...")
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

	// Интерфейс менеджера транзакций (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository  *reservationRepo.Repository
		scheduleRepository     *scheduleRepo.Repository
		businessRepository     *businessRepo.Repository
		catalogRepository      *catalogRepo.Repository
		configRepository       *bookingconfigRepo.Repository
		notificationRepository *notificationRepo.Repository
		txMgr                  TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		configRepository = bookingconfigRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		configRepository = bookingconfigRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем клиент сервиса доставки уведомлений
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Notifier client initialized (url=%s, timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)

	// Инициализируем сервисы
	notificationsSvc := notificationsService.NewService(notificationRepository, notifier, log)
	reservationsSvc := reservationsService.NewService(reservationRepository, businessRepository, notificationsSvc, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, businessRepository, txMgr, log)
	catalogSvc := catalogService.NewService(catalogRepository, businessRepository, log)
	configSvc := configService.NewService(configRepository, businessRepository, log)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		scheduleRepository,
		businessRepository,
		catalogRepository,
		configRepository,
		txMgr,
		notificationsSvc,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		scheduleRepository,
		businessRepository,
		catalogRepository,
		configRepository,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	updateReservationStatus := updateReservationStatusHandler.NewHandler(reservationsSvc, log)
	getBusinessReservations := getBusinessReservationsHandler.NewHandler(reservationsSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	getBusinessConfig := getBusinessConfigHandler.NewHandler(configSvc, log)
	updateBusinessConfig := updateBusinessConfigHandler.NewHandler(configSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (страница бронирования, без аутентификации)
	// ============================================================

	// Доступные слоты на дату
	api.HandleFunc("/businesses/{businessId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание брони клиентом
	api.HandleFunc("/businesses/{businessId}/reservations",
		createReservation.Handle).Methods(http.MethodPost)

	// Недельное расписание бизнеса
	api.HandleFunc("/businesses/{businessId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)

	// Каталог услуг бизнеса
	api.HandleFunc("/businesses/{businessId}/services",
		listServices.Handle).Methods(http.MethodGet)

	// Действующая конфигурация слотов
	api.HandleFunc("/businesses/{businessId}/config",
		getBusinessConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (кабинет владельца, требуют X-User-ID)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Брони ---
	protected.HandleFunc("/reservations/{reservationId}",
		getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel",
		cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/reservations/{reservationId}/status",
		updateReservationStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/businesses/{businessId}/reservations",
		getBusinessReservations.Handle).Methods(http.MethodGet)

	// --- Расписание ---
	protected.HandleFunc("/businesses/{businessId}/schedule",
		updateSchedule.Handle).Methods(http.MethodPut)

	// --- Каталог услуг ---
	protected.HandleFunc("/businesses/{businessId}/services",
		createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}",
		updateService.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/services/{serviceId}/active",
		updateService.HandleSetActive).Methods(http.MethodPatch)

	// --- Конфигурация слотов ---
	protected.HandleFunc("/businesses/{businessId}/config",
		updateBusinessConfig.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/config/{configId}",
		updateBusinessConfig.HandleDelete).Methods(http.MethodDelete)

	// Фоновый диспетчер уведомлений
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()

	if cfg.Notifications.Enabled {
		go notificationsSvc.Run(
			dispatcherCtx,
			time.Duration(cfg.Notifications.IntervalSeconds)*time.Second,
			uint64(cfg.Notifications.BatchSize),
		)
	}

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

	// Останавливаем диспетчер уведомлений
	stopDispatcher()

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
