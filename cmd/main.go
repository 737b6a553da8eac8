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
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/delete_booking"
	getAvailableSlotsHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/get_bookings"
	getTenantPolicyHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/get_tenant_policy"
	updateBookingHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/update_booking"
	updateTenantPolicyHandler "github.com/m04kA/HSP-SchedulingService/internal/api/handlers/update_tenant_policy"
	"github.com/m04kA/HSP-SchedulingService/internal/api/middleware"
	"github.com/m04kA/HSP-SchedulingService/internal/config"
	slotsCachePkg "github.com/m04kA/HSP-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
	bookingRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/booking"
	statsRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/customerstats"
	policyRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/policy"
	directoryServiceClient "github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	travelServiceClient "github.com/m04kA/HSP-SchedulingService/internal/integrations/travelservice"
	bookingsService "github.com/m04kA/HSP-SchedulingService/internal/service/bookings"
	"github.com/m04kA/HSP-SchedulingService/internal/service/businesshours"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	policyService "github.com/m04kA/HSP-SchedulingService/internal/service/policy"
	policyModels "github.com/m04kA/HSP-SchedulingService/internal/service/policy/models"
	"github.com/m04kA/HSP-SchedulingService/internal/service/pricing"
	"github.com/m04kA/HSP-SchedulingService/internal/service/timevalidator"
	createBookingUC "github.com/m04kA/HSP-SchedulingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/HSP-SchedulingService/internal/usecase/get_available_slots"
	updateBookingUC "github.com/m04kA/HSP-SchedulingService/internal/usecase/update_booking"
	"github.com/m04kA/HSP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/HSP-SchedulingService/pkg/logger"
	"github.com/m04kA/HSP-SchedulingService/pkg/metrics"
	"github.com/m04kA/HSP-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/HSP-SchedulingService/pkg/txmanager"
	"github.com/m04kA/HSP-SchedulingService/pkg/types"
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

	log.Info("Starting HSP-SchedulingService...")
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

	// Инициализируем интеграционных клиентов
	directoryClient := directoryServiceClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	travelClient := travelServiceClient.NewClient(
		cfg.TravelService.URL,
		time.Duration(cfg.TravelService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (DirectoryService=%s timeout=%ds, TravelService=%s timeout=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout, cfg.TravelService.URL, cfg.TravelService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		statsRepository   *statsRepo.Repository
		policyRepository  *policyRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		statsRepository = statsRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		statsRepository = statsRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Публикация событий бронирований в Kafka (если включена)
	var eventPublisher bookingsService.EventPublisher
	var kafkaPublisher *events.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		eventPublisher = kafkaPublisher
		log.Info("Kafka event publisher initialized (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	} else {
		eventPublisher = events.NopPublisher{}
		log.Info("Kafka disabled, booking events will not be published")
	}

	// Кеш сеток слотов в Redis (если включен)
	var slotsCache bookingsService.SlotsCache
	var fullSlotsCache getAvailableSlotsUC.SlotsCache
	var redisClient *redis.Client
	if cfg.SlotsCache.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.SlotsCache.Addr,
			Password: cfg.SlotsCache.Password,
			DB:       cfg.SlotsCache.DB,
		})
		cache := slotsCachePkg.NewCache(
			redisClient,
			time.Duration(cfg.SlotsCache.TTLSeconds)*time.Second,
			log,
		)
		slotsCache = cache
		fullSlotsCache = cache
		log.Info("Slots cache initialized (addr=%s, ttl=%ds)", cfg.SlotsCache.Addr, cfg.SlotsCache.TTLSeconds)
	} else {
		slotsCache = slotsCachePkg.NopCache{}
		fullSlotsCache = slotsCachePkg.NopCache{}
		log.Info("Slots cache disabled")
	}

	// Платформенные значения политики планирования по умолчанию
	policyDefaults := policyModels.ResolvedPolicy{
		SlotStepMinutes:         cfg.Scheduling.SlotStepMinutes,
		TravelBufferMinutes:     cfg.Scheduling.TravelBufferMinutes,
		MinBookingNoticeMinutes: cfg.Scheduling.MinBookingNoticeMinutes,
		AdvanceBookingDays:      cfg.Scheduling.AdvanceBookingDays,
	}

	// Инициализируем сервисы
	hoursResolver := businesshours.NewResolver(
		types.TimeString(cfg.Scheduling.DefaultOpenTime),
		types.TimeString(cfg.Scheduling.DefaultCloseTime),
	)
	timeValidator := timevalidator.NewValidator()
	detector := conflicts.NewDetector(bookingRepository, log)
	pricingCalc := pricing.NewCalculator(travelClient, log)
	policySvc := policyService.NewService(policyRepository, directoryClient, policyDefaults, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		statsRepository,
		txMgr,
		eventPublisher,
		slotsCache,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		statsRepository,
		detector,
		policySvc,
		pricingCalc,
		hoursResolver,
		timeValidator,
		directoryClient,
		eventPublisher,
		slotsCache,
		txMgr,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		detector,
		policySvc,
		pricingCalc,
		hoursResolver,
		timeValidator,
		directoryClient,
		eventPublisher,
		slotsCache,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		detector,
		policySvc,
		hoursResolver,
		directoryClient,
		fullSlotsCache,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getTenantPolicy := getTenantPolicyHandler.NewHandler(policySvc, log)
	updateTenantPolicy := updateTenantPolicyHandler.NewHandler(policySvc, log)

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

	// Сетка доступных слотов услуги на дату
	api.HandleFunc("/tenants/{tenantId}/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Действующая политика планирования тенанта
	api.HandleFunc("/tenants/{tenantId}/policy",
		getTenantPolicy.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Tenant-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Список бронирований тенанта с фильтрацией
	protected.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перенос/правка бронирования или смена статуса
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Удаление бронирования
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Политики планирования ---
	// Создание/обновление политики тенанта
	protected.HandleFunc("/tenants/{tenantId}/policy", updateTenantPolicy.Handle).Methods(http.MethodPut)

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

	// Закрываем Kafka producer
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Failed to close Kafka publisher: %v", err)
		}
	}

	// Закрываем Redis клиент
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis client: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited gracefully")
}
