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

	cancelBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/create_booking"
	generateSlotsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/generate_slots"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_booking"
	getRulesHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/get_rules"
	paymentWebhookHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/payment_webhook"
	reconcileExpiredHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/reconcile_expired"
	updateRuleHandler "github.com/m04kA/SMC-CourtBookingService/internal/api/handlers/update_rule"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	rulesRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/rules"
	slotRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/paymentgw"
	bookingsService "github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	rulesService "github.com/m04kA/SMC-CourtBookingService/internal/service/rules"
	createBookingUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
	finalizePaymentUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/finalize_payment"
	generateSlotsUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/generate_slots"
	getAvailableSlotsUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_available_slots"
	reconcileExpiredUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/reconcile_expired"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
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

	log.Info("Starting SMC-CourtBookingService...")
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

	// Инициализируем клиент платёжного шлюза
	gatewayClient := paymentgw.NewClient(
		cfg.PaymentGateway.URL,
		cfg.PaymentGateway.APIKey,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Payment gateway client initialized (url=%s timeout=%ds)",
		cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository    *slotRepo.Repository
		bookingRepository *bookingRepo.Repository
		rulesRepository   *rulesRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		rulesRepository = rulesRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		rulesRepository = rulesRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	rulesSvc := rulesService.NewService(rulesRepository, txMgr, log)
	bookingSvc := bookingsService.NewService(bookingRepository, slotRepository, txMgr, log)

	// Инициализируем use cases
	generateSlotsUseCase := generateSlotsUC.NewUseCase(rulesSvc, slotRepository, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(slotRepository, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		slotRepository,
		bookingRepository,
		gatewayClient,
		txMgr,
		cfg.PaymentGateway.Currency,
		log,
	)
	finalizePaymentUseCase := finalizePaymentUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		log,
	)
	reconcileExpiredUseCase := reconcileExpiredUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		time.Duration(cfg.Booking.PaymentSessionTTLMinutes)*time.Minute,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(finalizePaymentUseCase, cfg.PaymentGateway.WebhookSecret, log)
	generateSlots := generateSlotsHandler.NewHandler(generateSlotsUseCase, log)
	reconcileExpired := reconcileExpiredHandler.NewHandler(reconcileExpiredUseCase, log)
	getRules := getRulesHandler.NewHandler(rulesSvc, log)
	updateRule := updateRuleHandler.NewHandler(rulesSvc, log)

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

	// Доступные слоты на дату
	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Уведомления платёжного шлюза (аутентификация HMAC-подписью тела)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

	// Генерация слотов на диапазон дат
	admin.HandleFunc("/slots/generate", generateSlots.Handle).Methods(http.MethodPost)

	// Снятие просроченных pending-бронирований (дёргается внешним планировщиком)
	admin.HandleFunc("/bookings/reconcile-expired", reconcileExpired.Handle).Methods(http.MethodPost)

	// Просмотр и замена бизнес-правил
	admin.HandleFunc("/rules", getRules.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/rules", updateRule.Handle).Methods(http.MethodPut)

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
