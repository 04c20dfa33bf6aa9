package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/quickbite/kiosk-api/configs"
	"github.com/quickbite/kiosk-api/internal/adapter/cache"
	"github.com/quickbite/kiosk-api/internal/adapter/http"
	"github.com/quickbite/kiosk-api/internal/adapter/kafka"
	"github.com/quickbite/kiosk-api/internal/adapter/payment"
	"github.com/quickbite/kiosk-api/internal/adapter/queue"
	"github.com/quickbite/kiosk-api/internal/adapter/repo"
	"github.com/quickbite/kiosk-api/internal/logging"
	"github.com/quickbite/kiosk-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("mysql ping: %w", err)
	}
	cancel()

	logger.Info("kiosk-api: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	queueRepo := repo.NewMySQLQueueRepo(db)
	customerRepo := repo.NewMySQLCustomerRepo(db)
	productRepo := repo.NewMySQLProductRepo(db)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.Cache.TTL)

	// lifecycle notifications over rabbitmq, optional
	var notifier usecase.Notifier
	var rabbitConn *amqp091.Connection
	if cfg.Rabbit.Enabled {
		rabbitConn, err = amqp091.Dial(cfg.Rabbit.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		ch, err := rabbitConn.Channel()
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
		}
		notifier, err = queue.NewRabbitNotifier(ch)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq notifier: %w", err)
		}
	}

	// payment provider: live gateway or the in-process simulator
	sim := payment.NewSimulator(payment.NewMemoryPaymentStore(), cfg.Payment.WebhookSecret)
	var provider usecase.PaymentProvider = sim
	if cfg.Payment.Provider == configs.ProviderMercadoPago {
		provider = payment.NewMercadoPagoClient(
			cfg.Payment.BaseURL,
			cfg.Payment.AccessToken,
			cfg.Payment.WebhookSecret,
			cfg.Payment.POSID,
			cfg.Payment.Timeout,
		)
	}

	// use cases
	orderSvc := usecase.NewOrderService(orderRepo, queueRepo, usecase.RequireApprovedPayment{}, statusCache, notifier)
	checkoutSvc := usecase.NewCheckoutService(orderRepo, queueRepo, customerRepo, productRepo, idem, notifier, cfg.Payment.ProcessingDelay)
	queueSvc := usecase.NewQueueService(orderRepo, queueRepo, productRepo, orderSvc)
	customerSvc := usecase.NewCustomerService(customerRepo)
	productSvc := usecase.NewProductService(productRepo)
	paymentSvc := usecase.NewPaymentService(orderRepo, productRepo, provider)
	webhookSvc := usecase.NewWebhookService(provider, orderSvc)
	mockWebhookSvc := usecase.NewWebhookService(sim, orderSvc)

	// kafka alternate intake for payment notifications, optional
	if cfg.Kafka.Enabled {
		if err := setupKafkaListener(cfg, webhookSvc); err != nil {
			return nil, nil, err
		}
	}

	router := http.NewRouter(http.Handlers{
		Orders:      http.NewOrderHandler(checkoutSvc, orderSvc),
		Queue:       http.NewQueueHandler(queueSvc),
		Customers:   http.NewCustomerHandler(customerSvc),
		Products:    http.NewProductHandler(productSvc),
		Payments:    http.NewPaymentHandler(paymentSvc, cfg.Payment.NotificationURL),
		MockPayment: http.NewMockPaymentHandler(sim),
		Webhook:     http.NewWebhookHandler(webhookSvc),
		MockWebhook: http.NewWebhookHandler(mockWebhookSvc),
	})

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
		if rabbitConn != nil {
			_ = rabbitConn.Close()
		}
	}

	return &App{Router: router}, cleanup, nil
}

func setupKafkaListener(cfg configs.Config, webhooks *usecase.WebhookService) error {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return fmt.Errorf("kafka group: %w", err)
	}

	h := kafka.NewPaymentNotificationHandler(webhooks)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, h.Handle)

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			logging.New("kafka").Error("consumer stopped", "err", err)
		}
	}()
	return nil
}
