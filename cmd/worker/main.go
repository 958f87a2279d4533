package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/email"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using process environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := bootstrap.ConfigureLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	defer redisCache.Close()

	var publisher booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		publisher = kafka.Retrying{Producer: producer, Attempts: cfg.Worker.PublishRetries}
	}

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		redisCache,
		publisher,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.SeatLockSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(log),
	)

	var wg sync.WaitGroup

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.NotificationsTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		sender := email.NewSender(log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Consume(ctx, kafka.BookingEventHandler(sender.Send)); err != nil {
				log.WithError(err).Error("notification consumer stopped")
			}
		}()
	}

	completion := worker.NewCompletionWorker(
		bookingService,
		time.Duration(cfg.Worker.CompletionSweepMinutes)*time.Minute,
		log,
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		completion.Start(ctx)
	}()

	<-ctx.Done()
	log.Info("shutting down worker")
	wg.Wait()
}
