package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "grading_service/config"
	"grading_service/internal/domain"
	"grading_service/internal/repository"
	"grading_service/internal/service"
	"grading_service/internal/xqueue"
	"grading_service/pkg/db"
	"grading_service/pkg/kafka"
	"grading_service/pkg/logger"
	"grading_service/pkg/retry"

	_ "github.com/lib/pq"
)

func main() {
	log := logger.New()
	defer func() { _ = log.Sync() }()

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConfig := db.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	}

	pg, err := db.NewPostgres(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	submissionRepo := repository.NewSubmissionRepository(pg.DB())
	gradeRepo := repository.NewGradeRepository(pg.DB())

	kafkaProducer, err := kafka.NewProducer(kafka.Config{Brokers: cfg.Kafka.Brokers})
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}
	defer kafkaProducer.Close()

	queueClient, err := xqueue.NewClient(xqueue.Config{
		URL:       cfg.XQueue.URL,
		Username:  cfg.XQueue.Username,
		Password:  cfg.XQueue.Password,
		QueueName: cfg.XQueue.QueueName,
		Timeout:   cfg.XQueue.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to create queue client: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := retry.WithBackoff(ctx, 5, time.Second, func() (struct{}, error) {
		return struct{}{}, queueClient.Login(ctx)
	}); err != nil {
		log.Fatalf("Failed to log in to queue: %v", err)
	}

	ingestService := service.NewIngestService(
		submissionRepo,
		kafkaProducer,
		domain.ToGraderType(cfg.Grading.FirstGraderType),
		cfg.Kafka.Topic,
		log,
	)

	resultsService := service.NewResultsService(
		submissionRepo,
		gradeRepo,
		queueClient,
		log,
	)

	ingestWorker := NewIngestWorker(queueClient, ingestService, cfg.XQueue.QueueName, cfg.XQueue.PollInterval, log)
	resultsWorker := NewResultsWorker(resultsService, cfg.Grading.ResultsInterval, log)

	go ingestWorker.Start(ctx)
	go resultsWorker.Start(ctx)

	log.Infof("Grading service started, pulling from queue %q", cfg.XQueue.QueueName)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	cancel()
	log.Info("Service stopped")
}
