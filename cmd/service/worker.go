package main

import (
	"context"
	"errors"
	"time"

	"grading_service/internal/service"
	"grading_service/internal/xqueue"
	"grading_service/pkg/logger"
)

// IngestWorker drains the external queue into the submission store.
type IngestWorker struct {
	queue     *xqueue.Client
	ingest    *service.IngestService
	queueName string
	interval  time.Duration
	logger    *logger.Logger
}

func NewIngestWorker(
	queue *xqueue.Client,
	ingest *service.IngestService,
	queueName string,
	interval time.Duration,
	logger *logger.Logger,
) *IngestWorker {
	return &IngestWorker{
		queue:     queue,
		ingest:    ingest,
		queueName: queueName,
		interval:  interval,
		logger:    logger,
	}
}

func (w *IngestWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Ingest worker stopped")
			return
		case <-ticker.C:
			w.drainQueue(ctx)
		}
	}
}

func (w *IngestWorker) drainQueue(ctx context.Context) {
	for {
		obj, err := w.queue.GetSubmission(ctx, w.queueName)
		if err != nil {
			if !errors.Is(err, xqueue.ErrEmptyQueue) {
				w.logger.Errorf("Failed to pull from queue %s: %v", w.queueName, err)
			}
			return
		}

		if _, err := w.ingest.Ingest(ctx, obj); err != nil {
			w.logger.Errorf("Failed to ingest queue object: %v", err)
		}
	}
}

// ResultsWorker periodically pushes finalized results back to the queue.
type ResultsWorker struct {
	results   *service.ResultsService
	interval  time.Duration
	batchSize int
	logger    *logger.Logger
}

func NewResultsWorker(results *service.ResultsService, interval time.Duration, logger *logger.Logger) *ResultsWorker {
	return &ResultsWorker{
		results:   results,
		interval:  interval,
		batchSize: 100,
		logger:    logger,
	}
}

func (w *ResultsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Results worker stopped")
			return
		case <-ticker.C:
			posted, err := w.results.PostPending(ctx, w.batchSize)
			if err != nil {
				w.logger.Errorf("Failed to post pending results: %v", err)
			}
			if posted > 0 {
				w.logger.Infof("Posted %d grading results to queue", posted)
			}
		}
	}
}
