package cron

import (
	"fmt"

	"clinicbooking/config"
	"clinicbooking/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt returns the asynq connection for the notification queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewMux routes queued tasks to their handlers.
func NewMux(logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingCreated, tasks.HandleBookingCreated(logger))
	return mux
}

// NotificationWorker consumes the booking notification queue.
type NotificationWorker struct {
	srv    *asynq.Server
	logger *zap.Logger
}

func NewNotificationWorker(opt asynq.RedisConnOpt, concurrency int, logger *zap.Logger) *NotificationWorker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			tasks.NotificationQueue: 1,
		},
		Logger: logger.Sugar(),
	})
	return &NotificationWorker{srv: srv, logger: logger}
}

// Start runs the worker in the background.
func (w *NotificationWorker) Start() error {
	if err := w.srv.Start(NewMux(w.logger)); err != nil {
		return fmt.Errorf("failed to start notification worker: %w", err)
	}
	w.logger.Info("notification worker started")
	return nil
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *NotificationWorker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("notification worker stopped")
}
