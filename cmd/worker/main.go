package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"classtrack/internal/config"
	"classtrack/internal/logging"
	"classtrack/internal/metrics"
	"classtrack/internal/queue"
	"classtrack/internal/store"
)

// Worker consumes domain events and keeps the per-teacher report caches
// coherent across API instances.
func main() {
	cfg := config.Load()

	logg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logg.Closer()
	log := logg.Sugar

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	reportCache := store.NewReportCache(redisClient, cfg.ReportCacheTTL)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classtrack:events")
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalw("queue consume init failed", "err", err)
	}

	log.Info("worker started, waiting for events")
	for msg := range messages {
		evt, err := queue.DecodeEvent(msg)
		if err != nil {
			log.Warnw("bad event payload", "type", msg.Type, "err", err)
			continue
		}
		metrics.WorkerEvents.WithLabelValues(msg.Type).Inc()

		switch msg.Type {
		case "attendance.submitted", "roster.copied", "student.added", "student.deleted", "classroom.deleted":
			if evt.TeacherID != "" {
				reportCache.Invalidate(ctx, evt.TeacherID)
			}
			log.Debugw("event processed", "type", msg.Type, "teacher", evt.TeacherID, "classroom", evt.ClassroomID)
		default:
			log.Debugw("ignoring event", "type", msg.Type)
		}
	}

	log.Info("worker stopped")
}
