package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dhru-Will/dayflow-hrms/internal/attendance"
	"github.com/Dhru-Will/dayflow-hrms/internal/config"
	"github.com/Dhru-Will/dayflow-hrms/internal/queue"
	"github.com/Dhru-Will/dayflow-hrms/internal/store"
)

// Worker consumes attendance events and maintains the per-user monthly
// rollups the dashboard reads.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	}

	rollups := attendance.NewMonthlyRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for attendance events...")
	for msg := range messages {
		if msg.Type != queue.TypeAttendance {
			continue
		}

		evt, err := queue.DecodeAttendance(msg)
		if err != nil {
			log.Printf("decode attendance event failed: %v", err)
			continue
		}
		if len(evt.Date) < 7 || evt.UserID == "" {
			log.Printf("skipping malformed event: %+v", evt)
			continue
		}
		month := evt.Date[:7]

		switch evt.Kind {
		case "checkin":
			if err := rollups.RecordCheckIn(ctx, evt.UserID, month); err != nil {
				log.Printf("rollup check-in for %s/%s failed: %v", evt.UserID, month, err)
			}
		case "checkout":
			if err := rollups.RecordCheckOut(ctx, evt.UserID, month, evt.Hours); err != nil {
				log.Printf("rollup check-out for %s/%s failed: %v", evt.UserID, month, err)
			}
		default:
			log.Printf("unknown attendance event kind %q", evt.Kind)
		}
	}

	log.Println("worker stopped")
}
