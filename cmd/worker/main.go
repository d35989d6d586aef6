package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/config"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/queue"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/service"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Connected to database")

	// Initialize the automation engine
	workflowService := service.NewWorkflowService(
		repository.NewWorkflowRepository(db),
		repository.NewTemplateRepository(db),
		repository.NewLeadRepository(db),
		repository.NewExecutionRepository(db),
		repository.NewMessageRepository(db),
		cfg.Company.Name,
		cfg.Company.Phone,
	)
	log.Println("✅ Automation engine initialized")

	// Connect to RabbitMQ
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	// Start consuming trigger events
	consumer, err := queue.NewConsumer(conn, queue.EventsQueueName, createEventHandler(workflowService))
	if err != nil {
		log.Fatalf("Failed to create consumer: %v", err)
	}

	if err := consumer.Start(); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}
	log.Printf("✅ Worker started, consuming from queue: %s", queue.EventsQueueName)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down gracefully...")

	if err := consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	log.Println("✅ Worker stopped")
}

// createEventHandler builds the queue handler that feeds trigger events
// into the dispatcher. Dispatch itself is best-effort (per-workflow
// failures are recorded in the audit trail, not raised), so only a
// failure to even start dispatching requeues the event.
func createEventHandler(workflowService *service.WorkflowService) queue.EventHandler {
	return func(job *queue.TriggerEventJob) error {
		ctx := context.Background()

		log.Printf("📨 Processing trigger event: %s", job.Event)

		tc := &models.TriggerContext{
			EventName: job.Event,
			Data:      models.Payload(job.Data),
		}
		if job.LeadID != "" {
			tc.LeadID = &job.LeadID
		}
		if job.CustomerID != "" {
			tc.CustomerID = &job.CustomerID
		}
		if job.TriggeredBy != "" {
			tc.TriggeredBy = &job.TriggeredBy
		}

		result, err := workflowService.Dispatch(ctx, job.Event, tc)
		if err != nil {
			log.Printf("❌ Failed to dispatch event %q: %v", job.Event, err)
			return err
		}

		for _, msg := range result.Errors {
			log.Printf("⚠️  %s", msg)
		}

		return nil
	}
}
