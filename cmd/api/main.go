package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/config"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/handler"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/middleware"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/queue"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/repository"
	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/service"
)

const version = "1.0.0"

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

	// Initialize repositories
	workflowRepo := repository.NewWorkflowRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	executionRepo := repository.NewExecutionRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize the automation engine
	workflowService := service.NewWorkflowService(
		workflowRepo,
		templateRepo,
		leadRepo,
		executionRepo,
		messageRepo,
		cfg.Company.Name,
		cfg.Company.Phone,
	)
	log.Println("✅ Automation engine initialized")

	// Connect to RabbitMQ for the async event intake. The API stays up
	// without it; only the async endpoint degrades.
	var publisher *queue.Publisher
	conn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Printf("⚠️  RabbitMQ unavailable, async event intake disabled: %v", err)
	} else {
		defer conn.Close()
		publisher, err = queue.NewPublisher(conn, queue.EventsQueueName)
		if err != nil {
			log.Printf("⚠️  Failed to create publisher, async event intake disabled: %v", err)
			publisher = nil
		} else {
			log.Println("✅ Connected to RabbitMQ")
		}
	}

	// Initialize handlers
	eventHandler := handler.NewEventHandler(workflowService, publisher)
	workflowHandler := handler.NewWorkflowHandler(workflowService, workflowRepo)
	executionHandler := handler.NewExecutionHandler(executionRepo)
	messageHandler := handler.NewMessageHandler(messageRepo)
	healthHandler := handler.NewHealthHandler(service.NewHealthService(db, cfg.GetRabbitMQURL(), version))

	// Create router
	router := mux.NewRouter()
	router.Use(middleware.Recovery)

	router.HandleFunc("/health", healthHandler.Check).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/events", eventHandler.Dispatch).Methods("POST")
	api.HandleFunc("/events/async", eventHandler.Enqueue).Methods("POST")
	api.HandleFunc("/workflows", workflowHandler.List).Methods("GET")
	api.HandleFunc("/workflows/{id}", workflowHandler.Get).Methods("GET")
	api.HandleFunc("/workflows/{id}/trigger", workflowHandler.Trigger).Methods("POST")
	api.HandleFunc("/executions", executionHandler.List).Methods("GET")
	api.HandleFunc("/executions/{id}", executionHandler.Get).Methods("GET")
	api.HandleFunc("/messages", messageHandler.List).Methods("GET")
	api.HandleFunc("/messages/{id}", messageHandler.Get).Methods("GET")

	// Start server
	port := ":" + cfg.Server.Port
	log.Printf("🚀 API server starting on port %s", port)
	log.Printf("🌍 Environment: %s", cfg.Env)

	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
