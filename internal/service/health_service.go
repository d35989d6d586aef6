package service

import (
	"context"
	"database/sql"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Health status constants
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// HealthStatus represents the overall health of the service
type HealthStatus struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
}

// HealthChecker verifies connectivity to the engine's collaborators
type HealthChecker struct {
	db       *sql.DB
	queueURL string
	version  string
}

// NewHealthService creates a new HealthChecker instance
func NewHealthService(db *sql.DB, queueURL, version string) *HealthChecker {
	return &HealthChecker{db: db, queueURL: queueURL, version: version}
}

// CheckHealth pings the database and broker and reports overall status:
// no database means unhealthy, no broker means degraded (synchronous
// dispatch still works without the queue).
func (h *HealthChecker) CheckHealth() (*HealthStatus, error) {
	services := map[string]string{
		"database": h.checkDatabase(),
		"queue":    h.checkQueue(),
	}

	status := StatusHealthy
	if services["queue"] == StatusDisconnected {
		status = StatusDegraded
	}
	if services["database"] == StatusDisconnected {
		status = StatusUnhealthy
	}

	return &HealthStatus{
		Status:    status,
		Services:  services,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}, nil
}

func (h *HealthChecker) checkDatabase() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return StatusDisconnected
	}
	return StatusConnected
}

func (h *HealthChecker) checkQueue() string {
	conn, err := amqp.Dial(h.queueURL)
	if err != nil {
		return StatusDisconnected
	}
	defer conn.Close()

	return StatusConnected
}
