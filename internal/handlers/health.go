package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"notebase/internal/contextutil"
)

// HealthHandler reports the status of the service and its dependencies.
type HealthHandler struct {
	db          *sql.DB
	checkVector func(ctx context.Context) error
	timeout     time.Duration
}

// NewHealthHandler creates a new HealthHandler. checkVector probes the vector
// store and may be nil when no vector store is configured.
func NewHealthHandler(db *sql.DB, checkVector func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{
		db:          db,
		checkVector: checkVector,
		timeout:     5 * time.Second,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// ServeHTTP handles GET /healthz. Returns 200 when every dependency responds,
// 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	logger := contextutil.LoggerFromContext(r.Context())

	checks := make(map[string]string)
	var issues []string

	if err := h.db.PingContext(ctx); err != nil {
		logger.Error("database health check failed", "error", err)
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
	} else {
		checks["database"] = "ok"
	}

	if h.checkVector != nil {
		if err := h.checkVector(ctx); err != nil {
			logger.Error("vector store health check failed", "error", err)
			checks["vector_store"] = "error"
			issues = append(issues, "vector_store_unavailable")
		} else {
			checks["vector_store"] = "ok"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}
