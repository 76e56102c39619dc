package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Component statuses, ordered from best to worst.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

var statusRank = map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports whether the recipe store answers and how many recipes the search index holds",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes one backing component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Time the check took"`
	Message string `json:"message,omitempty" doc:"What the check found"`
}

// HealthResponse is the worst component status plus every component.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Worst status across components"`
	Components map[string]ComponentHealth `json:"components" doc:"Per-component results, keyed database and search"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkRecipeStore(ctx),
		"search":   s.checkRecipeIndex(),
	}

	// The index is rebuilt from the store, so its failures cap at degraded.
	overall := statusHealthy
	for name, c := range components {
		status := c.Status
		if name == "search" && status == statusUnhealthy {
			status = statusDegraded
		}
		if statusRank[status] > statusRank[overall] {
			overall = status
		}
	}

	return &HealthOutput{Body: HealthResponse{Status: overall, Components: components}}, nil
}

// checkRecipeStore pings the sqlite pool and reads the users table.
func (s *Server) checkRecipeStore(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "sqlite store not wired"}
	}

	start := time.Now()
	if err := s.store.Ping(ctx); err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: time.Since(start).String(),
			Message: "sqlite pool did not answer ping",
		}
	}
	users, err := s.store.CountUsers(ctx)
	latency := time.Since(start).String()
	if err != nil {
		return ComponentHealth{Status: statusUnhealthy, Latency: latency, Message: "users table unreadable"}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency,
		Message: fmt.Sprintf("sqlite ok, %d accounts", users),
	}
}

// checkRecipeIndex reads the bleve document count. An empty index is
// degraded: search answers, but finds nothing until a reindex runs.
func (s *Server) checkRecipeIndex() ComponentHealth {
	if s.services == nil || s.services.Search == nil {
		return ComponentHealth{Status: statusDegraded, Message: "bleve index not wired"}
	}

	start := time.Now()
	docs, err := s.services.Search.DocumentCount()
	latency := time.Since(start).String()

	switch {
	case err != nil:
		return ComponentHealth{Status: statusUnhealthy, Latency: latency, Message: "bleve index unreadable"}
	case docs == 0:
		return ComponentHealth{Status: statusDegraded, Latency: latency, Message: "bleve index holds no recipes"}
	default:
		return ComponentHealth{
			Status:  statusHealthy,
			Latency: latency,
			Message: fmt.Sprintf("bleve index holds %d recipes", docs),
		}
	}
}
