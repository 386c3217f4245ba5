package handler

import (
	"context"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// HealthHandler reports whether the store answers a ping.
func HealthHandler(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.WithError(err).Error("health check: database ping failed")
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:    "unhealthy",
				Timestamp: time.Now().UTC(),
				Database:  "disconnected",
			})
			return
		}

		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Database:  "connected",
		})
	}
}
