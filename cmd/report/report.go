package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	logger "github.com/sirupsen/logrus"

	"papertrading/src/client"
)

var ErrBackendUnavailable = errors.New("paper trading API is not reachable")

// Report queries a running API for one session.
type Report struct {
	Log    *logger.Entry
	Config *Config
	client *client.Client
}

func New(log *logger.Entry, config *Config, sessionID string) *Report {
	return &Report{
		Log:    log,
		Config: config,
		client: client.New(config.APIBaseURL, sessionID, config.APITimeout),
	}
}

func (r *Report) ensureBackend(ctx context.Context) error {
	if !r.client.IsBackendAvailable(ctx) {
		r.Log.WithField("api", r.Config.APIBaseURL).Error("API health check failed")
		return ErrBackendUnavailable
	}
	return nil
}

// Analytics writes the session analytics to w as indented JSON.
func (r *Report) Analytics(ctx context.Context, w io.Writer) error {
	if err := r.ensureBackend(ctx); err != nil {
		return err
	}

	report, err := r.client.Analytics(ctx)
	if err != nil {
		return fmt.Errorf("fetch analytics: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Export saves the session export under dir and returns the file path.
func (r *Report) Export(ctx context.Context, dir string) (string, error) {
	if err := r.ensureBackend(ctx); err != nil {
		return "", err
	}

	raw, err := r.client.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch export: %w", err)
	}

	name := fmt.Sprintf("paper-trading-%s-%d.json", r.client.SessionID(), time.Now().UnixMilli())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	r.Log.WithFields(map[string]interface{}{
		"session_id": r.client.SessionID(),
		"path":       path,
		"bytes":      len(raw),
	}).Info("Session exported")

	return path, nil
}
