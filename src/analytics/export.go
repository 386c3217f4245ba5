package analytics

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"papertrading/src/model"
)

type sessionFinder interface {
	FindBySessionID(ctx context.Context, sessionID string) (*model.TradingSession, error)
}

type configFinder interface {
	Latest(ctx context.Context, sessionID string) (*model.TradingConfig, error)
}

type tradeLister interface {
	ListAll(ctx context.Context, sessionID string) ([]model.Trade, error)
}

type portfolioLister interface {
	ListAll(ctx context.Context, sessionID string) ([]model.PortfolioState, error)
}

type logLister interface {
	ListAll(ctx context.Context, sessionID string) ([]model.AgentLog, error)
}

// Exporter dumps everything recorded for a session.
type Exporter struct {
	sessions  sessionFinder
	configs   configFinder
	trades    tradeLister
	portfolio portfolioLister
	logs      logLister
	now       func() time.Time
}

func NewExporter(
	sessions sessionFinder,
	configs configFinder,
	trades tradeLister,
	portfolio portfolioLister,
	logs logLister,
) *Exporter {
	return &Exporter{
		sessions:  sessions,
		configs:   configs,
		trades:    trades,
		portfolio: portfolio,
		logs:      logs,
		now:       time.Now,
	}
}

// Export reads the session, its latest config and all of its trades,
// portfolio snapshots and logs concurrently. Any failed read fails the export.
func (e *Exporter) Export(ctx context.Context, sessionID string) (*model.SessionExport, error) {
	out := &model.SessionExport{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Session, err = e.sessions.FindBySessionID(gctx, sessionID)
		return wrap("session", err)
	})
	g.Go(func() (err error) {
		out.Config, err = e.configs.Latest(gctx, sessionID)
		return wrap("config", err)
	})
	g.Go(func() (err error) {
		out.Trades, err = e.trades.ListAll(gctx, sessionID)
		return wrap("trades", err)
	})
	g.Go(func() (err error) {
		out.Portfolio, err = e.portfolio.ListAll(gctx, sessionID)
		return wrap("portfolio", err)
	})
	g.Go(func() (err error) {
		out.Logs, err = e.logs.ListAll(gctx, sessionID)
		return wrap("logs", err)
	})

	if err := g.Wait(); err != nil {
		logger.WithFields(map[string]interface{}{
			"component":  "Exporter",
			"op":         "Export",
			"session_id": sessionID,
		}).WithError(err).Error("Failed to export session")

		return nil, err
	}

	out.ExportedAt = e.now().UTC()
	return out, nil
}

func wrap(part string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("export %s: %w", part, err)
}
