// Package agent implements the Twitter interaction loop: poll for
// mentions and target-user posts, decide whether and how to respond, and
// dispatch the winning response path.
package agent

import (
	"context"
	"sort"
	"time"

	"github.com/vonhatnam1212/norugz-agent/internal/classifier"
	"github.com/vonhatnam1212/norugz-agent/internal/launchpad"
	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"github.com/vonhatnam1212/norugz-agent/internal/notify"
	"github.com/vonhatnam1212/norugz-agent/internal/storage"
	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
	"github.com/vonhatnam1212/norugz-agent/pkg/config"
	"go.uber.org/zap"
)

const sourceTwitter = "twitter"

type Agent struct {
	cfg       config.AgentConfig
	agentID   string
	twitter   twitter.Client
	store     storage.Storage
	engine    classifier.Engine
	launchpad *launchpad.Client
	notifier  *notify.Notifier
	logger    *zap.Logger
	actions   []Action
	watermark *Watermark
}

func New(cfg config.AgentConfig, tw twitter.Client, store storage.Storage, engine classifier.Engine, lp *launchpad.Client, notifier *notify.Notifier, logger *zap.Logger) *Agent {
	return &Agent{
		cfg:       cfg,
		agentID:   models.UserID("agent-" + cfg.Username),
		twitter:   tw,
		store:     store,
		engine:    engine,
		launchpad: lp,
		notifier:  notifier,
		logger:    logger,
	}
}

// AgentID returns the agent's deterministic stored-user id.
func (a *Agent) AgentID() string {
	return a.agentID
}

// Start runs the interaction loop until ctx is cancelled. The next cycle
// is scheduled only after the current one finishes, so cycles never
// overlap. Cycle errors are logged and the loop keeps going.
func (a *Agent) Start(ctx context.Context) error {
	w, err := LoadWatermark(ctx, a.store, a.agentID, a.logger)
	if err != nil {
		return err
	}
	a.watermark = w

	a.logger.Info("Starting Twitter interaction loop",
		zap.String("username", a.cfg.Username),
		zap.Strings("target_users", a.cfg.TargetUsers),
		zap.Duration("poll_interval", a.cfg.PollInterval()),
		zap.Bool("dry_run", a.cfg.DryRun),
		zap.String("watermark", w.Value()))

	for {
		if err := a.runCycle(ctx); err != nil {
			a.logger.Error("Interaction cycle failed", zap.Error(err))
			a.notifier.Notifyf("⚠️ @%s cycle failed: %v", a.cfg.Username, err)
		}

		select {
		case <-ctx.Done():
			a.logger.Info("Interaction loop stopped")
			return nil
		case <-time.After(a.cfg.PollInterval()):
		}
	}
}

// runCycle performs one fetch-process-flush pass.
func (a *Agent) runCycle(ctx context.Context) error {
	candidates, err := a.fetchCandidates(ctx)
	if err != nil {
		return err
	}

	// Ascending id order makes processing deterministic within a cycle
	sort.Slice(candidates, func(i, j int) bool {
		return compareTweetIDs(candidates[i].ID, candidates[j].ID) < 0
	})

	processed := 0
	for i := range candidates {
		t := &candidates[i]
		if a.watermark.Seen(t.ID) {
			continue
		}

		if err := a.processCandidate(ctx, t); err != nil {
			// Failed candidates still advance the watermark; retrying
			// them next cycle would repeat the same failing dispatch
			a.logger.Error("Failed to process candidate",
				zap.Error(err),
				zap.String("tweet_id", t.ID),
				zap.String("username", t.Username))
		}
		a.watermark.Advance(t.ID)
		processed++
	}

	if err := a.watermark.Flush(ctx); err != nil {
		return err
	}

	if processed > 0 {
		a.logger.Info("Cycle complete",
			zap.Int("candidates", len(candidates)),
			zap.Int("processed", processed),
			zap.String("watermark", a.watermark.Value()))
	}
	return nil
}
