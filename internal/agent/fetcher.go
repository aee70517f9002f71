package agent

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
	"go.uber.org/zap"
)

const (
	mentionSearchLimit  = 20
	targetTimelineLimit = 10
	// Target-user posts older than this are never picked up
	targetMaxAge = 2 * time.Hour
)

// fetchCandidates unions mention-search results with at most one recent
// original post per configured target user. A failed mention search fails
// the cycle; a failed timeline fetch only skips that target user.
func (a *Agent) fetchCandidates(ctx context.Context) ([]twitter.Tweet, error) {
	mentions, err := a.twitter.SearchRecent(ctx, "@"+a.cfg.Username, mentionSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search mentions: %w", err)
	}

	candidates := mentions
	seen := make(map[string]struct{}, len(mentions))
	for _, t := range mentions {
		seen[t.ID] = struct{}{}
	}

	for _, user := range a.cfg.TargetUsers {
		tweets, err := a.twitter.UserTimeline(ctx, user, targetTimelineLimit)
		if err != nil {
			a.logger.Error("Failed to fetch target user timeline",
				zap.Error(err),
				zap.String("target_user", user))
			continue
		}

		valid := make([]twitter.Tweet, 0, len(tweets))
		for _, t := range tweets {
			if t.IsReply || t.IsRetweet {
				continue
			}
			if a.watermark.Seen(t.ID) {
				continue
			}
			if time.Since(t.CreatedAt) > targetMaxAge {
				continue
			}
			valid = append(valid, t)
		}
		if len(valid) == 0 {
			continue
		}

		// One random post per target user per cycle bounds how often the
		// agent talks at any single account
		pick := valid[rand.Intn(len(valid))]
		if _, dup := seen[pick.ID]; dup {
			continue
		}
		seen[pick.ID] = struct{}{}
		candidates = append(candidates, pick)
	}

	return candidates, nil
}
