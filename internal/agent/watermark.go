package agent

import (
	"context"
	"fmt"
	"math/big"

	"github.com/vonhatnam1212/norugz-agent/internal/storage"
	"go.uber.org/zap"
)

// Watermark tracks the highest tweet id an agent has processed. Tweet ids
// exceed int64, so comparisons go through math/big. Advances are kept in
// memory during a cycle and flushed to storage once the cycle finishes.
type Watermark struct {
	agentID string
	store   storage.Storage
	current *big.Int
	dirty   bool
	logger  *zap.Logger
}

func LoadWatermark(ctx context.Context, store storage.Storage, agentID string, logger *zap.Logger) (*Watermark, error) {
	raw, err := store.GetWatermark(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load watermark: %w", err)
	}

	w := &Watermark{agentID: agentID, store: store, logger: logger}
	if raw != "" {
		n, ok := parseTweetID(raw)
		if !ok {
			logger.Warn("Stored watermark is not numeric, starting fresh",
				zap.String("watermark", raw))
		} else {
			w.current = n
		}
	}
	return w, nil
}

// Seen reports whether the tweet id is at or below the watermark. An unset
// watermark or an unparseable id counts as unseen.
func (w *Watermark) Seen(tweetID string) bool {
	if w.current == nil {
		return false
	}
	n, ok := parseTweetID(tweetID)
	if !ok {
		return false
	}
	return n.Cmp(w.current) <= 0
}

// Advance raises the watermark to tweetID if it is higher. The watermark
// never regresses.
func (w *Watermark) Advance(tweetID string) {
	n, ok := parseTweetID(tweetID)
	if !ok {
		w.logger.Warn("Ignoring non-numeric tweet id for watermark",
			zap.String("tweet_id", tweetID))
		return
	}
	if w.current == nil || n.Cmp(w.current) > 0 {
		w.current = n
		w.dirty = true
	}
}

// Flush persists the watermark if it moved since the last flush.
func (w *Watermark) Flush(ctx context.Context) error {
	if !w.dirty || w.current == nil {
		return nil
	}
	if err := w.store.SetWatermark(ctx, w.agentID, w.current.String()); err != nil {
		return fmt.Errorf("failed to persist watermark: %w", err)
	}
	w.dirty = false
	return nil
}

// Value returns the watermark as a decimal string, or "" when unset.
func (w *Watermark) Value() string {
	if w.current == nil {
		return ""
	}
	return w.current.String()
}

func parseTweetID(id string) (*big.Int, bool) {
	n, ok := new(big.Int).SetString(id, 10)
	if !ok || n.Sign() < 0 {
		return nil, false
	}
	return n, true
}

// compareTweetIDs orders two tweet ids numerically, falling back to string
// order when either side is not numeric.
func compareTweetIDs(a, b string) int {
	na, oka := parseTweetID(a)
	nb, okb := parseTweetID(b)
	if oka && okb {
		return na.Cmp(nb)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
