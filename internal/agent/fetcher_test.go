package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
	"github.com/vonhatnam1212/norugz-agent/pkg/config"
)

func timelineTweet(id string, age time.Duration) twitter.Tweet {
	return twitter.Tweet{
		ID:        id,
		AuthorID:  "u-" + id,
		Username:  "target",
		Text:      "original post " + id,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestFetchCandidatesSamplingBound(t *testing.T) {
	tw := newStubTwitter()
	tw.mentions = []twitter.Tweet{
		{ID: "100", Username: "fan", Text: "@norugz_agent hi"},
	}
	tw.timelines["alice"] = []twitter.Tweet{
		timelineTweet("201", time.Minute),
		timelineTweet("202", time.Minute),
		timelineTweet("203", time.Minute),
	}
	tw.timelines["bob"] = []twitter.Tweet{
		timelineTweet("301", time.Minute),
		timelineTweet("302", time.Minute),
	}

	cfg := config.AgentConfig{TargetUsers: []string{"alice", "bob"}}
	a, _ := newTestAgent(t, cfg, tw, &stubEngine{}, "")

	candidates, err := a.fetchCandidates(context.Background())
	require.NoError(t, err)

	// One mention plus at most one pick per target user
	require.Len(t, candidates, 3)
	fromAlice, fromBob := 0, 0
	for _, c := range candidates {
		switch c.ID[0] {
		case '2':
			fromAlice++
		case '3':
			fromBob++
		}
	}
	assert.Equal(t, 1, fromAlice)
	assert.Equal(t, 1, fromBob)
}

func TestFetchCandidatesFiltersTargetPosts(t *testing.T) {
	tw := newStubTwitter()

	reply := timelineTweet("210", time.Minute)
	reply.IsReply = true
	retweet := timelineTweet("211", time.Minute)
	retweet.IsRetweet = true
	stale := timelineTweet("212", 3*time.Hour)
	processed := timelineTweet("190", time.Minute)

	tw.timelines["alice"] = []twitter.Tweet{reply, retweet, stale, processed}

	cfg := config.AgentConfig{TargetUsers: []string{"alice"}}
	a, _ := newTestAgent(t, cfg, tw, &stubEngine{}, "")
	a.watermark.Advance("200")

	candidates, err := a.fetchCandidates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFetchCandidatesTargetErrorIsolated(t *testing.T) {
	tw := newStubTwitter()
	tw.timelineErrs["alice"] = errors.New("rate limited")
	tw.timelines["bob"] = []twitter.Tweet{timelineTweet("301", time.Minute)}

	cfg := config.AgentConfig{TargetUsers: []string{"alice", "bob"}}
	a, _ := newTestAgent(t, cfg, tw, &stubEngine{}, "")

	candidates, err := a.fetchCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "301", candidates[0].ID)
}

func TestFetchCandidatesDeduplicatesMentionOverlap(t *testing.T) {
	tw := newStubTwitter()
	overlap := timelineTweet("400", time.Minute)
	tw.mentions = []twitter.Tweet{overlap}
	tw.timelines["alice"] = []twitter.Tweet{overlap}

	cfg := config.AgentConfig{TargetUsers: []string{"alice"}}
	a, _ := newTestAgent(t, cfg, tw, &stubEngine{}, "")

	candidates, err := a.fetchCandidates(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestFetchCandidatesSearchErrorFailsCycle(t *testing.T) {
	tw := newStubTwitter()
	tw.searchErr = errors.New("platform unreachable")

	a, _ := newTestAgent(t, config.AgentConfig{}, tw, &stubEngine{}, "")

	_, err := a.fetchCandidates(context.Background())
	require.Error(t, err)
}
