package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vonhatnam1212/norugz-agent/internal/classifier"
	"github.com/vonhatnam1212/norugz-agent/internal/launchpad"
	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"github.com/vonhatnam1212/norugz-agent/internal/storage"
	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
	"github.com/vonhatnam1212/norugz-agent/pkg/config"
	"go.uber.org/zap"
)

type postedReply struct {
	Text        string
	InReplyToID string
}

// stubTwitter is an in-memory twitter.Client for tests.
type stubTwitter struct {
	mentions     []twitter.Tweet
	searchErr    error
	timelines    map[string][]twitter.Tweet
	timelineErrs map[string]error
	tweets       map[string]*twitter.Tweet
	posted       []postedReply
	postErr      error
}

func newStubTwitter() *stubTwitter {
	return &stubTwitter{
		timelines:    make(map[string][]twitter.Tweet),
		timelineErrs: make(map[string]error),
		tweets:       make(map[string]*twitter.Tweet),
	}
}

func (s *stubTwitter) SearchRecent(ctx context.Context, query string, limit int) ([]twitter.Tweet, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.mentions, nil
}

func (s *stubTwitter) GetTweet(ctx context.Context, id string) (*twitter.Tweet, error) {
	if t, ok := s.tweets[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, fmt.Errorf("tweet %s not found", id)
}

func (s *stubTwitter) UserTimeline(ctx context.Context, username string, limit int) ([]twitter.Tweet, error) {
	if err := s.timelineErrs[username]; err != nil {
		return nil, err
	}
	return s.timelines[username], nil
}

func (s *stubTwitter) PostReply(ctx context.Context, text, inReplyToID string) (*twitter.Tweet, error) {
	if s.postErr != nil {
		return nil, s.postErr
	}
	s.posted = append(s.posted, postedReply{Text: text, InReplyToID: inReplyToID})
	return &twitter.Tweet{
		ID:          fmt.Sprintf("900%d", len(s.posted)),
		Text:        text,
		InReplyToID: inReplyToID,
	}, nil
}

// stubEngine answers intent classifiers by sniffing the prompt text, the
// same way the real prompts distinguish themselves.
type stubEngine struct {
	tokenVerdict models.Verdict
	betVerdict   models.Verdict
	replyVerdict models.Verdict

	generated   *models.Reply
	generateErr error
	classifyErr error

	classifyCalls int
	generateCalls int
}

func (s *stubEngine) ShouldRespond(ctx context.Context, prompt string, class classifier.ModelClass) (models.Verdict, error) {
	s.classifyCalls++
	if s.classifyErr != nil {
		return models.VerdictNone, s.classifyErr
	}
	switch {
	case strings.Contains(prompt, "meme coin"):
		return s.tokenVerdict, nil
	case strings.Contains(prompt, "prediction market"):
		return s.betVerdict, nil
	default:
		return s.replyVerdict, nil
	}
}

func (s *stubEngine) GenerateReply(ctx context.Context, prompt string, class classifier.ModelClass) (*models.Reply, error) {
	s.generateCalls++
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	if s.generated != nil {
		copied := *s.generated
		return &copied, nil
	}
	return &models.Reply{Text: "gm, love this"}, nil
}

func (s *stubEngine) DescribeImage(ctx context.Context, imageURL string) (*models.ImageDescription, error) {
	return &models.ImageDescription{Title: "Image", Description: "a picture"}, nil
}

func newTestAgent(t *testing.T, cfg config.AgentConfig, tw twitter.Client, engine classifier.Engine, launchpadURL string) (*Agent, *storage.MemoryStorage) {
	t.Helper()

	if cfg.Username == "" {
		cfg.Username = "norugz_agent"
	}

	store := storage.NewMemoryStorage()
	logger := zap.NewNop()
	a := New(cfg, tw, store, engine, launchpad.NewClient(launchpadURL, logger), nil, logger)

	w, err := LoadWatermark(context.Background(), store, a.agentID, logger)
	require.NoError(t, err)
	a.watermark = w

	return a, store
}
