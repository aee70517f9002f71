package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/vonhatnam1212/norugz-agent/internal/classifier"
	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
	"go.uber.org/zap"
)

// intentRoute pairs one intent classifier with its response path. Routes
// are evaluated in order and the first RESPOND verdict wins, so at most
// one side effect runs per candidate.
type intentRoute struct {
	name   string
	prompt func(rendered string) string
	handle func(ctx context.Context, t *twitter.Tweet, convCtx conversationContext) error
}

// processCandidate runs the decision pipeline for one unprocessed tweet.
func (a *Agent) processCandidate(ctx context.Context, t *twitter.Tweet) error {
	// Never answer our own tweets unless the account is explicitly
	// targeted; this is what breaks self-reply loops
	if strings.EqualFold(t.Username, a.cfg.Username) && !a.isTargetUser(t.Username) {
		a.logger.Debug("Skipping own tweet", zap.String("tweet_id", t.ID))
		return nil
	}

	if strings.TrimSpace(t.Text) == "" {
		a.logger.Info("Skipping tweet with empty text", zap.String("tweet_id", t.ID))
		return nil
	}

	thread := a.buildThread(ctx, t, defaultMaxThreadDepth)

	// Image lookups degrade to "no descriptions" on failure
	var descs []*models.ImageDescription
	for _, photoURL := range t.PhotoURLs {
		desc, err := a.engine.DescribeImage(ctx, photoURL)
		if err != nil {
			a.logger.Warn("Failed to describe image",
				zap.Error(err),
				zap.String("tweet_id", t.ID),
				zap.String("url", photoURL))
			continue
		}
		descs = append(descs, desc)
	}

	convCtx := conversationContext{
		persona:     a.personaBlock(),
		currentPost: formatTweet(t),
		thread:      formatThread(thread),
		images:      formatImageDescriptions(descs),
	}

	// buildThread stored the leaf already; this keeps the invariant
	// explicit and is a no-op when it did
	if err := a.ensureTweetStored(ctx, t); err != nil {
		return fmt.Errorf("failed to store inbound tweet: %w", err)
	}

	rendered := convCtx.render()

	// Precedence: token creation, then bet creation, then generic reply
	routes := []intentRoute{
		{name: "create_token", prompt: tokenRequestPrompt, handle: a.dispatchTokenCreation},
		{name: "create_bet", prompt: betRequestPrompt, handle: a.dispatchBetCreation},
		{name: "reply", prompt: shouldRespondPrompt, handle: a.dispatchReply},
	}

	for _, route := range routes {
		verdict, err := a.engine.ShouldRespond(ctx, route.prompt(rendered), classifier.ModelMedium)
		if err != nil {
			return fmt.Errorf("failed to classify %s intent: %w", route.name, err)
		}

		a.logger.Debug("Intent classified",
			zap.String("tweet_id", t.ID),
			zap.String("intent", route.name),
			zap.String("verdict", verdict.String()))

		if verdict == models.VerdictRespond {
			return route.handle(ctx, t, convCtx)
		}
	}

	a.logger.Info("No response warranted",
		zap.String("tweet_id", t.ID),
		zap.String("username", t.Username))
	return nil
}

func (a *Agent) isTargetUser(username string) bool {
	for _, u := range a.cfg.TargetUsers {
		if strings.EqualFold(u, username) {
			return true
		}
	}
	return false
}
