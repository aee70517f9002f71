package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/vonhatnam1212/norugz-agent/internal/classifier"
	"github.com/vonhatnam1212/norugz-agent/internal/launchpad"
	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
	"go.uber.org/zap"
)

const (
	tokenFailureMessage = "Error creating token, please try again later."
	betFailureMessage   = "Error creating bet, please try again later."

	actionCreateToken = "CREATE_TOKEN"
	actionCreateBet   = "CREATE_BET"
	actionContinue    = "CONTINUE"

	betExpiry = 7 * 24 * time.Hour
	// Placeholder stakes; the user adjusts them on the launchpad page
	betAmount     = "0.1"
	betPoolAmount = "0.1"
	betCategory   = "social"
)

// dispatchTokenCreation extracts the requested token concept, asks the
// launchpad to create it, and posts exactly one reply either way.
func (a *Agent) dispatchTokenCreation(ctx context.Context, t *twitter.Tweet, convCtx conversationContext) error {
	reply, err := a.engine.GenerateReply(ctx, tokenConceptPrompt(convCtx.render()), classifier.ModelMedium)
	if err != nil {
		return fmt.Errorf("failed to extract token concept: %w", err)
	}

	text := reply.Text
	redirectURL, err := a.launchpad.CreateToken(ctx, t.Username, reply.Text)
	if err != nil {
		a.logger.Error("Token creation failed",
			zap.Error(err),
			zap.String("tweet_id", t.ID),
			zap.String("username", t.Username))
		text = tokenFailureMessage
	} else {
		text = text + "\n" + redirectURL
		a.logger.Info("Token created",
			zap.String("tweet_id", t.ID),
			zap.String("username", t.Username),
			zap.String("redirect_url", redirectURL))
		a.notifier.Notifyf("🪙 Created token for @%s: %s", t.Username, redirectURL)
	}

	return a.sendReply(ctx, t, text, actionCreateToken)
}

// dispatchBetCreation extracts the requested bet, creates it with fixed
// placeholder amounts and a 7-day expiry, and posts exactly one reply.
func (a *Agent) dispatchBetCreation(ctx context.Context, t *twitter.Tweet, convCtx conversationContext) error {
	reply, err := a.engine.GenerateReply(ctx, betDetailsPrompt(convCtx.render()), classifier.ModelMedium)
	if err != nil {
		return fmt.Errorf("failed to extract bet details: %w", err)
	}

	req := launchpad.CreateBetRequest{
		TwitterHandle:     t.Username,
		Title:             reply.Text,
		Description:       reply.Text,
		Category:          betCategory,
		EndDate:           time.Now().Add(betExpiry).Unix(),
		Amount:            betAmount,
		InitialPoolAmount: betPoolAmount,
	}
	if len(t.PhotoURLs) > 0 {
		req.ImageURL = t.PhotoURLs[0]
	}

	var text string
	redirectURL, err := a.launchpad.CreateBet(ctx, req)
	if err != nil {
		a.logger.Error("Bet creation failed",
			zap.Error(err),
			zap.String("tweet_id", t.ID),
			zap.String("username", t.Username))
		text = betFailureMessage
	} else {
		text = fmt.Sprintf("Your bet is live! Place your stake here: %s", redirectURL)
		a.logger.Info("Bet created",
			zap.String("tweet_id", t.ID),
			zap.String("username", t.Username),
			zap.String("redirect_url", redirectURL))
		a.notifier.Notifyf("🎲 Created bet for @%s: %s", t.Username, redirectURL)
	}

	return a.sendReply(ctx, t, text, actionCreateBet)
}

// dispatchReply generates and posts a conversational reply, resolving any
// named action the model attached. In dry-run mode the reply is logged
// and nothing is posted or persisted.
func (a *Agent) dispatchReply(ctx context.Context, t *twitter.Tweet, convCtx conversationContext) error {
	rendered := convCtx.render()

	reply, err := a.engine.GenerateReply(ctx, a.replyPrompt(rendered), classifier.ModelLarge)
	if err != nil {
		return fmt.Errorf("failed to generate reply: %w", err)
	}

	text := stripWrappingQuotes(reply.Text)
	if text == "" {
		a.logger.Info("Empty generated reply, nothing to post", zap.String("tweet_id", t.ID))
		return nil
	}

	if a.cfg.DryRun {
		a.logger.Info("Dry run: reply not posted",
			zap.String("tweet_id", t.ID),
			zap.String("text", text))
		return nil
	}

	action := a.lookupAction(reply.Action)

	var responses []*models.ConversationMessage
	if action != nil && action.SuppressInitialMessage {
		// The action owns the outbound side effect; record a local-only
		// message instead of posting. The "local" suffix keeps its id
		// from colliding with the stored inbound tweet.
		responses = append(responses, a.outboundMessage(t, t.ID+"-local", text))
	} else {
		posted, err := a.twitter.PostReply(ctx, text, t.ID)
		if err != nil {
			return fmt.Errorf("failed to post reply: %w", err)
		}
		responses = append(responses, a.outboundMessage(t, posted.ID, text))
	}

	// The final message carries the action tag; any earlier ones in a
	// multi-step sequence are continuations
	for i, resp := range responses {
		if i < len(responses)-1 {
			resp.Action = actionContinue
		} else if action != nil {
			resp.Action = action.Name
		}
	}

	for _, resp := range responses {
		if err := a.store.CreateMessage(ctx, resp); err != nil {
			a.logger.Error("Failed to persist outbound message",
				zap.Error(err),
				zap.String("message_id", resp.ID))
		}
	}

	inboundID := models.MessageID(t.ID, a.agentID)
	inbound, err := a.store.GetMessage(ctx, inboundID)
	if err != nil {
		a.logger.Error("Failed to load inbound message for actions", zap.Error(err))
	} else {
		a.runActions(ctx, inbound, responses)
	}

	cacheValue := fmt.Sprintf("Context:\n%s\n\nResponse:\n%s", rendered, text)
	if err := a.store.CacheResponse(ctx, "twitter/response/"+t.ID, cacheValue); err != nil {
		a.logger.Error("Failed to cache response", zap.Error(err), zap.String("tweet_id", t.ID))
	}

	a.postDelay()
	return nil
}

// sendReply posts one reply for the token/bet paths and persists the
// outbound message. Posting failures abort only this candidate's dispatch.
func (a *Agent) sendReply(ctx context.Context, t *twitter.Tweet, text, actionTag string) error {
	posted, err := a.twitter.PostReply(ctx, text, t.ID)
	if err != nil {
		return fmt.Errorf("failed to post reply: %w", err)
	}

	msg := a.outboundMessage(t, posted.ID, text)
	msg.Action = actionTag
	if err := a.store.CreateMessage(ctx, msg); err != nil {
		a.logger.Error("Failed to persist outbound message",
			zap.Error(err),
			zap.String("message_id", msg.ID))
	}

	a.postDelay()
	return nil
}

// outboundMessage builds the stored record for a reply the agent produced
// to tweet t. postedID is the id of the published tweet, or a synthetic
// key for local-only records. Hashing the published id means a later
// thread walk over the agent's own reply finds this record already there.
func (a *Agent) outboundMessage(t *twitter.Tweet, postedID, text string) *models.ConversationMessage {
	return &models.ConversationMessage{
		ID:        models.MessageID(postedID, a.agentID),
		AgentID:   a.agentID,
		UserID:    a.agentID,
		RoomID:    models.RoomID(conversationOf(t)),
		Text:      text,
		InReplyTo: models.MessageID(t.ID, a.agentID),
		Source:    sourceTwitter,
		CreatedAt: time.Now(),
	}
}

// postDelay pauses after publishing a tweet. Zero in tests.
func (a *Agent) postDelay() {
	if d := a.cfg.PostDelay(); d > 0 {
		time.Sleep(d)
	}
}

// stripWrappingQuotes removes one layer of quotes the model sometimes
// wraps its reply in.
func stripWrappingQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
