package agent

import (
	"context"
	"strings"

	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
	"go.uber.org/zap"
)

// defaultMaxThreadDepth bounds the upward reply walk.
const defaultMaxThreadDepth = 10

// buildThread walks the in-reply-to chain upward from leaf and returns the
// thread oldest first, ending with the leaf. Every visited tweet is stored
// as a conversation message exactly once. Parent fetch failures end the
// walk at that point instead of propagating.
func (a *Agent) buildThread(ctx context.Context, leaf *twitter.Tweet, maxDepth int) []*twitter.Tweet {
	visited := make(map[string]struct{})
	var thread []*twitter.Tweet
	a.walkThread(ctx, leaf, 0, maxDepth, visited, &thread)
	return thread
}

func (a *Agent) walkThread(ctx context.Context, t *twitter.Tweet, depth, maxDepth int, visited map[string]struct{}, thread *[]*twitter.Tweet) {
	if t == nil {
		return
	}
	if depth >= maxDepth {
		a.logger.Debug("Thread depth limit reached",
			zap.String("tweet_id", t.ID),
			zap.Int("depth", depth))
		return
	}

	// Persist before the cycle check: re-upserting a revisited node is a
	// harmless no-op, and a fresh node must be stored even if the walk
	// stops right after.
	if err := a.ensureTweetStored(ctx, t); err != nil {
		a.logger.Error("Failed to store thread tweet",
			zap.Error(err),
			zap.String("tweet_id", t.ID))
	}

	if _, ok := visited[t.ID]; ok {
		a.logger.Debug("Already visited tweet in thread, stopping",
			zap.String("tweet_id", t.ID))
		return
	}
	visited[t.ID] = struct{}{}

	// Prepend so the finished thread reads oldest to newest
	*thread = append([]*twitter.Tweet{t}, *thread...)

	if t.InReplyToID == "" {
		return
	}

	parent, err := a.twitter.GetTweet(ctx, t.InReplyToID)
	if err != nil {
		a.logger.Warn("Failed to fetch parent tweet, ending thread walk",
			zap.Error(err),
			zap.String("tweet_id", t.ID),
			zap.String("parent_id", t.InReplyToID))
		return
	}

	a.walkThread(ctx, parent, depth+1, maxDepth, visited, thread)
}

// ensureTweetStored creates the conversation message for a tweet if it does
// not exist yet, registering the author/room connection first.
func (a *Agent) ensureTweetStored(ctx context.Context, t *twitter.Tweet) error {
	msgID := models.MessageID(t.ID, a.agentID)

	existing, err := a.store.GetMessage(ctx, msgID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	roomID := models.RoomID(conversationOf(t))
	userID := a.resolveUserID(t)

	if err := a.store.EnsureConnection(ctx, userID, roomID, t.Username, t.Name, sourceTwitter); err != nil {
		return err
	}

	msg := &models.ConversationMessage{
		ID:             msgID,
		AgentID:        a.agentID,
		UserID:         userID,
		RoomID:         roomID,
		Text:           t.Text,
		AttachmentURLs: t.PhotoURLs,
		Source:         sourceTwitter,
		CreatedAt:      t.CreatedAt,
	}
	if t.InReplyToID != "" {
		msg.InReplyTo = models.MessageID(t.InReplyToID, a.agentID)
	}

	return a.store.CreateMessage(ctx, msg)
}

// resolveUserID maps a tweet author to a stored user id. The agent's own
// tweets map to the agent id so its messages thread correctly.
func (a *Agent) resolveUserID(t *twitter.Tweet) string {
	if strings.EqualFold(t.Username, a.cfg.Username) {
		return a.agentID
	}
	return models.UserID(t.AuthorID)
}

// conversationOf picks the room key: the platform conversation id when
// present, else the tweet stands alone as its own conversation.
func conversationOf(t *twitter.Tweet) string {
	if t.ConversationID != "" {
		return t.ConversationID
	}
	return t.ID
}
