package agent

import (
	"context"
	"strings"

	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"go.uber.org/zap"
)

// Action is a named side-effect handler the model can attach to a reply.
// When SuppressInitialMessage is set the generated text is recorded but
// not posted; the handler owns the outbound effect instead.
type Action struct {
	Name                   string
	SuppressInitialMessage bool
	Handler                func(ctx context.Context, inbound *models.ConversationMessage, responses []*models.ConversationMessage) error
}

// RegisterAction adds an action to the registry. Call before Start.
func (a *Agent) RegisterAction(act Action) {
	a.actions = append(a.actions, act)
}

func (a *Agent) lookupAction(name string) *Action {
	if name == "" {
		return nil
	}
	for i := range a.actions {
		if strings.EqualFold(a.actions[i].Name, name) {
			return &a.actions[i]
		}
	}
	return nil
}

// runActions invokes the handler for each response carrying a registered
// action tag. Handler errors are logged, never propagated.
func (a *Agent) runActions(ctx context.Context, inbound *models.ConversationMessage, responses []*models.ConversationMessage) {
	for _, resp := range responses {
		if resp.Action == "" || resp.Action == actionContinue {
			continue
		}
		act := a.lookupAction(resp.Action)
		if act == nil || act.Handler == nil {
			continue
		}
		if err := act.Handler(ctx, inbound, responses); err != nil {
			a.logger.Error("Action handler failed",
				zap.Error(err),
				zap.String("action", act.Name),
				zap.String("message_id", resp.ID))
		}
	}
}
