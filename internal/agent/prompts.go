package agent

import (
	"fmt"
	"strings"

	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"github.com/vonhatnam1212/norugz-agent/internal/twitter"
)

// conversationContext is everything the prompts need about one candidate:
// the rendered current post, its thread and any image descriptions.
type conversationContext struct {
	persona     string
	currentPost string
	thread      string
	images      string
}

func (c conversationContext) render() string {
	var b strings.Builder
	if c.persona != "" {
		b.WriteString(c.persona)
		b.WriteString("\n\n")
	}
	b.WriteString("Current post:\n")
	b.WriteString(c.currentPost)
	if c.thread != "" {
		b.WriteString("\n\nConversation thread (oldest first):\n")
		b.WriteString(c.thread)
	}
	if c.images != "" {
		b.WriteString("\n\nAttached images:\n")
		b.WriteString(c.images)
	}
	return b.String()
}

func (a *Agent) personaBlock() string {
	var b strings.Builder
	name := a.cfg.Name
	if name == "" {
		name = a.cfg.Username
	}
	fmt.Fprintf(&b, "You are %s (@%s) on Twitter.", name, a.cfg.Username)
	for _, line := range a.cfg.Bio {
		b.WriteString("\n")
		b.WriteString(line)
	}
	if len(a.cfg.Style) > 0 {
		b.WriteString("\nStyle rules:")
		for _, line := range a.cfg.Style {
			b.WriteString("\n- ")
			b.WriteString(line)
		}
	}
	return b.String()
}

func formatTweet(t *twitter.Tweet) string {
	return fmt.Sprintf("[%s] @%s (%s): %s",
		t.CreatedAt.Format("2006-01-02 15:04"), t.Username, t.Name, t.Text)
}

func formatThread(thread []*twitter.Tweet) string {
	lines := make([]string, 0, len(thread))
	for _, t := range thread {
		lines = append(lines, formatTweet(t))
	}
	return strings.Join(lines, "\n")
}

func formatImageDescriptions(descs []*models.ImageDescription) string {
	lines := make([]string, 0, len(descs))
	for _, d := range descs {
		lines = append(lines, fmt.Sprintf("%s: %s", d.Title, d.Description))
	}
	return strings.Join(lines, "\n")
}

const verdictInstruction = `Answer with exactly one word: RESPOND, IGNORE or STOP.`

func tokenRequestPrompt(rendered string) string {
	return fmt.Sprintf(`%s

Is the author of the current post asking you to create or launch a meme coin / token for them? Only answer RESPOND if the post clearly asks for a token or coin to be created. %s`, rendered, verdictInstruction)
}

func betRequestPrompt(rendered string) string {
	return fmt.Sprintf(`%s

Is the author of the current post asking you to create a bet or prediction market for them? Only answer RESPOND if the post clearly asks for a bet to be set up. %s`, rendered, verdictInstruction)
}

func shouldRespondPrompt(rendered string) string {
	return fmt.Sprintf(`%s

Decide whether to reply to the current post. RESPOND if it is directed at you and a reply would add something. IGNORE if it is not worth replying to. STOP if the author wants you to stop engaging. %s`, rendered, verdictInstruction)
}

func tokenConceptPrompt(rendered string) string {
	return fmt.Sprintf(`%s

Extract the token concept the author is asking for: name, ticker and a one-line description, as a short launch announcement. Return a JSON object: {"text": "the announcement"}`, rendered)
}

func betDetailsPrompt(rendered string) string {
	return fmt.Sprintf(`%s

Extract the bet the author is asking for as a short title and a one-sentence description. Return a JSON object: {"text": "<title>: <description>"}`, rendered)
}

func (a *Agent) replyPrompt(rendered string) string {
	var actionNames []string
	for _, act := range a.actions {
		actionNames = append(actionNames, act.Name)
	}
	actionsLine := "none"
	if len(actionNames) > 0 {
		actionsLine = strings.Join(actionNames, ", ")
	}

	return fmt.Sprintf(`%s

Write your reply to the current post. Keep it under 280 characters and in character. Available actions: %s. Return a JSON object: {"text": "the reply", "action": "optional action name"}`, rendered, actionsLine)
}
