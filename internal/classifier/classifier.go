package classifier

import (
	"context"

	"github.com/vonhatnam1212/norugz-agent/internal/models"
)

// ModelClass selects which configured model a call uses.
type ModelClass int

const (
	ModelMedium ModelClass = iota
	ModelLarge
)

// Engine is the language-model surface the agent consumes. Tests
// substitute a stub; the production implementation is GPTEngine.
type Engine interface {
	// ShouldRespond runs one intent classifier against a fully rendered
	// prompt and returns a closed verdict.
	ShouldRespond(ctx context.Context, prompt string, class ModelClass) (models.Verdict, error)
	// GenerateReply produces the agent's response text (and optionally a
	// named action) from a fully rendered prompt.
	GenerateReply(ctx context.Context, prompt string, class ModelClass) (*models.Reply, error)
	// DescribeImage summarizes one attached image by URL.
	DescribeImage(ctx context.Context, imageURL string) (*models.ImageDescription, error)
}
