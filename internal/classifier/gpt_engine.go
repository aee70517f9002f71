package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/vonhatnam1212/norugz-agent/internal/models"
	"github.com/vonhatnam1212/norugz-agent/pkg/config"
	"go.uber.org/zap"
)

type GPTEngine struct {
	client      *openai.Client
	model       string
	largeModel  string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewGPTEngine(cfg config.OpenAIConfig, logger *zap.Logger) *GPTEngine {
	return &GPTEngine{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		largeModel:  cfg.LargeModel,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func (e *GPTEngine) modelFor(class ModelClass) string {
	if class == ModelLarge {
		return e.largeModel
	}
	return e.model
}

func (e *GPTEngine) ShouldRespond(ctx context.Context, prompt string, class ModelClass) (models.Verdict, error) {
	resp, err := e.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: e.modelFor(class),
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			// Verdicts are single words; keep the completion short
			MaxTokens:   10,
			Temperature: 0,
		},
	)
	if err != nil {
		return models.VerdictNone, fmt.Errorf("failed to get classification: %w", err)
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	verdict := models.ParseVerdict(raw)
	if verdict == models.VerdictNone {
		e.logger.Warn("Unparseable classifier output, treating as no verdict",
			zap.String("response", raw))
	}
	return verdict, nil
}

func (e *GPTEngine) GenerateReply(ctx context.Context, prompt string, class ModelClass) (*models.Reply, error) {
	resp, err := e.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: e.modelFor(class),
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   e.maxTokens,
			Temperature: float32(e.temperature),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)

	// The prompt asks for {"text": ..., "action": ...}; fall back to the
	// raw completion when the model answers in plain text anyway
	var reply models.Reply
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &reply); err != nil || reply.Text == "" {
		reply = models.Reply{Text: raw}
	}

	return &reply, nil
}

func (e *GPTEngine) DescribeImage(ctx context.Context, imageURL string) (*models.ImageDescription, error) {
	resp, err := e.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: e.largeModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: `Describe this image. Return a JSON object: {"title": "short title", "description": "one paragraph description"}`,
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL:    imageURL,
								Detail: openai.ImageURLDetailLow,
							},
						},
					},
				},
			},
			MaxTokens: 200,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to describe image: %w", err)
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)

	var desc models.ImageDescription
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &desc); err != nil || desc.Description == "" {
		desc = models.ImageDescription{Title: "Image", Description: raw}
	}

	return &desc, nil
}

// stripCodeFence removes a surrounding ```json fence, which chat models
// add even when told to answer with bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
