package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider sends a chat request to a hosted model and returns the reply text.
type Provider interface {
	Generate(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Models names the provider models used for each kind of request.
type Models struct {
	Text   string
	Vision string
	Title  string
}

type Service struct {
	provider Provider
	models   Models
}

func New(provider Provider, models Models) *Service {
	return &Service{provider: provider, models: models}
}

// Complete generates the assistant reply for history. image belongs to the
// last turn only and switches the request to the vision model.
func (s *Service) Complete(ctx context.Context, history []Turn, image string) (string, error) {
	model := s.models.Text
	if image != "" {
		normalized, err := NormalizeImage(image)
		if err != nil {
			return "", err
		}
		image = normalized
		model = s.models.Vision
	}

	reply, err := s.provider.Generate(ctx, model, BuildChatMessages(history, image), GenerateOptions{
		Temperature: ChatTemperature,
		MaxTokens:   ChatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return FallbackReply, nil
	}
	return reply, nil
}

// SummarizeTitle returns a short title for the first message of a
// conversation.
func (s *Service) SummarizeTitle(ctx context.Context, text string) (string, error) {
	title, err := s.provider.Generate(ctx, s.models.Title, TitleMessages(text), GenerateOptions{
		Temperature: TitleTemperature,
		MaxTokens:   TitleMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	if title = strings.TrimSpace(title); title == "" {
		return DefaultTitle, nil
	}
	return title, nil
}
