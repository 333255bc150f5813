package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIProvider talks to any OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	llm llms.Model
}

func NewOpenAIProvider(baseURL, token, defaultModel string) (*OpenAIProvider, error) {
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(defaultModel),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &OpenAIProvider{llm: llm}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error) {
	content, err := toLangchainMessages(messages)
	if err != nil {
		return "", err
	}

	resp, err := p.llm.GenerateContent(ctx, content,
		llms.WithModel(model),
		llms.WithTemperature(opts.Temperature),
		llms.WithMaxTokens(opts.MaxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

func toLangchainMessages(messages []Message) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var role llms.ChatMessageType
		switch m.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleUser:
			role = llms.ChatMessageTypeHuman
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			return nil, fmt.Errorf("unknown message role %q", m.Role)
		}

		parts := make([]llms.ContentPart, 0, len(m.Parts))
		for _, part := range m.Parts {
			switch p := part.(type) {
			case TextPart:
				parts = append(parts, llms.TextContent{Text: p.Text})
			case ImagePart:
				parts = append(parts, llms.ImageURLContent{URL: p.URL})
			}
		}
		out = append(out, llms.MessageContent{Role: role, Parts: parts})
	}
	return out, nil
}
