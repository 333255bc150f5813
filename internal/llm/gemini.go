package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error) {
	contents, system, err := toGeminiContents(messages)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens:   int32(opts.MaxTokens),
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// toGeminiContents splits system messages out into a system instruction,
// since Gemini carries it outside the turn list.
func toGeminiContents(messages []Message) ([]*genai.Content, *genai.Content, error) {
	var (
		contents []*genai.Content
		system   *genai.Content
	)
	for _, m := range messages {
		parts, err := toGeminiParts(m.Parts)
		if err != nil {
			return nil, nil, err
		}

		// Gemini rejects a turn without parts. A user turn is empty when it
		// only carried an image that is no longer attached.
		if len(parts) == 0 {
			switch m.Role {
			case RoleUser:
				parts = []*genai.Part{{Text: DefaultImageQuestion}}
			case RoleAssistant:
				continue
			}
		}

		switch m.Role {
		case RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, parts...)
		case RoleUser:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})
		case RoleAssistant:
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})
		default:
			return nil, nil, fmt.Errorf("unknown message role %q", m.Role)
		}
	}
	return contents, system, nil
}

func toGeminiParts(in []ContentPart) ([]*genai.Part, error) {
	parts := make([]*genai.Part, 0, len(in))
	for _, part := range in {
		switch p := part.(type) {
		case TextPart:
			if strings.TrimSpace(p.Text) == "" {
				continue
			}
			parts = append(parts, &genai.Part{Text: p.Text})
		case ImagePart:
			mime, data, err := DecodeDataURL(p.URL)
			if err != nil {
				return nil, fmt.Errorf("gemini needs inline image data: %w", err)
			}
			parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: data}})
		}
	}
	return parts, nil
}
