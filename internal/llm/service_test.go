package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type recordingProvider struct {
	reply    string
	err      error
	model    string
	messages []Message
	opts     GenerateOptions
}

func (p *recordingProvider) Generate(_ context.Context, model string, messages []Message, opts GenerateOptions) (string, error) {
	p.model = model
	p.messages = messages
	p.opts = opts
	return p.reply, p.err
}

var testModels = Models{Text: "text-model", Vision: "vision-model", Title: "title-model"}

func TestCompleteTextOnly(t *testing.T) {
	p := &recordingProvider{reply: "أهلاً"}
	svc := New(p, testModels)

	history := []Turn{
		{Role: RoleUser, Content: "مرحبا"},
		{Role: RoleAssistant, Content: "أهلاً بك"},
		{Role: RoleUser, Content: "كيف حالك؟"},
	}
	got, err := svc.Complete(context.Background(), history, "")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "أهلاً" {
		t.Errorf("reply = %q", got)
	}
	if p.model != "text-model" {
		t.Errorf("model = %q, want text-model", p.model)
	}
	if p.opts.Temperature != ChatTemperature || p.opts.MaxTokens != ChatMaxTokens {
		t.Errorf("opts = %+v", p.opts)
	}
	if len(p.messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(p.messages))
	}
	if p.messages[0].Role != RoleSystem {
		t.Errorf("first role = %q, want system", p.messages[0].Role)
	}
	for _, m := range p.messages {
		for _, part := range m.Parts {
			if _, ok := part.(ImagePart); ok {
				t.Errorf("unexpected image part in %+v", m)
			}
		}
	}
}

func TestCompleteWithImage(t *testing.T) {
	p := &recordingProvider{reply: "قطة"}
	svc := New(p, testModels)

	history := []Turn{{Role: RoleUser, Content: ""}}
	if _, err := svc.Complete(context.Background(), history, pngBase64); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if p.model != "vision-model" {
		t.Errorf("model = %q, want vision-model", p.model)
	}

	last := p.messages[len(p.messages)-1]
	if len(last.Parts) != 2 {
		t.Fatalf("last message has %d parts, want 2", len(last.Parts))
	}
	img, ok := last.Parts[0].(ImagePart)
	if !ok {
		t.Fatalf("first part = %T, want ImagePart", last.Parts[0])
	}
	if !strings.HasPrefix(img.URL, "data:image/png;base64,") {
		t.Errorf("image url = %q", img.URL[:30])
	}
	if text := last.Parts[1].(TextPart).Text; text != DefaultImageQuestion {
		t.Errorf("text = %q, want default question", text)
	}
}

func TestCompleteFallbackOnEmptyReply(t *testing.T) {
	svc := New(&recordingProvider{reply: "  \n"}, testModels)
	got, err := svc.Complete(context.Background(), []Turn{{Role: RoleUser, Content: "hi"}}, "")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != FallbackReply {
		t.Errorf("reply = %q, want fallback", got)
	}
}

func TestCompletePropagatesProviderError(t *testing.T) {
	boom := errors.New("upstream 503")
	svc := New(&recordingProvider{err: boom}, testModels)
	_, err := svc.Complete(context.Background(), []Turn{{Role: RoleUser, Content: "hi"}}, "")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped provider error", err)
	}
}

func TestCompleteRejectsInvalidImage(t *testing.T) {
	p := &recordingProvider{reply: "x"}
	svc := New(p, testModels)
	_, err := svc.Complete(context.Background(), []Turn{{Role: RoleUser, Content: "hi"}}, "%%%not-base64")
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
	if p.model != "" {
		t.Error("provider should not be called")
	}
}

func TestSummarizeTitle(t *testing.T) {
	p := &recordingProvider{reply: "  البرمجة بلغة Go \n"}
	svc := New(p, testModels)

	got, err := svc.SummarizeTitle(context.Background(), "علمني Go")
	if err != nil {
		t.Fatalf("SummarizeTitle: %v", err)
	}
	if got != "البرمجة بلغة Go" {
		t.Errorf("title = %q", got)
	}
	if p.model != "title-model" {
		t.Errorf("model = %q", p.model)
	}
	if p.opts.Temperature != TitleTemperature || p.opts.MaxTokens != TitleMaxTokens {
		t.Errorf("opts = %+v", p.opts)
	}
	if len(p.messages) != 2 || p.messages[0].Parts[0].(TextPart).Text != TitlePrompt {
		t.Errorf("unexpected title request %+v", p.messages)
	}
}

func TestSummarizeTitleDefault(t *testing.T) {
	svc := New(&recordingProvider{reply: ""}, testModels)
	got, err := svc.SummarizeTitle(context.Background(), "x")
	if err != nil {
		t.Fatalf("SummarizeTitle: %v", err)
	}
	if got != DefaultTitle {
		t.Errorf("title = %q, want default", got)
	}
}
