package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIProviderSendsMultimodalTurn(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "vision-model",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "قطة صغيرة"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`)
	}))
	defer srv.Close()

	provider, err := NewOpenAIProvider(srv.URL, "test-key", "text-model")
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	svc := New(provider, testModels)

	reply, err := svc.Complete(context.Background(), []Turn{{Role: RoleUser, Content: "ما هذا؟"}}, pngBase64)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "قطة صغيرة" {
		t.Errorf("reply = %q", reply)
	}

	if body["model"] != "vision-model" {
		t.Errorf("model = %v", body["model"])
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	last, _ := messages[1].(map[string]any)
	parts, ok := last["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("last content = %#v, want two parts", last["content"])
	}
	if first, _ := parts[0].(map[string]any); first["type"] != "image_url" {
		t.Errorf("first part type = %v", first["type"])
	}
}

func TestToLangchainMessagesRejectsUnknownRole(t *testing.T) {
	_, err := toLangchainMessages([]Message{textMessage("tool", "x")})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestToGeminiContents(t *testing.T) {
	msgs := BuildChatMessages([]Turn{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
		{Role: RoleUser, Content: "look"},
	}, "data:image/png;base64,"+pngBase64)

	contents, system, err := toGeminiContents(msgs)
	if err != nil {
		t.Fatalf("toGeminiContents: %v", err)
	}
	if system == nil || system.Parts[0].Text != SystemPrompt {
		t.Fatal("system prompt should become the system instruction")
	}
	if len(contents) != 3 {
		t.Fatalf("got %d contents, want 3", len(contents))
	}
	if contents[1].Role != "model" {
		t.Errorf("assistant role = %q, want model", contents[1].Role)
	}
	img := contents[2].Parts[0].InlineData
	if img == nil || img.MIMEType != "image/png" || len(img.Data) == 0 {
		t.Errorf("inline image = %+v", img)
	}
}

func TestToGeminiContentsNeedsInlineImage(t *testing.T) {
	msgs := BuildChatMessages([]Turn{{Role: RoleUser, Content: "look"}}, "https://example.com/a.png")
	if _, _, err := toGeminiContents(msgs); err == nil {
		t.Fatal("expected an error for a remote image url")
	}
}

func TestToGeminiContentsReplaysImageOnlyTurn(t *testing.T) {
	msgs := BuildChatMessages([]Turn{
		{Role: RoleUser, Content: ""},
		{Role: RoleAssistant, Content: "cat"},
		{Role: RoleUser, Content: "more?"},
	}, "")

	contents, _, err := toGeminiContents(msgs)
	if err != nil {
		t.Fatalf("toGeminiContents: %v", err)
	}
	if len(contents) != 3 {
		t.Fatalf("got %d contents, want 3", len(contents))
	}
	for i, c := range contents {
		if len(c.Parts) == 0 {
			t.Fatalf("content %d has no parts", i)
		}
		for _, p := range c.Parts {
			if p.Text == "" && p.InlineData == nil {
				t.Errorf("content %d has a part with no data", i)
			}
		}
	}
	if got := contents[0].Parts[0].Text; got != DefaultImageQuestion {
		t.Errorf("first turn text = %q, want %q", got, DefaultImageQuestion)
	}
}
