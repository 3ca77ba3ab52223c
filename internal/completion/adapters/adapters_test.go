package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/af-corp/bughunt-backend/internal/config"
)

func openaiConfig() config.ProviderConfig {
	return config.ProviderConfig{
		Type:    "openai",
		BaseURL: "https://api.openai.com/v1",
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		Timeout: 10 * time.Second,
	}
}

func geminiConfig() config.ProviderConfig {
	return config.ProviderConfig{
		Type:    "gemini",
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		APIKey:  "gk-test",
		Model:   "gemini-1.5-flash",
		Timeout: 10 * time.Second,
	}
}

func testExchange() Exchange {
	return Exchange{
		System:      "persona and module content",
		User:        "open the door",
		MaxTokens:   500,
		Temperature: 0.8,
	}
}

func TestOpenAIAdapter_BuildRequest(t *testing.T) {
	a := NewOpenAIAdapter(openaiConfig(), http.DefaultClient)

	req, err := a.BuildRequest(context.Background(), testExchange())
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}

	if req.URL.String() != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("unexpected URL: %s", req.URL)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("unexpected auth header: %s", got)
	}

	var body openAIRequestBody
	data, _ := io.ReadAll(req.Body)
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model: %s", body.Model)
	}
	if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Role != "user" {
		t.Errorf("unexpected messages: %+v", body.Messages)
	}
	if body.Messages[1].Content != "open the door" {
		t.Errorf("unexpected user message: %s", body.Messages[1].Content)
	}
	if body.MaxTokens != 500 {
		t.Errorf("unexpected max_tokens: %d", body.MaxTokens)
	}
}

func TestOpenAIAdapter_ParseResponse(t *testing.T) {
	a := NewOpenAIAdapter(openaiConfig(), http.DefaultClient)

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body: io.NopCloser(strings.NewReader(`{
			"id": "chatcmpl-1",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "<speak>the door creaks open</speak>"}, "finish_reason": "stop"}]
		}`)),
	}

	text, err := a.ParseResponse(resp)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if text != "<speak>the door creaks open</speak>" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestOpenAIAdapter_ParseResponse_Errors(t *testing.T) {
	a := NewOpenAIAdapter(openaiConfig(), http.DefaultClient)

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-200", http.StatusTooManyRequests, `{"error": {"message": "rate limited"}}`},
		{"malformed json", http.StatusOK, `{not json`},
		{"no choices", http.StatusOK, `{"choices": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader(tt.body)),
			}
			if _, err := a.ParseResponse(resp); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGeminiAdapter_BuildRequest(t *testing.T) {
	a := NewGeminiAdapter(geminiConfig(), http.DefaultClient)

	req, err := a.BuildRequest(context.Background(), testExchange())
	if err != nil {
		t.Fatalf("BuildRequest failed: %v", err)
	}

	wantURL := "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"
	if req.URL.String() != wantURL {
		t.Errorf("unexpected URL: %s", req.URL)
	}
	if got := req.Header.Get("x-goog-api-key"); got != "gk-test" {
		t.Errorf("unexpected api key header: %s", got)
	}

	var body geminiRequestBody
	data, _ := io.ReadAll(req.Body)
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	if body.SystemInstruction == nil || body.SystemInstruction.Parts[0].Text != "persona and module content" {
		t.Errorf("unexpected system instruction: %+v", body.SystemInstruction)
	}
	if len(body.Contents) != 1 || body.Contents[0].Parts[0].Text != "open the door" {
		t.Errorf("unexpected contents: %+v", body.Contents)
	}
	if body.GenerationConfig.MaxOutputTokens != 500 {
		t.Errorf("unexpected maxOutputTokens: %d", body.GenerationConfig.MaxOutputTokens)
	}
}

func TestGeminiAdapter_ParseResponse(t *testing.T) {
	a := NewGeminiAdapter(geminiConfig(), http.DefaultClient)

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body: io.NopCloser(strings.NewReader(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "<speak>something stirs</speak>"}]}, "finishReason": "STOP"}]
		}`)),
	}

	text, err := a.ParseResponse(resp)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if text != "<speak>something stirs</speak>" {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestGeminiAdapter_ParseResponse_NoCandidates(t *testing.T) {
	a := NewGeminiAdapter(geminiConfig(), http.DefaultClient)

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"candidates": []}`)),
	}
	if _, err := a.ParseResponse(resp); err == nil {
		t.Error("expected error for empty candidates")
	}
}

func TestAdapters_Configured(t *testing.T) {
	withKey := openaiConfig()
	noKey := openaiConfig()
	noKey.APIKey = ""

	if !NewOpenAIAdapter(withKey, http.DefaultClient).Configured() {
		t.Error("expected configured with key")
	}
	if NewOpenAIAdapter(noKey, http.DefaultClient).Configured() {
		t.Error("expected not configured without key")
	}
}

func TestOpenAIAdapter_SendRequest_UsesClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer srv.Close()

	cfg := openaiConfig()
	cfg.BaseURL = srv.URL
	a := NewOpenAIAdapter(cfg, srv.Client())

	req, err := a.BuildRequest(context.Background(), testExchange())
	if err != nil {
		t.Fatal(err)
	}
	resp, err := a.SendRequest(req)
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	text, err := a.ParseResponse(resp)
	if err != nil {
		t.Fatal(err)
	}
	if text != "ok" {
		t.Errorf("unexpected text: %q", text)
	}
}
