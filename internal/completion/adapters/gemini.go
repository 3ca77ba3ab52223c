package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/af-corp/bughunt-backend/internal/config"
)

// GeminiAdapter handles communication with the Google Gemini
// generateContent API.
type GeminiAdapter struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func NewGeminiAdapter(cfg config.ProviderConfig, client *http.Client) *GeminiAdapter {
	return &GeminiAdapter{cfg: cfg, client: client}
}

func (a *GeminiAdapter) Name() string { return "gemini" }

func (a *GeminiAdapter) Configured() bool { return a.cfg.Configured() }

func (a *GeminiAdapter) BuildRequest(ctx context.Context, ex Exchange) (*http.Request, error) {
	body := geminiRequestBody{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: ex.System}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: ex.User}}},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: ex.MaxTokens,
			Temperature:     ex.Temperature,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := a.cfg.BaseURL + "/models/" + a.cfg.Model + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", a.cfg.APIKey)
	for k, v := range a.cfg.Headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	return httpReq, nil
}

func (a *GeminiAdapter) ParseResponse(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var gemResp geminiResponseBody
	if err := json.Unmarshal(body, &gemResp); err != nil {
		return "", fmt.Errorf("unmarshal gemini response: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return gemResp.Candidates[0].Content.Parts[0].Text, nil
}

func (a *GeminiAdapter) SendRequest(req *http.Request) (*http.Response, error) {
	return a.client.Do(req)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiRequestBody struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponseBody struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}
