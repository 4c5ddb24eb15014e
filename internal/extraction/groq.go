package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"
	defaultGroqModel   = "llama-3.1-8b-instant"

	// Low-randomness decoding: determinism over creativity.
	completionTemperature = 0.2
	completionMaxTokens   = 1024
)

// Groq implements Completer against Groq's OpenAI-compatible
// chat-completions API.
type Groq struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewGroq creates a Groq Completer. A missing API key is a fatal
// configuration error raised here, before any network attempt.
func NewGroq(apiKey, model string) (*Groq, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: groq api key is required", ErrMissingCredential)
	}
	if model == "" {
		model = defaultGroqModel
	}
	return &Groq{
		baseURL: defaultGroqBaseURL,
		model:   model,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type groqChatRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends the prompt as a single user message and returns the raw
// completion text. One attempt only; any transport or service failure is
// wrapped as ErrUpstreamService.
func (g *Groq) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := groqChatRequest{
		Model: g.model,
		Messages: []groqMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := g.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUpstreamService, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstreamService, resp.StatusCode, string(body))
	}

	var chatResp groqChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUpstreamService, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUpstreamService, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrUpstreamService)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Name identifies the backing model.
func (g *Groq) Name() string {
	return "groq/" + g.model
}

// Close is a no-op for the HTTP client.
func (g *Groq) Close() error {
	return nil
}
