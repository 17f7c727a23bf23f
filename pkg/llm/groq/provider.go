// Package groq provides the Groq LLM vendor implementation.
// Groq exposes an OpenAI-compatible chat completions API with
// hosted open-weight models such as Llama 3.1.
//
// Basic usage:
//
//	import _ "github.com/jac-chandigarh/jacbot/pkg/llm/groq"
//	import "github.com/jac-chandigarh/jacbot/pkg/llm"
//
//	provider, err := llm.NewChatProvider("groq", map[string]any{
//	    "api_key": "your-api-key",
//	})
package groq

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jac-chandigarh/jacbot/pkg/llm"
	"github.com/jac-chandigarh/jacbot/pkg/utils/httpclient"
	"github.com/jac-chandigarh/jacbot/pkg/utils/json"
)

// ProviderName is the identifier for the Groq vendor.
const ProviderName = "groq"

func init() {
	llm.RegisterChatProvider(ProviderName, NewChatProvider)
}

// Config holds Groq vendor configuration.
type Config struct {
	// BaseURL is the API base address.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey is the Groq API key.
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// ChatModel is the model used for conversations.
	ChatModel string `json:"chat_model" mapstructure:"chat_model"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of retries.
	MaxRetries int `json:"max_retries" mapstructure:"max_retries"`

	// Temperature controls randomness of generation.
	// Zero means the parameter is omitted and the API default applies.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the number of generated tokens.
	// Zero means the parameter is omitted.
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.groq.com/openai/v1",
		ChatModel:  "llama-3.1-8b-instant",
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// Provider implements the Groq chat vendor.
type Provider struct {
	config *Config
	client *httpclient.Client
}

// NewChatProvider creates a Groq chat provider from a config map.
func NewChatProvider(configMap map[string]any) (llm.ChatProvider, error) {
	cfg := DefaultConfig()

	if v, ok := configMap["base_url"].(string); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := configMap["api_key"].(string); ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := configMap["chat_model"].(string); ok && v != "" {
		cfg.ChatModel = v
	}
	if v, ok := configMap["timeout"].(time.Duration); ok && v > 0 {
		cfg.Timeout = v
	}
	if v, ok := configMap["max_retries"].(int); ok && v > 0 {
		cfg.MaxRetries = v
	}
	if v, ok := configMap["temperature"].(float64); ok {
		cfg.Temperature = v
	}
	if v, ok := configMap["max_tokens"].(int); ok {
		cfg.MaxTokens = v
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq: api_key is required")
	}

	return NewProviderWithConfig(cfg), nil
}

// NewProviderWithConfig creates a Groq provider from structured configuration.
func NewProviderWithConfig(cfg *Config) *Provider {
	return &Provider{
		config: cfg,
		client: httpclient.NewClient(cfg.Timeout, cfg.MaxRetries),
	}
}

// Name returns the vendor name.
func (p *Provider) Name() string {
	return ProviderName
}

// chatRequest is the Groq chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the Groq chat completions response body.
type chatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Chat performs a multi-turn conversation.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return p.complete(ctx, chatMessages)
}

// Generate produces text for a single prompt.
func (p *Provider) Generate(ctx context.Context, prompt string, systemPrompt string) (string, error) {
	var messages []chatMessage
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(llm.RoleSystem), Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: string(llm.RoleUser), Content: prompt})
	return p.complete(ctx, messages)
}

func (p *Provider) complete(ctx context.Context, messages []chatMessage) (string, error) {
	reqBody := chatRequest{
		Model:       p.config.ChatModel,
		Messages:    messages,
		Stream:      false,
		MaxTokens:   p.config.MaxTokens,
		Temperature: p.config.Temperature,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	p.setHeaders(req)

	var resp chatResponse
	if err := p.client.DoJSON(req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", llm.ErrNoContent
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
}
