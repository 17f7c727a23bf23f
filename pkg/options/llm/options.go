// Package llm provides LLM provider configuration options.
package llm

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// ProviderOptions configures a single LLM vendor.
type ProviderOptions struct {
	// Provider is the vendor name (groq, huggingface).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the API base address.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey is the API key. When empty it is read from APIKeyEnv.
	APIKey string `json:"api-key" mapstructure:"api-key"`

	// APIKeyEnv is the environment variable holding the API key.
	APIKeyEnv string `json:"api-key-env" mapstructure:"api-key-env"`

	// Model is the model name.
	Model string `json:"model" mapstructure:"model"`

	// Timeout is the request timeout.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the maximum number of retries.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`
}

// NewEmbeddingOptions creates the default embedding vendor configuration.
func NewEmbeddingOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:   "huggingface",
		BaseURL:    "https://api-inference.huggingface.co",
		APIKeyEnv:  "HF_TOKEN",
		Model:      "sentence-transformers/all-MiniLM-L6-v2",
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// NewChatOptions creates the default chat vendor configuration.
func NewChatOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:   "groq",
		BaseURL:    "https://api.groq.com/openai/v1",
		APIKeyEnv:  "GROQ_API_KEY",
		Model:      "llama-3.1-8b-instant",
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// ToConfigMap converts the options to a provider factory config map.
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":    o.BaseURL,
		"api_key":     o.APIKey,
		"embed_model": o.Model,
		"chat_model":  o.Model,
		"timeout":     o.Timeout,
		"max_retries": o.MaxRetries,
	}
}

// AddFlags adds flags for the provider options to the specified FlagSet.
// The prefix distinguishes the embedding and chat instances.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefix string) {
	fs.StringVar(&o.Provider, prefix+".provider", o.Provider, "LLM provider name.")
	fs.StringVar(&o.BaseURL, prefix+".base-url", o.BaseURL, "LLM API base URL.")
	fs.StringVar(&o.Model, prefix+".model", o.Model, "LLM model name.")
	fs.DurationVar(&o.Timeout, prefix+".timeout", o.Timeout, "LLM request timeout.")
	fs.IntVar(&o.MaxRetries, prefix+".max-retries", o.MaxRetries, "LLM maximum number of retries.")
}

// Complete fills the API key from the environment when not set directly.
func (o *ProviderOptions) Complete() error {
	if o.APIKey == "" && o.APIKeyEnv != "" {
		o.APIKey = os.Getenv(o.APIKeyEnv)
	}
	return nil
}

// Validate validates the provider options. Both vendors require a key, so
// a missing key fails startup.
func (o *ProviderOptions) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("provider is required"))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("base-url is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("model is required"))
	}
	if o.APIKey == "" {
		if o.APIKeyEnv != "" {
			errs = append(errs, fmt.Errorf("api key is required, set %s", o.APIKeyEnv))
		} else {
			errs = append(errs, fmt.Errorf("api key is required"))
		}
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}
	return errs
}
