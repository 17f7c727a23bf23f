package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jac-chandigarh/jacbot/internal/jacbot"
)

func validOptions() *ServerOptions {
	opts := NewServerOptions()
	opts.EmbeddingOptions.APIKey = "hf-key"
	opts.ChatOptions.APIKey = "groq-key"
	return opts
}

func TestDefaults(t *testing.T) {
	opts := NewServerOptions()

	assert.Equal(t, ":8000", opts.Addr)
	assert.Equal(t, "huggingface", opts.EmbeddingOptions.Provider)
	assert.Equal(t, "sentence-transformers/all-MiniLM-L6-v2", opts.EmbeddingOptions.Model)
	assert.Equal(t, "groq", opts.ChatOptions.Provider)
	assert.Equal(t, "llama-3.1-8b-instant", opts.ChatOptions.Model)
	assert.Equal(t, 3000, opts.BotOptions.ChunkSize)
	assert.Equal(t, 300, opts.BotOptions.ChunkOverlap)
	assert.Equal(t, 384, opts.BotOptions.EmbeddingDim)
	assert.Equal(t, 100, opts.BotOptions.EmbedBatch)
	assert.Equal(t, 5, opts.BotOptions.TopK)
	assert.True(t, opts.BotOptions.OCR)
}

func TestValidateRequiresAPIKeys(t *testing.T) {
	opts := NewServerOptions()
	opts.EmbeddingOptions.APIKey = ""
	opts.ChatOptions.APIKey = ""

	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HF_TOKEN")
	assert.Contains(t, err.Error(), "GROQ_API_KEY")
}

func TestValidateAPIKeysFromEnv(t *testing.T) {
	t.Setenv("HF_TOKEN", "hf-from-env")
	t.Setenv("GROQ_API_KEY", "groq-from-env")

	opts := NewServerOptions()
	require.NoError(t, opts.Complete())
	assert.Equal(t, "hf-from-env", opts.EmbeddingOptions.APIKey)
	assert.Equal(t, "groq-from-env", opts.ChatOptions.APIKey)
	assert.NoError(t, opts.Validate())
}

func TestValidateRejectsBadBackends(t *testing.T) {
	opts := validOptions()
	opts.StoreOptions.Backend = "chroma"
	opts.SessionOptions.Backend = "dynamo"

	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown backend "chroma"`)
	assert.Contains(t, err.Error(), `unknown backend "dynamo"`)
}

func TestValidateChunkBounds(t *testing.T) {
	opts := validOptions()
	opts.BotOptions.ChunkOverlap = opts.BotOptions.ChunkSize

	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk-overlap")
}

func TestConfigMapping(t *testing.T) {
	opts := validOptions()
	opts.StoreOptions.Backend = jacbot.StoreBackendMilvus
	opts.BotOptions.Documents = []string{"a.pdf", "b.pdf"}

	cfg, err := opts.Config()
	require.NoError(t, err)
	assert.Equal(t, jacbot.StoreBackendMilvus, cfg.StoreBackend)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, cfg.DocumentFiles)
	assert.Equal(t, opts.BotOptions.Collection, cfg.Collection)
	assert.Same(t, opts.EmbeddingOptions, cfg.EmbeddingOptions)
}
