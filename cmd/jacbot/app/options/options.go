// Package options contains flags and options for initializing the server.
package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/jac-chandigarh/jacbot/internal/jacbot"
	"github.com/jac-chandigarh/jacbot/pkg/component/milvus"
	llmopts "github.com/jac-chandigarh/jacbot/pkg/options/llm"
	logopts "github.com/jac-chandigarh/jacbot/pkg/options/logger"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// Addr is the HTTP listen address.
	Addr string `json:"addr" mapstructure:"addr"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`

	// EnvFile is an optional dotenv file loaded before reading API keys.
	EnvFile string `json:"env-file" mapstructure:"env-file"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// EmbeddingOptions contains embedding provider configuration.
	EmbeddingOptions *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// ChatOptions contains chat provider configuration.
	ChatOptions *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// StoreOptions contains vector store configuration.
	StoreOptions *StoreOptions `json:"store" mapstructure:"store"`

	// SessionOptions contains session store configuration.
	SessionOptions *SessionOptions `json:"session" mapstructure:"session"`

	// BotOptions contains ingestion and retrieval configuration.
	BotOptions *BotOptions `json:"bot" mapstructure:"bot"`
}

// StoreOptions configures the vector store backend.
type StoreOptions struct {
	// Backend selects the store (memory|persisted|milvus).
	Backend string `json:"backend" mapstructure:"backend"`

	// PersistDir is the snapshot directory for the persisted backend.
	PersistDir string `json:"persist-dir" mapstructure:"persist-dir"`

	// Milvus configures the milvus backend.
	Milvus *milvus.Options `json:"milvus" mapstructure:"milvus"`
}

// SessionOptions configures the chat session store.
type SessionOptions struct {
	// Backend selects the store (memory|redis).
	Backend string `json:"backend" mapstructure:"backend"`

	// RedisAddr is the Redis address (host:port).
	RedisAddr string `json:"redis-addr" mapstructure:"redis-addr"`

	// RedisPassword is the Redis password.
	RedisPassword string `json:"redis-password" mapstructure:"redis-password"`

	// RedisDB is the Redis database number.
	RedisDB int `json:"redis-db" mapstructure:"redis-db"`

	// RedisTTL expires idle sessions. Zero keeps them forever.
	RedisTTL time.Duration `json:"redis-ttl" mapstructure:"redis-ttl"`
}

// BotOptions configures document ingestion and retrieval.
type BotOptions struct {
	// DocumentDir is scanned for PDFs when Documents is empty.
	DocumentDir string `json:"document-dir" mapstructure:"document-dir"`

	// Documents lists specific PDF files to ingest.
	Documents []string `json:"documents" mapstructure:"documents"`

	// Collection is the vector collection name.
	Collection string `json:"collection" mapstructure:"collection"`

	// ChunkSize is the chunk size in characters.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between adjacent chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// EmbeddingDim is the embedding vector dimension.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// EmbedBatch is how many chunks are embedded per provider request.
	EmbedBatch int `json:"embed-batch" mapstructure:"embed-batch"`

	// TopK is how many chunks to retrieve per question.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// OCR enables the tesseract fallback for scanned PDFs.
	OCR bool `json:"ocr" mapstructure:"ocr"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Addr:             ":8000",
		ShutdownTimeout:  30 * time.Second,
		LogOptions:       logopts.NewOptions(),
		EmbeddingOptions: llmopts.NewEmbeddingOptions(),
		ChatOptions:      llmopts.NewChatOptions(),
		StoreOptions: &StoreOptions{
			Backend:    jacbot.StoreBackendPersisted,
			PersistDir: "./vector_db",
			Milvus:     milvus.NewOptions(),
		},
		SessionOptions: &SessionOptions{
			Backend:   jacbot.SessionBackendMemory,
			RedisAddr: "localhost:6379",
		},
		BotOptions: &BotOptions{
			DocumentDir:  "./public/public_pdf",
			Collection:   "admission_docs",
			ChunkSize:    3000,
			ChunkOverlap: 300,
			EmbeddingDim: 384,
			EmbedBatch:   100,
			TopK:         5,
			OCR:          true,
		},
	}
}

// AddFlags adds all server flags to the given FlagSet.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "addr", o.Addr, "HTTP listen address.")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout.")
	fs.StringVar(&o.EnvFile, "env-file", o.EnvFile, "Dotenv file to load before reading API keys.")

	o.LogOptions.AddFlags(fs)
	o.EmbeddingOptions.AddFlags(fs, "embedding")
	o.ChatOptions.AddFlags(fs, "chat")

	fs.StringVar(&o.StoreOptions.Backend, "store.backend", o.StoreOptions.Backend, "Vector store backend (memory|persisted|milvus).")
	fs.StringVar(&o.StoreOptions.PersistDir, "store.persist-dir", o.StoreOptions.PersistDir, "Snapshot directory for the persisted backend.")
	fs.StringVar(&o.StoreOptions.Milvus.Address, "store.milvus.address", o.StoreOptions.Milvus.Address, "Milvus server address.")
	fs.StringVar(&o.StoreOptions.Milvus.Database, "store.milvus.database", o.StoreOptions.Milvus.Database, "Milvus database name.")
	fs.StringVar(&o.StoreOptions.Milvus.Username, "store.milvus.username", o.StoreOptions.Milvus.Username, "Milvus username.")
	fs.StringVar(&o.StoreOptions.Milvus.Password, "store.milvus.password", o.StoreOptions.Milvus.Password, "Milvus password.")
	fs.DurationVar(&o.StoreOptions.Milvus.Timeout, "store.milvus.timeout", o.StoreOptions.Milvus.Timeout, "Milvus operation timeout.")

	fs.StringVar(&o.SessionOptions.Backend, "session.backend", o.SessionOptions.Backend, "Session store backend (memory|redis).")
	fs.StringVar(&o.SessionOptions.RedisAddr, "session.redis-addr", o.SessionOptions.RedisAddr, "Redis address for sessions.")
	fs.StringVar(&o.SessionOptions.RedisPassword, "session.redis-password", o.SessionOptions.RedisPassword, "Redis password for sessions.")
	fs.IntVar(&o.SessionOptions.RedisDB, "session.redis-db", o.SessionOptions.RedisDB, "Redis database for sessions.")
	fs.DurationVar(&o.SessionOptions.RedisTTL, "session.redis-ttl", o.SessionOptions.RedisTTL, "Idle session expiry, 0 to disable.")

	fs.StringVar(&o.BotOptions.DocumentDir, "bot.document-dir", o.BotOptions.DocumentDir, "Directory holding the admission PDFs.")
	fs.StringSliceVar(&o.BotOptions.Documents, "bot.documents", o.BotOptions.Documents, "Specific PDF files to ingest instead of a directory scan.")
	fs.StringVar(&o.BotOptions.Collection, "bot.collection", o.BotOptions.Collection, "Vector collection name.")
	fs.IntVar(&o.BotOptions.ChunkSize, "bot.chunk-size", o.BotOptions.ChunkSize, "Chunk size in characters.")
	fs.IntVar(&o.BotOptions.ChunkOverlap, "bot.chunk-overlap", o.BotOptions.ChunkOverlap, "Overlap between adjacent chunks.")
	fs.IntVar(&o.BotOptions.EmbeddingDim, "bot.embedding-dim", o.BotOptions.EmbeddingDim, "Embedding vector dimension.")
	fs.IntVar(&o.BotOptions.EmbedBatch, "bot.embed-batch", o.BotOptions.EmbedBatch, "Chunks embedded per provider request.")
	fs.IntVar(&o.BotOptions.TopK, "bot.top-k", o.BotOptions.TopK, "Chunks retrieved per question.")
	fs.BoolVar(&o.BotOptions.OCR, "bot.ocr", o.BotOptions.OCR, "Enable the OCR fallback for scanned PDFs.")
}

// Complete completes all the required options. The dotenv file is loaded
// first so the API keys can come from it.
func (o *ServerOptions) Complete() error {
	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", o.EnvFile, err)
		}
	} else {
		// A missing default .env is fine, the environment may already
		// carry the keys.
		_ = godotenv.Load()
	}

	if err := o.EmbeddingOptions.Complete(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := o.ChatOptions.Complete(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	var errs []error

	for _, err := range o.EmbeddingOptions.Validate() {
		errs = append(errs, fmt.Errorf("embedding: %w", err))
	}
	for _, err := range o.ChatOptions.Validate() {
		errs = append(errs, fmt.Errorf("chat: %w", err))
	}

	switch o.StoreOptions.Backend {
	case jacbot.StoreBackendMemory, jacbot.StoreBackendMilvus:
	case jacbot.StoreBackendPersisted:
		if o.StoreOptions.PersistDir == "" {
			errs = append(errs, fmt.Errorf("store: persist-dir is required for the persisted backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store: unknown backend %q", o.StoreOptions.Backend))
	}

	switch o.SessionOptions.Backend {
	case jacbot.SessionBackendMemory, jacbot.SessionBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("session: unknown backend %q", o.SessionOptions.Backend))
	}

	if len(o.BotOptions.Documents) == 0 && o.BotOptions.DocumentDir == "" {
		errs = append(errs, fmt.Errorf("bot: document-dir or documents is required"))
	}
	if o.BotOptions.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("bot: chunk-size must be positive"))
	}
	if o.BotOptions.ChunkOverlap < 0 || o.BotOptions.ChunkOverlap >= o.BotOptions.ChunkSize {
		errs = append(errs, fmt.Errorf("bot: chunk-overlap must be in [0, chunk-size)"))
	}
	if o.BotOptions.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("bot: embedding-dim must be positive"))
	}
	if o.BotOptions.EmbedBatch <= 0 {
		errs = append(errs, fmt.Errorf("bot: embed-batch must be positive"))
	}
	if o.BotOptions.TopK <= 0 {
		errs = append(errs, fmt.Errorf("bot: top-k must be positive"))
	}

	return errors.Join(errs...)
}

// Config builds a jacbot.Config based on ServerOptions.
func (o *ServerOptions) Config() (*jacbot.Config, error) {
	return &jacbot.Config{
		Addr:             o.Addr,
		ShutdownTimeout:  o.ShutdownTimeout,
		LogOptions:       o.LogOptions,
		EmbeddingOptions: o.EmbeddingOptions,
		ChatOptions:      o.ChatOptions,
		StoreBackend:     o.StoreOptions.Backend,
		PersistDir:       o.StoreOptions.PersistDir,
		MilvusOptions:    o.StoreOptions.Milvus,
		SessionBackend:   o.SessionOptions.Backend,
		RedisAddr:        o.SessionOptions.RedisAddr,
		RedisPassword:    o.SessionOptions.RedisPassword,
		RedisDB:          o.SessionOptions.RedisDB,
		RedisSessionTTL:  o.SessionOptions.RedisTTL,
		DocumentDir:      o.BotOptions.DocumentDir,
		DocumentFiles:    o.BotOptions.Documents,
		Collection:       o.BotOptions.Collection,
		ChunkSize:        o.BotOptions.ChunkSize,
		ChunkOverlap:     o.BotOptions.ChunkOverlap,
		EmbeddingDim:     o.BotOptions.EmbeddingDim,
		EmbedBatchSize:   o.BotOptions.EmbedBatch,
		TopK:             o.BotOptions.TopK,
		OCREnabled:       o.BotOptions.OCR,
	}, nil
}
