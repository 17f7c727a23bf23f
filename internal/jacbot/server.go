// Package jacbot provides the admission chatbot server implementation.
package jacbot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jac-chandigarh/jacbot/internal/jacbot/biz"
	"github.com/jac-chandigarh/jacbot/internal/jacbot/handler"
	"github.com/jac-chandigarh/jacbot/internal/jacbot/router"
	"github.com/jac-chandigarh/jacbot/internal/jacbot/session"
	"github.com/jac-chandigarh/jacbot/internal/jacbot/store"
	"github.com/jac-chandigarh/jacbot/internal/pkg/pdfutil"
	"github.com/jac-chandigarh/jacbot/pkg/app"
	"github.com/jac-chandigarh/jacbot/pkg/component/milvus"
	"github.com/jac-chandigarh/jacbot/pkg/llm"

	// Register the LLM vendors.
	_ "github.com/jac-chandigarh/jacbot/pkg/llm/groq"
	_ "github.com/jac-chandigarh/jacbot/pkg/llm/huggingface"

	llmopts "github.com/jac-chandigarh/jacbot/pkg/options/llm"
	logopts "github.com/jac-chandigarh/jacbot/pkg/options/logger"
)

// Name is the name of the application.
const Name = "jacbot"

// Vector store backends.
const (
	StoreBackendMemory    = "memory"
	StoreBackendPersisted = "persisted"
	StoreBackendMilvus    = "milvus"
)

// Session store backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config contains application-related configurations.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	LogOptions       *logopts.Options
	EmbeddingOptions *llmopts.ProviderOptions
	ChatOptions      *llmopts.ProviderOptions

	// StoreBackend selects the vector store (memory|persisted|milvus).
	StoreBackend string
	// PersistDir is where the persisted backend snapshots collections.
	PersistDir string
	// MilvusOptions configures the milvus backend.
	MilvusOptions *milvus.Options

	// SessionBackend selects the session store (memory|redis).
	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	// RedisSessionTTL expires idle sessions; zero keeps them forever.
	RedisSessionTTL time.Duration

	// DocumentDir is scanned for PDFs when DocumentFiles is empty.
	DocumentDir string
	// DocumentFiles lists specific PDFs to ingest.
	DocumentFiles []string

	Collection     string
	ChunkSize      int
	ChunkOverlap   int
	EmbeddingDim   int
	EmbedBatchSize int
	TopK           int
	// OCREnabled turns on the tesseract fallback for scanned PDFs.
	OCREnabled bool
}

// Server represents the chatbot server.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	storeClose      func()
	redisClose      func()
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	cfg.LogOptions.WithInitialFields(map[string]interface{}{
		"service.name":    Name,
		"service.version": app.GetVersion(),
	})
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting jacbot service...")

	vectorStore, storeClose, err := cfg.newVectorStore()
	if err != nil {
		return nil, err
	}
	logger.Infof("Vector store initialized (backend: %s)", cfg.StoreBackend)

	sessions, redisClose := cfg.newSessionStore()

	embedProvider, err := llm.NewEmbeddingProvider(cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	logger.Infow("Embedding provider initialized",
		"provider", cfg.EmbeddingOptions.Provider,
		"model", cfg.EmbeddingOptions.Model,
	)

	chatProvider, err := llm.NewChatProvider(cfg.ChatOptions.Provider, cfg.ChatOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	logger.Infow("Chat provider initialized",
		"provider", cfg.ChatOptions.Provider,
		"model", cfg.ChatOptions.Model,
	)

	extractor := pdfutil.NewExtractor(cfg.newOCREngine())

	service := biz.NewChatService(vectorStore, embedProvider, chatProvider, sessions, extractor, &biz.ServiceConfig{
		IndexerConfig: &biz.IndexerConfig{
			ChunkSize:      cfg.ChunkSize,
			ChunkOverlap:   cfg.ChunkOverlap,
			Collection:     cfg.Collection,
			EmbeddingDim:   cfg.EmbeddingDim,
			EmbedBatchSize: cfg.EmbedBatchSize,
		},
		RetrieverConfig: &biz.RetrieverConfig{
			TopK:       cfg.TopK,
			Collection: cfg.Collection,
		},
		GeneratorConfig: &biz.GeneratorConfig{
			SystemPrompt: biz.SystemPrompt,
		},
	})

	logger.Info("Ingesting admission documents...")
	if len(cfg.DocumentFiles) > 0 {
		err = service.IndexFiles(ctx, cfg.DocumentFiles)
	} else {
		err = service.IndexDirectory(ctx, cfg.DocumentDir)
	}
	if err != nil {
		storeClose()
		if redisClose != nil {
			redisClose()
		}
		return nil, fmt.Errorf("failed to ingest documents: %w", err)
	}

	chatHandler := handler.NewChatHandler(service)
	engine := router.New(chatHandler)

	logger.Infof("jacbot is ready, listening on %s", cfg.Addr)
	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Addr,
			Handler: engine,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		storeClose:      storeClose,
		redisClose:      redisClose,
	}, nil
}

// newVectorStore builds the configured vector store backend.
func (cfg *Config) newVectorStore() (store.VectorStore, func(), error) {
	switch cfg.StoreBackend {
	case StoreBackendMilvus:
		client, err := milvus.New(cfg.MilvusOptions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize milvus: %w", err)
		}
		s := store.NewMilvusStore(client)
		return s, func() { _ = s.Close(context.Background()) }, nil
	case StoreBackendPersisted:
		s, err := store.NewPersistedStore(cfg.PersistDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize persisted store: %w", err)
		}
		return s, func() {}, nil
	case StoreBackendMemory:
		return store.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}

// newSessionStore builds the session store, degrading to memory when the
// configured Redis is unreachable.
func (cfg *Config) newSessionStore() (session.Store, func()) {
	if cfg.SessionBackend != SessionBackendRedis {
		logger.Info("Using in-memory session store")
		return session.NewMemoryStore(), nil
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warnw("failed to connect to redis, using in-memory sessions", "error", err.Error())
		_ = redisClient.Close()
		return session.NewMemoryStore(), nil
	}

	logger.Infow("Redis session store initialized", "addr", cfg.RedisAddr)
	return session.NewRedisStore(redisClient, cfg.RedisSessionTTL), func() { _ = redisClient.Close() }
}

// newOCREngine returns the OCR fallback engine, or nil when disabled or
// tesseract is not installed.
func (cfg *Config) newOCREngine() *pdfutil.OCREngine {
	if !cfg.OCREnabled {
		return nil
	}
	ocr := pdfutil.NewOCREngine()
	if !ocr.Available() {
		logger.Warn("tesseract not found, OCR fallback disabled")
		return nil
	}
	return ocr
}

// Run starts the server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if s.storeClose != nil {
			s.storeClose()
		}
		if s.redisClose != nil {
			s.redisClose()
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
