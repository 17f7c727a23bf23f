package biz

import (
	"context"
	"errors"
	"strings"

	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/jacbot/session"
	"github.com/jac-chandigarh/jacbot/internal/jacbot/store"
	"github.com/jac-chandigarh/jacbot/internal/model"
	"github.com/jac-chandigarh/jacbot/internal/pkg/pdfutil"
	"github.com/jac-chandigarh/jacbot/internal/pkg/textutil"
	"github.com/jac-chandigarh/jacbot/pkg/llm"
)

// ErrDocumentNotFound is returned by Inspect for an unknown document name.
var ErrDocumentNotFound = errors.New("document not found")

// inspectSnippetLen is how many characters of a document Inspect returns.
const inspectSnippetLen = 1000

// Service answers admission questions over the ingested document corpus.
type Service interface {
	// IndexFiles ingests the given PDF files.
	IndexFiles(ctx context.Context, paths []string) error
	// IndexDirectory ingests every PDF under dir.
	IndexDirectory(ctx context.Context, dir string) error
	// CreateSession starts a new conversation and returns its ID.
	CreateSession(ctx context.Context) (string, error)
	// Ask answers a question within a session, updating its history.
	Ask(ctx context.Context, sessionID, question string) (*model.AnswerResult, error)
	// Inspect returns the leading snippet of an ingested document.
	Inspect(name string) (string, error)
	// DocumentCount returns the number of ingested source files.
	DocumentCount(ctx context.Context) (int64, error)
}

// ChatService wires the indexer, retriever and generator into the full
// question answering flow.
type ChatService struct {
	indexer   *Indexer
	retriever *Retriever
	generator *Generator
	sessions  session.Store
}

// ServiceConfig bundles the component configs.
type ServiceConfig struct {
	IndexerConfig   *IndexerConfig
	RetrieverConfig *RetrieverConfig
	GeneratorConfig *GeneratorConfig
}

// NewChatService creates the chat service.
func NewChatService(
	vectorStore store.VectorStore,
	embedProvider llm.EmbeddingProvider,
	chatProvider llm.ChatProvider,
	sessions session.Store,
	extractor *pdfutil.Extractor,
	config *ServiceConfig,
) *ChatService {
	return &ChatService{
		indexer:   NewIndexer(vectorStore, embedProvider, extractor, config.IndexerConfig),
		retriever: NewRetriever(vectorStore, embedProvider, chatProvider, config.RetrieverConfig),
		generator: NewGenerator(chatProvider, config.GeneratorConfig),
		sessions:  sessions,
	}
}

// IndexFiles ingests the given PDF files.
func (s *ChatService) IndexFiles(ctx context.Context, paths []string) error {
	return s.indexer.IndexFiles(ctx, paths)
}

// IndexDirectory ingests every PDF under dir.
func (s *ChatService) IndexDirectory(ctx context.Context, dir string) error {
	return s.indexer.IndexDirectory(ctx, dir)
}

// CreateSession starts a new conversation.
func (s *ChatService) CreateSession(ctx context.Context) (string, error) {
	return s.sessions.Create(ctx)
}

// Ask answers a question within a session. The history is read before the
// call and extended with the question and answer afterwards, so the
// rewrite step never sees the question it is rewriting.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (*model.AnswerResult, error) {
	exists, err := s.sessions.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, session.ErrNotFound
	}

	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	retrieval, err := s.retriever.Retrieve(ctx, question, history)
	if err != nil {
		return nil, err
	}
	logger.Infof("Retrieved %d chunks for session %s", len(retrieval.Results), sessionID)

	answer, err := s.generator.GenerateAnswer(ctx, question, history, retrieval.Results)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Append(ctx, sessionID,
		model.ChatMessage{Role: model.RoleUser, Content: question},
		model.ChatMessage{Role: model.RoleAssistant, Content: answer},
	); err != nil {
		logger.Warnw("failed to record session history", "session_id", sessionID, "error", err.Error())
	}

	return &model.AnswerResult{
		Answer:  answer,
		Sources: sourceRefs(retrieval.Results),
	}, nil
}

// Inspect returns the first part of a document whose file name contains
// name.
func (s *ChatService) Inspect(name string) (string, error) {
	for _, doc := range s.indexer.Documents() {
		if strings.Contains(doc.Name, name) || strings.Contains(doc.Path, name) {
			return textutil.TruncateString(doc.Text(), inspectSnippetLen), nil
		}
	}
	return "", ErrDocumentNotFound
}

// DocumentCount returns the number of successfully ingested source files.
func (s *ChatService) DocumentCount(_ context.Context) (int64, error) {
	return int64(len(s.indexer.Documents())), nil
}

// sourceRefs returns the distinct document locations in ranking order.
func sourceRefs(results []*store.SearchResult) []model.SourceRef {
	seen := make(map[model.SourceRef]bool)
	var refs []model.SourceRef
	for _, result := range results {
		if result.DocumentName == "" {
			continue
		}
		ref := model.SourceRef{
			Source: result.DocumentName,
			Page:   result.Page,
			Type:   result.Kind,
		}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

var _ Service = (*ChatService)(nil)
