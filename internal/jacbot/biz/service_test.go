package biz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jac-chandigarh/jacbot/internal/jacbot/session"
	"github.com/jac-chandigarh/jacbot/internal/jacbot/store"
	"github.com/jac-chandigarh/jacbot/internal/model"
	"github.com/jac-chandigarh/jacbot/internal/pkg/pdfutil"
	"github.com/jac-chandigarh/jacbot/pkg/llm"
)

// fakeEmbedder returns canned vectors keyed by input text, falling back
// to a default vector for unknown inputs.
type fakeEmbedder struct {
	vectors      map[string][]float32
	defaultVec   []float32
	singleInputs []string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.lookup(text)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	f.singleInputs = append(f.singleInputs, text)
	return f.lookup(text), nil
}

func (f *fakeEmbedder) lookup(text string) []float32 {
	if vec, ok := f.vectors[text]; ok {
		return vec
	}
	return f.defaultVec
}

func (f *fakeEmbedder) Name() string { return "fake-embed" }

// fakeChat answers with rewriteReply for rewrite calls and answerReply
// otherwise, recording every call.
type fakeChat struct {
	rewriteReply string
	rewriteErr   error
	answerReply  string
	answerErr    error
	calls        [][]llm.Message
}

func (f *fakeChat) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.calls = append(f.calls, messages)
	if len(messages) > 0 && messages[0].Content == ContextualizePrompt {
		return f.rewriteReply, f.rewriteErr
	}
	return f.answerReply, f.answerErr
}

func (f *fakeChat) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
}

func (f *fakeChat) Name() string { return "fake-chat" }

// answerCall returns the messages of the last non-rewrite call.
func (f *fakeChat) answerCall(t *testing.T) []llm.Message {
	t.Helper()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i][0].Content != ContextualizePrompt {
			return f.calls[i]
		}
	}
	t.Fatal("no answer call recorded")
	return nil
}

const testCollection = "admission_chunks"

func seedStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.CreateCollection(context.Background(), &store.CollectionConfig{
		Name:      testCollection,
		Dimension: 3,
	}))
	_, err := s.Insert(context.Background(), testCollection, []*store.Chunk{
		{DocumentID: "d1", DocumentName: "seat_matrix.pdf", Page: 1, Kind: "table", Content: "CSE has 420 seats at UIET.", Embedding: []float32{1, 0, 0}},
		{DocumentID: "d1", DocumentName: "seat_matrix.pdf", Page: 1, Kind: "table", Content: "ECE has 120 seats at UIET.", Embedding: []float32{0.9, 0.1, 0}},
		{DocumentID: "d2", DocumentName: "schedule.pdf", Page: 2, Kind: "text", Content: "Counselling starts on 1 July.", Embedding: []float32{0, 1, 0}},
	})
	require.NoError(t, err)
	return s
}

func newTestService(t *testing.T, embed *fakeEmbedder, chat *fakeChat) (*ChatService, session.Store) {
	t.Helper()
	sessions := session.NewMemoryStore()
	svc := NewChatService(seedStore(t), embed, chat, sessions, nil, &ServiceConfig{
		IndexerConfig: &IndexerConfig{
			ChunkSize:    3000,
			ChunkOverlap: 300,
			Collection:   testCollection,
			EmbeddingDim: 3,
		},
		RetrieverConfig: &RetrieverConfig{TopK: 2, Collection: testCollection},
		GeneratorConfig: &GeneratorConfig{SystemPrompt: SystemPrompt},
	})
	return svc, sessions
}

func TestAskUnknownSession(t *testing.T) {
	svc, _ := newTestService(t,
		&fakeEmbedder{defaultVec: []float32{1, 0, 0}},
		&fakeChat{answerReply: "hello"},
	)

	_, err := svc.Ask(context.Background(), "no-such-session", "What are the seats?")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestAskAnswersWithSources(t *testing.T) {
	embed := &fakeEmbedder{defaultVec: []float32{1, 0, 0}}
	chat := &fakeChat{answerReply: "CSE at UIET has 420 seats."}
	svc, sessions := newTestService(t, embed, chat)
	ctx := context.Background()

	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	result, err := svc.Ask(ctx, id, "How many CSE seats are there?")
	require.NoError(t, err)
	assert.Equal(t, "CSE at UIET has 420 seats.", result.Answer)
	// Both top chunks share the same document location, so one source.
	assert.Equal(t, []model.SourceRef{{Source: "seat_matrix.pdf", Page: 1, Type: "table"}}, result.Sources)

	// The grounded system prompt carries the retrieved chunks.
	answerMessages := chat.answerCall(t)
	assert.Equal(t, llm.RoleSystem, answerMessages[0].Role)
	assert.Contains(t, answerMessages[0].Content, "CSE has 420 seats at UIET.")
	assert.NotContains(t, answerMessages[0].Content, "{{context}}")

	history, err := sessions.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, "How many CSE seats are there?", history[0].Content)
	assert.Equal(t, model.RoleAssistant, history[1].Role)
	assert.Equal(t, "CSE at UIET has 420 seats.", history[1].Content)
}

func TestAskRewritesFollowUpQuestion(t *testing.T) {
	embed := &fakeEmbedder{
		vectors: map[string][]float32{
			"When does counselling start?": {0, 1, 0},
		},
		defaultVec: []float32{1, 0, 0},
	}
	chat := &fakeChat{
		rewriteReply: "When does counselling start?",
		answerReply:  "It starts on 1 July.",
	}
	svc, sessions := newTestService(t, embed, chat)
	ctx := context.Background()

	id, err := sessions.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, sessions.Append(ctx, id,
		model.ChatMessage{Role: model.RoleUser, Content: "Tell me about counselling."},
		model.ChatMessage{Role: model.RoleAssistant, Content: "Counselling is run by JAC."},
	))

	result, err := svc.Ask(ctx, id, "When does it start?")
	require.NoError(t, err)
	assert.Equal(t, []model.SourceRef{{Source: "schedule.pdf", Page: 2, Type: "text"}}, result.Sources)

	// Retrieval used the rewritten question, not the follow-up.
	require.NotEmpty(t, embed.singleInputs)
	assert.Equal(t, "When does counselling start?", embed.singleInputs[0])

	// The answer call still sees the user's original wording.
	answerMessages := chat.answerCall(t)
	assert.Equal(t, "When does it start?", answerMessages[len(answerMessages)-1].Content)
}

func TestAskRewriteFailureDegradesToOriginal(t *testing.T) {
	embed := &fakeEmbedder{defaultVec: []float32{1, 0, 0}}
	chat := &fakeChat{
		rewriteErr:  errors.New("model overloaded"),
		answerReply: "Here is the seat information.",
	}
	svc, sessions := newTestService(t, embed, chat)
	ctx := context.Background()

	id, err := sessions.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, sessions.Append(ctx, id,
		model.ChatMessage{Role: model.RoleUser, Content: "earlier question"},
	))

	result, err := svc.Ask(ctx, id, "How many seats?")
	require.NoError(t, err)
	assert.Equal(t, "Here is the seat information.", result.Answer)
	assert.Equal(t, []string{"How many seats?"}, embed.singleInputs)
}

func TestAskFirstTurnSkipsRewrite(t *testing.T) {
	embed := &fakeEmbedder{defaultVec: []float32{1, 0, 0}}
	chat := &fakeChat{answerReply: "answer"}
	svc, sessions := newTestService(t, embed, chat)
	ctx := context.Background()

	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	_, err = svc.Ask(ctx, id, "How many seats?")
	require.NoError(t, err)

	// Only the answer call, no rewrite round trip.
	require.Len(t, chat.calls, 1)
	assert.NotEqual(t, ContextualizePrompt, chat.calls[0][0].Content)
}

func TestAskEmptyAnswerFallsBack(t *testing.T) {
	embed := &fakeEmbedder{defaultVec: []float32{1, 0, 0}}
	chat := &fakeChat{answerReply: "   "}
	svc, sessions := newTestService(t, embed, chat)
	ctx := context.Background()

	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	result, err := svc.Ask(ctx, id, "How many seats?")
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, result.Answer)
}

func TestAskNoContentFallsBack(t *testing.T) {
	embed := &fakeEmbedder{defaultVec: []float32{1, 0, 0}}
	chat := &fakeChat{answerErr: llm.ErrNoContent}
	svc, sessions := newTestService(t, embed, chat)
	ctx := context.Background()

	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	result, err := svc.Ask(ctx, id, "How many seats?")
	require.NoError(t, err)
	assert.Equal(t, FallbackAnswer, result.Answer)
}

func TestDocumentCountTracksIngestedFiles(t *testing.T) {
	svc, _ := newTestService(t,
		&fakeEmbedder{defaultVec: []float32{1, 0, 0}},
		&fakeChat{answerReply: "ok"},
	)

	count, err := svc.DocumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	svc.indexer.documents = []*pdfutil.Document{
		{Name: "seat_matrix.pdf"},
		{Name: "schedule.pdf"},
	}

	count, err = svc.DocumentCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSourceRefsDeduplicates(t *testing.T) {
	refs := sourceRefs([]*store.SearchResult{
		{DocumentName: "a.pdf", Page: 1, Kind: "text"},
		{DocumentName: "b.pdf", Page: 1, Kind: "table"},
		{DocumentName: "a.pdf", Page: 1, Kind: "text"},
		{DocumentName: "a.pdf", Page: 2, Kind: "text"},
		{DocumentName: ""},
	})
	assert.Equal(t, []model.SourceRef{
		{Source: "a.pdf", Page: 1, Type: "text"},
		{Source: "b.pdf", Page: 1, Type: "table"},
		{Source: "a.pdf", Page: 2, Type: "text"},
	}, refs)
}

func TestGeneratorBuildsNumberedContext(t *testing.T) {
	chat := &fakeChat{answerReply: "fine"}
	g := NewGenerator(chat, &GeneratorConfig{SystemPrompt: "Context follows.\n\n{{context}}"})

	_, err := g.GenerateAnswer(context.Background(), "q", nil, []*store.SearchResult{
		{DocumentName: "faq.pdf", Content: "first"},
		{DocumentName: "fees.pdf", Content: "second"},
	})
	require.NoError(t, err)

	system := chat.calls[0][0].Content
	assert.True(t, strings.Contains(system, "[1] From faq.pdf:\nfirst"))
	assert.True(t, strings.Contains(system, "[2] From fees.pdf:\nsecond"))
}
