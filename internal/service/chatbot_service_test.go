package service

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"sync"
	"testing"
	"time"

	"maharaja-assistant-be/internal/dto"
	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/contract"
	"maharaja-assistant-be/internal/repository/memory"
	"maharaja-assistant-be/internal/repository/specification"
	"maharaja-assistant-be/internal/repository/unitofwork"
	"maharaja-assistant-be/pkg/embedding"
	"maharaja-assistant-be/pkg/flights"
	"maharaja-assistant-be/pkg/llm"
	"maharaja-assistant-be/pkg/rag/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- in-memory fakes ----

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUow struct {
	sessions   *fakeChatSessionRepo
	messages   *fakeChatMessageRepo
	documents  *fakePolicyDocumentRepo
	embeddings *fakePolicyEmbeddingRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		sessions:   &fakeChatSessionRepo{byId: map[uuid.UUID]*entity.ChatSession{}},
		messages:   &fakeChatMessageRepo{},
		documents:  &fakePolicyDocumentRepo{},
		embeddings: &fakePolicyEmbeddingRepo{},
	}
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }

func (f *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return f.sessions }
func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return f.messages }
func (f *fakeUow) PolicyDocumentRepository() contract.PolicyDocumentRepository {
	return f.documents
}
func (f *fakeUow) PolicyEmbeddingRepository() contract.PolicyEmbeddingRepository {
	return f.embeddings
}

type fakeChatSessionRepo struct {
	mu   sync.Mutex
	byId map[uuid.UUID]*entity.ChatSession
}

func (r *fakeChatSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byId[s.Id] = s
	return nil
}

func (r *fakeChatSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error {
	return r.Create(ctx, s)
}

func (r *fakeChatSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byId, id)
	return nil
}

func (r *fakeChatSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.byId[byId.ID], nil
		}
	}
	return nil, nil
}

func (r *fakeChatSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entity.ChatSession
	for _, s := range r.byId {
		all = append(all, s)
	}
	return all, nil
}

func (r *fakeChatSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byId)), nil
}

type fakeChatMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.ChatMessage
}

func (r *fakeChatMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
	return nil
}

func (r *fakeChatMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *fakeChatMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeChatMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filter := uuid.Nil
	desc := false
	limit := 0
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByChatSessionID:
			filter = s.ChatSessionID
		case specification.OrderBy:
			desc = s.Desc
		case specification.Pagination:
			limit = s.Limit
		}
	}

	var out []*entity.ChatMessage
	for _, m := range r.messages {
		if filter == uuid.Nil || m.ChatSessionId == filter {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeChatMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

type fakePolicyDocumentRepo struct{}

func (r *fakePolicyDocumentRepo) Create(ctx context.Context, d *entity.PolicyDocument) error { return nil }
func (r *fakePolicyDocumentRepo) Update(ctx context.Context, d *entity.PolicyDocument) error { return nil }
func (r *fakePolicyDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error             { return nil }
func (r *fakePolicyDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PolicyDocument, error) {
	return nil, nil
}
func (r *fakePolicyDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyDocument, error) {
	return nil, nil
}
func (r *fakePolicyDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakePolicyEmbeddingRepo struct {
	scored    []*contract.ScoredPolicyEmbedding
	searchErr error
}

func (r *fakePolicyEmbeddingRepo) Create(ctx context.Context, e *entity.PolicyEmbedding) error {
	return nil
}
func (r *fakePolicyEmbeddingRepo) CreateBulk(ctx context.Context, es []*entity.PolicyEmbedding) error {
	return nil
}
func (r *fakePolicyEmbeddingRepo) DeleteByDocumentId(ctx context.Context, id uuid.UUID) error {
	return nil
}
func (r *fakePolicyEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PolicyEmbedding, error) {
	return nil, nil
}
func (r *fakePolicyEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakePolicyEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, vec []float32, limit int) ([]*contract.ScoredPolicyEmbedding, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.scored, nil
}

type fakeEmbeddingProvider struct {
	err error
}

func (f *fakeEmbeddingProvider) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{Values: []float32{0.1, 0.2, 0.3}}, nil
}

type stubLLM struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.reply, s.err
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// ---- harness ----

type engineHarness struct {
	service IChatbotService
	uow     *fakeUow
	llm     *stubLLM
}

func newEngineHarness(t *testing.T, model *stubLLM) *engineHarness {
	t.Helper()

	uow := newFakeUow()
	simulator := flights.NewSimulator(discardLogger())
	stateRepo := memory.NewSessionStateRepository(time.Hour)

	svc := NewChatbotService(
		&fakeUowFactory{uow: uow},
		&fakeEmbeddingProvider{},
		model,
		stateRepo,
		simulator,
		nil,
		ChatbotConfig{
			StalenessWindow: 1,
			FollowUpTokens:  4,
			Search:          search.DefaultConfig(),
			ComposeTimeout:  2 * time.Second,
			MaxReplyLength:  2000,
		},
	)
	return &engineHarness{service: svc, uow: uow, llm: model}
}

func (h *engineHarness) newSession(t *testing.T) uuid.UUID {
	t.Helper()
	created, err := h.service.CreateSession(context.Background(), &dto.CreateSessionRequest{})
	require.NoError(t, err)
	return created.Id
}

func (h *engineHarness) send(t *testing.T, sessionId uuid.UUID, text string) *dto.SendChatResponse {
	t.Helper()
	resp, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: sessionId,
		Chat:          text,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.Reply.Chat)
	return resp
}

func policyEvidence() []*contract.ScoredPolicyEmbedding {
	return []*contract.ScoredPolicyEmbedding{
		{
			Embedding: &entity.PolicyEmbedding{
				Id:       uuid.New(),
				Chunk:    "Economy class passengers may check in 23kg of baggage on domestic routes.",
				Country:  "IN",
				Language: "en",
			},
			Similarity: 0.81,
		},
		{
			Embedding: &entity.PolicyEmbedding{
				Id:       uuid.New(),
				Chunk:    "Cabin baggage is limited to one piece of 8kg.",
				Language: "en",
			},
			Similarity: 0.67,
		},
	}
}

// ---- tests ----

func TestSendChatFlightTurn(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{err: errors.New("model must not be needed for flights")})
	sessionId := h.newSession(t)

	resp := h.send(t, sessionId, "Find me flights from DEL to BOM tomorrow")

	assert.Equal(t, "FLIGHT", resp.Intent)
	assert.False(t, resp.FallbackUsed)
	assert.Contains(t, resp.Reply.Chat, "AIR INDIA")
	assert.Contains(t, resp.Reply.Chat, "AI")

	// greeting + user + assistant persisted
	count, err := h.uow.messages.Count(context.Background(),
		specification.ByChatSessionID{ChatSessionID: sessionId})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestSendChatFollowUpCabinSwitch(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{err: errors.New("down")})
	sessionId := h.newSession(t)

	h.send(t, sessionId, "Find me flights from DEL to BOM tomorrow")
	resp := h.send(t, sessionId, "what about business class?")

	assert.Equal(t, "FLIGHT", resp.Intent)
	assert.False(t, resp.FallbackUsed)
	assert.Contains(t, resp.Reply.Chat, "Business")
}

func TestSendChatPolicyWithEvidence(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "You may check in 23kg in Economy."})
	h.uow.embeddings.scored = policyEvidence()
	sessionId := h.newSession(t)

	resp := h.send(t, sessionId, "What is the baggage allowance for economy?")

	assert.Equal(t, "POLICY", resp.Intent)
	assert.False(t, resp.FallbackUsed)
	assert.Equal(t, 2, resp.EvidenceCount)
	assert.Equal(t, "You may check in 23kg in Economy.", resp.Reply.Chat)
}

func TestSendChatPolicyCountryFromUtterance(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "Two pieces of 23kg each on Canada routes."})
	h.uow.embeddings.scored = []*contract.ScoredPolicyEmbedding{
		{
			Embedding: &entity.PolicyEmbedding{
				Id:      uuid.New(),
				Chunk:   "On routes to and from Canada the piece concept applies: two bags of 23kg.",
				Country: "CA",
			},
			Similarity: 0.8,
		},
		{
			Embedding: &entity.PolicyEmbedding{
				Id:      uuid.New(),
				Chunk:   "On domestic sectors Economy passengers may check in 15kg.",
				Country: "IN",
			},
			Similarity: 0.7,
		},
	}
	sessionId := h.newSession(t)

	// no Country on the request: the utterance alone must narrow retrieval
	resp := h.send(t, sessionId, "What is the baggage allowance for flights to Canada?")

	assert.Equal(t, "POLICY", resp.Intent)
	assert.Equal(t, 1, resp.EvidenceCount)
	assert.False(t, resp.FallbackUsed)
}

func TestSendChatPolicyRetrievalDown(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "unused"})
	h.uow.embeddings.searchErr = errors.New("vector store unavailable")
	sessionId := h.newSession(t)

	resp := h.send(t, sessionId, "What is the baggage allowance for economy?")

	assert.Equal(t, "POLICY", resp.Intent)
	assert.True(t, resp.FallbackUsed)
	assert.Zero(t, resp.EvidenceCount)
}

func TestSendChatNeverErrorsWithFailingModel(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{err: errors.New("model permanently down")})
	h.uow.embeddings.scored = policyEvidence()
	sessionId := h.newSession(t)

	utterances := []string{
		"hello there",
		"What is the baggage allowance for economy?",
		"Find me flights from DEL to BOM tomorrow",
		"what about business class?",
		"tell me something interesting about travelling",
		"🙏",
	}
	for _, u := range utterances {
		resp := h.send(t, sessionId, u)
		assert.NotEmpty(t, resp.Reply.Chat, "utterance %q", u)
	}
}

func TestSendChatStalenessDowngradesFollowUp(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "Happy to help!"})
	sessionId := h.newSession(t)

	h.send(t, sessionId, "Find me flights from DEL to BOM tomorrow")
	h.send(t, sessionId, "tell me about your onboard meals service crew")

	// the flight result is now two turns old, beyond the window of one
	resp := h.send(t, sessionId, "what about that?")
	assert.Equal(t, "GENERAL", resp.Intent)
}

func TestSendChatSessionIsolation(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "Of course."})
	sessionA := h.newSession(t)
	sessionB := h.newSession(t)

	h.send(t, sessionA, "Find me flights from DEL to BOM tomorrow")

	// B has no flight context, the reference cannot resolve there
	resp := h.send(t, sessionB, "what about business class?")
	assert.Equal(t, "GENERAL", resp.Intent)
}

func TestSendChatUnknownSession(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "ok"})

	_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
		ChatSessionId: uuid.New(),
		Chat:          "hello",
	})
	assert.Error(t, err)
}

func TestSendChatConcurrentTurnsSerialize(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "Noted."})
	sessionId := h.newSession(t)

	const turns = 8
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.send(t, sessionId, "tell me about the loyalty program benefits today")
		}()
	}
	wg.Wait()

	count, err := h.uow.messages.Count(context.Background(),
		specification.ByChatSessionID{ChatSessionID: sessionId})
	require.NoError(t, err)
	// greeting plus one user and one assistant message per turn
	assert.EqualValues(t, 1+2*turns, count)
}

func TestSendChatFirstTurnNamesSession(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "Hello!"})
	sessionId := h.newSession(t)

	h.send(t, sessionId, "hello there Maharaja")

	sessions, err := h.service.GetAllSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "hello there Maharaja", sessions[0].Title)
}

func TestDeleteSessionRemovesEverything(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "Hi."})
	sessionId := h.newSession(t)
	h.send(t, sessionId, "hello")

	err := h.service.DeleteSession(context.Background(), &dto.DeleteSessionRequest{ChatSessionId: sessionId})
	require.NoError(t, err)

	count, err := h.uow.messages.Count(context.Background(),
		specification.ByChatSessionID{ChatSessionID: sessionId})
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = h.service.SendChat(context.Background(), &dto.SendChatRequest{ChatSessionId: sessionId, Chat: "hello"})
	assert.Error(t, err)
}

func TestDeleteSessionSerializedWithTurns(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "Noted."})
	sessionId := h.newSession(t)
	h.send(t, sessionId, "hello")

	// turns racing a delete either complete normally or see the session gone
	const turns = 6
	errs := make(chan error, turns+1)
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.service.SendChat(context.Background(), &dto.SendChatRequest{
				ChatSessionId: sessionId,
				Chat:          "tell me about the loyalty program",
			})
			errs <- err
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- h.service.DeleteSession(context.Background(),
			&dto.DeleteSessionRequest{ChatSessionId: sessionId})
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.ErrorContains(t, err, "not found")
		}
	}

	count, err := h.uow.messages.Count(context.Background(),
		specification.ByChatSessionID{ChatSessionID: sessionId})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStatsAccumulate(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "Hello!"})
	sessionId := h.newSession(t)

	h.send(t, sessionId, "hello")
	h.send(t, sessionId, "Find me flights from DEL to BOM tomorrow")

	stats := h.service.Stats()
	assert.EqualValues(t, 2, stats.TotalTurns)
	assert.EqualValues(t, 1, stats.IntentCounts["FLIGHT"])
	assert.EqualValues(t, 1, stats.IntentCounts["GENERAL"])
}

func TestHindiTurnGetsHindiMetadata(t *testing.T) {
	h := newEngineHarness(t, &stubLLM{reply: "नमस्ते!"})
	sessionId := h.newSession(t)

	resp := h.send(t, sessionId, "नमस्ते")
	assert.Equal(t, "hi", resp.DetectedLanguage)
}
