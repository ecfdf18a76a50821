package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"maharaja-assistant-be/internal/dto"
	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/contract"
	"maharaja-assistant-be/internal/repository/specification"
	"maharaja-assistant-be/internal/repository/unitofwork"
	"maharaja-assistant-be/pkg/embedding"
	"maharaja-assistant-be/pkg/events"
	"maharaja-assistant-be/pkg/flights"
	"maharaja-assistant-be/pkg/language"
	"maharaja-assistant-be/pkg/llm"
	pktNats "maharaja-assistant-be/pkg/nats"
	"maharaja-assistant-be/pkg/rag/history"
	"maharaja-assistant-be/pkg/rag/intent"
	"maharaja-assistant-be/pkg/rag/response"
	"maharaja-assistant-be/pkg/rag/rewrite"
	"maharaja-assistant-be/pkg/rag/search"
	"maharaja-assistant-be/pkg/rag/session"
	"maharaja-assistant-be/pkg/rag/state"
	"maharaja-assistant-be/pkg/store"

	"github.com/google/uuid"
)

const defaultSessionTitle = "New conversation"

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error
	Stats() *dto.EngineStatsResponse
}

// ChatbotConfig carries the tunables of the conversation engine
type ChatbotConfig struct {
	StalenessWindow int
	FollowUpTokens  int
	Search          search.Config
	ComposeTimeout  time.Duration
	MaxReplyLength  int
}

// turnMetadata is persisted on the assistant message as its JSON payload
type turnMetadata struct {
	Intent           string  `json:"intent"`
	Confidence       float32 `json:"confidence"`
	Reason           string  `json:"reason"`
	DetectedLanguage string  `json:"detected_language"`
	RewrittenQuery   string  `json:"rewritten_query,omitempty"`
	EvidenceCount    int     `json:"evidence_count"`
	FallbackUsed     bool    `json:"fallback_used"`
	ElapsedMs        int64   `json:"elapsed_ms"`
}

// chatbotService coordinates the domain components of one conversation turn
type chatbotService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher // nil when NATS is disabled
	llmLogger      *log.Logger

	classifier         *intent.Classifier
	rewriter           *rewrite.Rewriter
	searchOrchestrator *search.Orchestrator
	searchConfig       search.Config
	simulator          *flights.Simulator
	stateManager       *state.Manager
	sessionManager     *session.Manager
	historyLoader      *history.Loader
	composer           *response.Composer

	locks sync.Map // session id -> *sync.Mutex, serializes turns per session
	stats engineStats
}

type engineStats struct {
	mu             sync.Mutex
	totalTurns     int64
	fallbackTurns  int64
	intentCounts   map[string]int64
	totalElapsedMs int64
}

// NewChatbotService wires the conversation engine with all domain components
func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	stateRepo contract.SessionStateRepository,
	simulator *flights.Simulator,
	eventPublisher *pktNats.Publisher,
	config ChatbotConfig,
) IChatbotService {

	llmLogger := initLLMLogger()

	return &chatbotService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		llmLogger:      llmLogger,

		classifier:         intent.NewClassifier(config.StalenessWindow, config.FollowUpTokens, llmLogger),
		rewriter:           rewrite.NewRewriter(llmLogger),
		searchOrchestrator: search.NewOrchestrator(embeddingProvider, llmLogger),
		searchConfig:       config.Search,
		simulator:          simulator,
		stateManager:       state.NewManager(llmLogger),
		sessionManager:     session.NewManager(stateRepo),
		historyLoader:      history.NewLoader(uowFactory, history.DefaultWindow, llmLogger),
		composer:           response.NewComposer(llmProvider, config.ComposeTimeout, config.MaxReplyLength, llmLogger),

		stats: engineStats{intentCounts: make(map[string]int64)},
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "engine.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[ENGINE] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// CreateSession creates a chat session with the opening assistant greeting
func (cs *chatbotService) CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	title := defaultSessionTitle
	if request != nil && request.Title != "" {
		title = request.Title
	}

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		Title:     title,
		CreatedAt: now,
	}

	greeting := entity.ChatMessage{
		Id:               uuid.New(),
		ChatSessionId:    chatSession.Id,
		Role:             entity.ChatMessageRoleAssistant,
		Text:             "Namaste! I am Maharaja, your Air India assistant. I can search flights and answer baggage and travel policy questions. How may I help you?",
		DetectedLanguage: language.English.Code(),
		CreatedAt:        now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

// GetAllSessions lists sessions newest first
func (cs *chatbotService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		result = append(result, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return result, nil
}

// GetChatHistory returns the full transcript of a session in order
func (cs *chatbotService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.sessionManager.VerifyChatSession(ctx, uow, sessionId); err != nil {
		return nil, err
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		result = append(result, &dto.GetChatHistoryResponse{
			Id:               msg.Id,
			Role:             msg.Role,
			Chat:             msg.Text,
			DetectedLanguage: msg.DetectedLanguage,
			CreatedAt:        msg.CreatedAt,
		})
	}
	return result, nil
}

// SendChat runs one full conversation turn. Turns of the same session are
// serialized; turns of different sessions run concurrently. The turn never
// panics outward: any unexpected failure degrades to a fallback reply.
func (cs *chatbotService) SendChat(ctx context.Context, request *dto.SendChatRequest) (resp *dto.SendChatResponse, err error) {
	lock := cs.sessionLock(request.ChatSessionId)
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()
	lang := language.Detect(request.Chat)

	defer func() {
		if r := recover(); r != nil {
			cs.llmLogger.Printf("[PANIC] turn recovered: %v", r)
			resp, err = cs.degradedResponse(request, lang, started), nil
		}
	}()

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := cs.sessionManager.VerifyChatSession(ctx, uow, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	sessionState := cs.sessionManager.LoadOrCreate(request.ChatSessionId)
	cs.stateManager.BeginTurn(sessionState, request.Chat)
	cs.stateManager.SetCountryContext(sessionState, request.Country)
	// a country named in the utterance overrides the client hint
	if detected := language.DetectCountry(request.Chat); detected != "" {
		cs.stateManager.SetCountryContext(sessionState, detected)
	}

	classification := cs.classifier.Classify(request.Chat, sessionState)
	reply, rewrittenQuery := cs.executeTurn(ctx, uow, sessionState, request.Chat, classification, lang)

	elapsed := time.Since(started)
	metadata := turnMetadata{
		Intent:           string(reply.Intent),
		Confidence:       classification.Confidence,
		Reason:           classification.Reason,
		DetectedLanguage: lang.Code(),
		RewrittenQuery:   rewrittenQuery,
		EvidenceCount:    reply.EvidenceCount,
		FallbackUsed:     reply.FallbackUsed,
		ElapsedMs:        elapsed.Milliseconds(),
	}

	sent, replied := cs.persistTurn(ctx, uow, chatSession, request.Chat, reply.Text, lang, metadata)

	// losing volatile state costs follow-up context, not the turn
	if err := cs.sessionManager.Save(sessionState); err != nil {
		cs.llmLogger.Printf("[WARN] session state save failed: %v", err)
	}

	cs.recordStats(reply, elapsed)
	cs.publishTurnCompleted(request.ChatSessionId, reply, classification.Confidence, lang, elapsed)

	return &dto.SendChatResponse{
		ChatSessionId:    chatSession.Id,
		ChatSessionTitle: chatSession.Title,
		Sent:             sent,
		Reply:            replied,
		Intent:           string(reply.Intent),
		Confidence:       classification.Confidence,
		DetectedLanguage: lang.Code(),
		EvidenceCount:    reply.EvidenceCount,
		FallbackUsed:     reply.FallbackUsed,
		ElapsedMs:        elapsed.Milliseconds(),
	}, nil
}

// executeTurn routes the classified utterance to its pipeline and returns the
// composed reply plus the rewritten query when a follow-up was resolved
func (cs *chatbotService) executeTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	sessionState *store.Session,
	utterance string,
	classification *intent.Classification,
	lang language.Language,
) (*response.ComposedReply, string) {

	target := classification.Intent
	query := utterance
	flightQuery := classification.FlightParams
	policyTopics := classification.PolicyTopics
	rewrittenQuery := ""

	if target == intent.IntentFollowUp {
		rewritten := cs.rewriter.Rewrite(utterance, sessionState)
		target = rewritten.TargetIntent
		if rewritten.Text != utterance {
			query = rewritten.Text
			rewrittenQuery = rewritten.Text
		}
		if rewritten.FlightQuery != nil {
			flightQuery = rewritten.FlightQuery
		}
	}

	switch target {
	case intent.IntentFlight:
		return cs.runFlightTurn(sessionState, flightQuery, query), rewrittenQuery

	case intent.IntentPolicy:
		return cs.runPolicyTurn(ctx, uow, sessionState, query, policyTopics, lang), rewrittenQuery

	default:
		return cs.runGeneralTurn(ctx, sessionState, query, lang), rewrittenQuery
	}
}

func (cs *chatbotService) runFlightTurn(sessionState *store.Session, flightQuery *store.FlightQuery, query string) *response.ComposedReply {
	if flightQuery == nil || flightQuery.Origin == "" || flightQuery.Destination == "" {
		return cs.composeRoutePrompt()
	}

	results, err := cs.simulator.Search(*flightQuery)
	if err == nil && len(results.Options) > 0 {
		cs.stateManager.RecordFlightResult(sessionState, results)
	}
	return cs.composer.ComposeFlights(results, err)
}

func (cs *chatbotService) runPolicyTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	sessionState *store.Session,
	query string,
	topics []string,
	lang language.Language,
) *response.ComposedReply {

	evidence, err := cs.searchOrchestrator.Execute(ctx, uow, query, sessionState.CountryContext, lang.Code(), cs.searchConfig)
	if err != nil {
		// retrieval backend down means no evidence, not a failed turn
		cs.llmLogger.Printf("[WARN] retrieval failed: %v", err)
		evidence = nil
	}

	reply := cs.composer.ComposePolicy(ctx, query, evidence, lang)
	if len(evidence) > 0 {
		cs.stateManager.RecordPolicyAnswer(sessionState, topics, sessionState.CountryContext)
	}
	return reply
}

func (cs *chatbotService) runGeneralTurn(ctx context.Context, sessionState *store.Session, query string, lang language.Language) *response.ComposedReply {
	sessionId, err := uuid.Parse(sessionState.ID)
	if err != nil {
		return cs.composer.ComposeGeneral(ctx, query, lang)
	}

	conversation, err := cs.historyLoader.LoadConversationHistory(ctx, sessionId)
	if err != nil {
		conversation = nil
	}
	return cs.composer.ComposeConversational(ctx, conversation, query, lang)
}

// composeRoutePrompt asks for the missing route instead of guessing one
func (cs *chatbotService) composeRoutePrompt() *response.ComposedReply {
	return cs.composer.ComposeFlights(nil,
		fmt.Errorf("I need both an origin and a destination to search flights, for example \"flights from Delhi to Mumbai tomorrow\""))
}

// persistTurn stores the user and assistant messages. Persistence failure is
// logged and absorbed: the composed reply still reaches the user.
func (cs *chatbotService) persistTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	chatSession *entity.ChatSession,
	userText, replyText string,
	lang language.Language,
	metadata turnMetadata,
) (*dto.SendChatResponseChat, *dto.SendChatResponseChat) {

	now := time.Now()
	userMessage := entity.ChatMessage{
		Id:               uuid.New(),
		ChatSessionId:    chatSession.Id,
		Role:             entity.ChatMessageRoleUser,
		Text:             userText,
		DetectedLanguage: lang.Code(),
		CreatedAt:        now,
	}

	payload, err := json.Marshal(metadata)
	if err != nil {
		payload = nil
	}
	assistantMessage := entity.ChatMessage{
		Id:               uuid.New(),
		ChatSessionId:    chatSession.Id,
		Role:             entity.ChatMessageRoleAssistant,
		Text:             replyText,
		DetectedLanguage: lang.Code(),
		Payload:          payload,
		CreatedAt:        now.Add(time.Millisecond),
	}

	if err := cs.storeTurn(ctx, uow, chatSession, &userMessage, &assistantMessage, userText, now); err != nil {
		cs.llmLogger.Printf("[ERROR] turn persistence failed: %v", err)
	}

	return &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Text,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		}, &dto.SendChatResponseChat{
			Id:        assistantMessage.Id,
			Chat:      assistantMessage.Text,
			Role:      assistantMessage.Role,
			CreatedAt: assistantMessage.CreatedAt,
		}
}

func (cs *chatbotService) storeTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	chatSession *entity.ChatSession,
	userMessage, assistantMessage *entity.ChatMessage,
	userText string,
	now time.Time,
) error {

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return err
	}

	// first user turn names the session
	if chatSession.Title == defaultSessionTitle {
		if err := cs.sessionManager.UpdateTitle(ctx, uow, chatSession, sessionTitleFrom(userText), now); err != nil {
			return err
		}
	}

	return uow.Commit()
}

// DeleteSession removes the transcript and forgets the in-memory state
func (cs *chatbotService) DeleteSession(ctx context.Context, request *dto.DeleteSessionRequest) error {
	// hold the session lock so a racing turn cannot run unserialized
	// against the teardown
	lock := cs.sessionLock(request.ChatSessionId)
	lock.Lock()
	defer lock.Unlock()

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.sessionManager.VerifyChatSession(ctx, uow, request.ChatSessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, request.ChatSessionId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	cs.sessionManager.Expire(request.ChatSessionId)
	cs.locks.Delete(request.ChatSessionId.String())
	return nil
}

// Stats reports the engine counters accumulated since process start
func (cs *chatbotService) Stats() *dto.EngineStatsResponse {
	cs.stats.mu.Lock()
	defer cs.stats.mu.Unlock()

	counts := make(map[string]int64, len(cs.stats.intentCounts))
	for k, v := range cs.stats.intentCounts {
		counts[k] = v
	}

	active := 0
	cs.locks.Range(func(_, _ interface{}) bool {
		active++
		return true
	})

	var avg int64
	if cs.stats.totalTurns > 0 {
		avg = cs.stats.totalElapsedMs / cs.stats.totalTurns
	}

	return &dto.EngineStatsResponse{
		TotalTurns:     cs.stats.totalTurns,
		FallbackTurns:  cs.stats.fallbackTurns,
		IntentCounts:   counts,
		ActiveSessions: active,
		AvgElapsedMs:   avg,
	}
}

func (cs *chatbotService) sessionLock(sessionId uuid.UUID) *sync.Mutex {
	v, _ := cs.locks.LoadOrStore(sessionId.String(), &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (cs *chatbotService) recordStats(reply *response.ComposedReply, elapsed time.Duration) {
	cs.stats.mu.Lock()
	defer cs.stats.mu.Unlock()

	cs.stats.totalTurns++
	cs.stats.intentCounts[string(reply.Intent)]++
	cs.stats.totalElapsedMs += elapsed.Milliseconds()
	if reply.FallbackUsed {
		cs.stats.fallbackTurns++
	}
}

func (cs *chatbotService) publishTurnCompleted(sessionId uuid.UUID, reply *response.ComposedReply, confidence float32, lang language.Language, elapsed time.Duration) {
	if cs.eventPublisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	event := events.NewTurnCompleted(sessionId.String(), string(reply.Intent), confidence, lang.Code(), reply.EvidenceCount, reply.FallbackUsed, elapsed)
	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		cs.llmLogger.Printf("[WARN] failed to publish TURN_COMPLETED: %v", err)
	}
}

// degradedResponse is the absolute floor: whatever went wrong, the caller
// still gets a well-formed reply
func (cs *chatbotService) degradedResponse(request *dto.SendChatRequest, lang language.Language, started time.Time) *dto.SendChatResponse {
	now := time.Now()
	reply := cs.composer.ComposeGeneralFallback(lang)

	cs.recordStats(reply, time.Since(started))

	return &dto.SendChatResponse{
		ChatSessionId: request.ChatSessionId,
		Sent: &dto.SendChatResponseChat{
			Id: uuid.New(), Chat: request.Chat, Role: entity.ChatMessageRoleUser, CreatedAt: now,
		},
		Reply: &dto.SendChatResponseChat{
			Id: uuid.New(), Chat: reply.Text, Role: entity.ChatMessageRoleAssistant, CreatedAt: now,
		},
		Intent:           string(reply.Intent),
		DetectedLanguage: lang.Code(),
		FallbackUsed:     true,
		ElapsedMs:        time.Since(started).Milliseconds(),
	}
}

// sessionTitleFrom derives a session title from the first user message
func sessionTitleFrom(text string) string {
	const maxTitle = 60
	runes := []rune(text)
	if len(runes) <= maxTitle {
		return text
	}
	return string(runes[:maxTitle]) + "…"
}
