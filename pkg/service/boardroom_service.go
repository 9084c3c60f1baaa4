package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/menagerie-labs/boardroom/pkg/boardroom"
	"github.com/menagerie-labs/boardroom/pkg/db"
	"github.com/menagerie-labs/boardroom/pkg/event"
	"github.com/menagerie-labs/boardroom/pkg/extract"
	"github.com/menagerie-labs/boardroom/pkg/generator"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/persona"
	"github.com/menagerie-labs/boardroom/pkg/utils"
)

var (
	// ErrEmptyMessage is returned when a user message is blank.
	ErrEmptyMessage = errors.New("user message is required")
	// ErrConversationCompleted is returned when messaging a completed session.
	ErrConversationCompleted = errors.New("conversation is completed")
	// ErrInvalidUpdate is returned for unknown status or phase values.
	ErrInvalidUpdate = errors.New("invalid conversation update")
)

const (
	greetingMaxTokens = 300
	turnMaxTokens     = 350
	chunkSize         = 80
)

// BoardroomService orchestrates board sessions: it owns turn planning, prompt
// composition, generation, streaming and persistence ordering. Handlers only
// translate HTTP to these calls.
type BoardroomService struct {
	store     *ConversationStore
	gen       generator.Generator
	rules     *boardroom.Rules
	extractor extract.Extractor
	artifacts *ArtifactService
	emitter   *event.Emitter
	logger    *slog.Logger
}

// NewBoardroomService wires the orchestrator.
func NewBoardroomService(store *ConversationStore, gen generator.Generator, extractor extract.Extractor, artifacts *ArtifactService) *BoardroomService {
	return &BoardroomService{
		store:     store,
		gen:       gen,
		rules:     boardroom.DefaultRules(),
		extractor: extractor,
		artifacts: artifacts,
		emitter:   event.Global(),
		logger:    utils.GetLogger(),
	}
}

// NewSessionID mints a session identifier.
func NewSessionID() string {
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// StartConversation opens a session: persists the strategy, posts the opening
// system message and generates the finance advisor's greeting. The greeting
// never fails the start; generation errors fall back to a fixed opener.
func (s *BoardroomService) StartConversation(ctx context.Context, strategy *models.BusinessStrategy) (*models.ConversationView, error) {
	if strategy == nil {
		strategy = &models.BusinessStrategy{}
	}
	extract.Enrich(strategy, s.extractor)

	projectName := strategy.ProjectName
	if projectName == "" {
		projectName = "Untitled Project"
	}

	sessionID := NewSessionID()
	conv, err := s.store.CreateConversation(sessionID, projectName, strategy)
	if err != nil {
		return nil, err
	}

	systemMessage := "Welcome to the boardroom! Orion, our CFO, will begin with some questions to understand your business concept."
	if strategy.HasMinimalInfo() {
		systemMessage = "Welcome to the boardroom! Orion, our CFO, will start by discussing the financial aspects of your strategy."
	}
	if _, err := s.addMessage(conv.ID, sessionID, db.MessageTypeSystem, "", systemMessage, nil); err != nil {
		return nil, err
	}

	s.generateGreeting(ctx, conv.ID, sessionID, strategy)

	return s.GetConversation(sessionID)
}

func (s *BoardroomService) generateGreeting(ctx context.Context, conversationID, sessionID string, strategy *models.BusinessStrategy) {
	p := persona.Get(persona.Finance)
	prompt := boardroom.ComposeGreeting(strategy)

	res, err := s.gen.GenerateText(ctx, &generator.Request{Prompt: prompt, MaxTokens: greetingMaxTokens})
	if err != nil {
		s.logger.Error("greeting generation failed, using fallback", "session_id", sessionID, "error", err)
		fallback := fmt.Sprintf("Hello! I'm %s, your %s. I'm excited to discuss your business strategy! Could you start by telling me about the core problem or opportunity you're addressing?", p.Name, p.Title)
		out := utils.EstimateTokens(fallback)
		meta := &db.TurnMetadata{
			Name: p.Name, Title: p.Title, AnimalSpirit: p.AnimalSpirit, Mantra: p.Mantra,
			Tokens: db.TokenCounts{Input: 0, Output: out, Total: out},
		}
		if _, err := s.addMessage(conversationID, sessionID, db.MessageTypePersonaTurn, p.ID, fallback, meta); err != nil {
			s.logger.Error("failed to persist greeting", "session_id", sessionID, "error", err)
			return
		}
		if err := s.store.AddTokenUsage(conversationID, db.RequestTypeInitialGreeting, p.ID, 0, out, 0); err != nil {
			s.logger.Error("failed to record greeting usage", "session_id", sessionID, "error", err)
		}
		return
	}

	in := utils.EstimateTokens(prompt)
	out := utils.EstimateTokens(res.Content)
	meta := &db.TurnMetadata{
		Name: p.Name, Title: p.Title, AnimalSpirit: p.AnimalSpirit, Mantra: p.Mantra,
		Provider: res.Provider,
		Tokens:   db.TokenCounts{Input: in, Output: out, Total: in + out},
	}
	if _, err := s.addMessage(conversationID, sessionID, db.MessageTypePersonaTurn, p.ID, res.Content, meta); err != nil {
		s.logger.Error("failed to persist greeting", "session_id", sessionID, "error", err)
		return
	}
	if err := s.store.AddTokenUsage(conversationID, db.RequestTypeInitialGreeting, p.ID, in, out, 0); err != nil {
		s.logger.Error("failed to record greeting usage", "session_id", sessionID, "error", err)
	}
}

// HandleUserMessage appends the user message, plans the responding advisors
// and streams their turns as chunks. The returned channel is closed when every
// queued turn has been generated and persisted; callers must drain it fully so
// persistence completes even if the client goes away.
func (s *BoardroomService) HandleUserMessage(ctx context.Context, sessionID, message string) (<-chan *models.TurnChunk, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if conv.Status == db.ConversationStatusCompleted || conv.Phase == db.PhaseCompleted {
		return nil, ErrConversationCompleted
	}

	if _, err := s.addMessage(conv.ID, sessionID, db.MessageTypeUser, "", message, nil); err != nil {
		return nil, err
	}

	// Reload so planning and history include the new user message
	conv, err = s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	strategy := conv.Strategy.AsStrategy()
	userTexts := userMessageTexts(conv.Messages)
	userCount := len(userTexts)

	active, err := s.store.ActivePersonas(conv.ID)
	if err != nil {
		return nil, err
	}
	state := boardroom.NewState(conv.Phase, active)
	plan := s.rules.PlanTurn(message, userTexts, userCount, state)

	// State mutations persist before any generation so a crash mid-stream
	// never loses an activation
	for _, id := range plan.Activations {
		if err := s.store.ActivateParticipant(conv.ID, id); err != nil {
			return nil, err
		}
		s.emitter.Emit(event.ParticipantActivatedEvent{SessionID: sessionID, Persona: id})
	}
	if plan.PromoteToMulti {
		if err := s.store.UpdatePhase(conv.ID, db.PhaseMultiAdvisor); err != nil {
			return nil, err
		}
		s.emitter.Emit(event.PhaseChangedEvent{SessionID: sessionID, Phase: db.PhaseMultiAdvisor})
	}

	history := renderHistory(conv.Messages)
	hasPDF := strategy.HasPDF()
	conversationID := conv.ID

	ch := make(chan *models.TurnChunk, 32)
	// Generation outlives the request: a client disconnect must not swap an
	// in-flight response for the fallback
	genCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(ch)

		s.runTurn(genCtx, ch, conversationID, sessionID, plan.Responder, plan.Mode, plan.IsNewIntroduction, strategy, history, message)

		// Artifact detection runs after the primary turn so the latest
		// exchange counts toward the transcript
		s.maybeGenerateArtifact(sessionID, hasPDF)

		for _, id := range plan.Queued {
			s.runTurn(genCtx, ch, conversationID, sessionID, id, boardroom.ModeContinue, false, strategy, history, message)
		}
	}()

	return ch, nil
}

// runTurn generates, persists and streams one persona turn.
func (s *BoardroomService) runTurn(ctx context.Context, ch chan<- *models.TurnChunk, conversationID, sessionID, personaID string, mode boardroom.TurnMode, isIntro bool, strategy *models.BusinessStrategy, history []string, message string) {
	p := persona.Get(personaID)
	prompt := boardroom.ComposeTurn(mode, personaID, strategy, history, message)

	var content, provider string
	res, err := s.gen.GenerateText(ctx, &generator.Request{Prompt: prompt, MaxTokens: turnMaxTokens})
	if err != nil {
		s.logger.Error("turn generation failed, using fallback",
			"session_id", sessionID, "persona", personaID, "error", err)
		content = fmt.Sprintf("I apologize, I'm having trouble forming a full response right now. From my side as %s, the key thing I'd want to dig into next is this: %s", p.Title, p.KeyQuestions[0])
	} else {
		content = res.Content
		provider = res.Provider
	}

	in := utils.EstimateTokens(prompt + "\n" + message)
	out := utils.EstimateTokens(content)
	meta := &db.TurnMetadata{
		Name: p.Name, Title: p.Title, AnimalSpirit: p.AnimalSpirit, Mantra: p.Mantra,
		IsNewIntroduction: isIntro,
		Provider:          provider,
		Tokens:            db.TokenCounts{Input: in, Output: out, Total: in + out},
	}
	// A turn that cannot be persisted is not streamed either; the client
	// would otherwise see content that vanishes on the next fetch
	if _, err := s.addMessage(conversationID, sessionID, db.MessageTypePersonaTurn, personaID, content, meta); err != nil {
		s.logger.Error("failed to persist turn",
			"session_id", sessionID, "persona", personaID, "error", err)
		return
	}
	requestType := db.RequestTypeMessage
	if isIntro {
		requestType = db.RequestTypeAdvisorIntro
	}
	if err := s.store.AddTokenUsage(conversationID, requestType, personaID, in, out, 0); err != nil {
		s.logger.Error("failed to record turn usage",
			"session_id", sessionID, "persona", personaID, "error", err)
	}

	for _, chunk := range splitChunks(content, chunkSize) {
		ch <- &models.TurnChunk{
			Content:           chunk,
			Persona:           personaID,
			Name:              p.Name,
			Title:             p.Title,
			IsNewIntroduction: isIntro,
			Provider:          provider,
		}
	}
	ch <- &models.TurnChunk{
		Persona:      personaID,
		Name:         p.Name,
		Title:        p.Title,
		Provider:     provider,
		TurnComplete: true,
	}
}

// maybeGenerateArtifact checks the fresh transcript for a visualization
// request and fires generation in the background.
func (s *BoardroomService) maybeGenerateArtifact(sessionID string, hasPDF bool) {
	if s.artifacts == nil {
		return
	}
	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return
	}
	transcript := strings.Join(renderHistory(conv.Messages), "\n")
	opp := s.rules.DetectArtifactOpportunity(transcript, hasPDF)
	if opp == nil {
		return
	}
	s.logger.Info("artifact opportunity detected", "session_id", sessionID, "type", opp.Type)
	go func() {
		if _, err := s.artifacts.Generate(context.Background(), sessionID, opp.Type, opp.Description); err != nil {
			s.logger.Error("background artifact generation failed",
				"session_id", sessionID, "type", opp.Type, "error", err)
		}
	}()
}

// GetConversation returns the full session view.
func (s *BoardroomService) GetConversation(sessionID string) (*models.ConversationView, error) {
	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.Stats(conv.ID)
	if err != nil {
		return nil, err
	}
	return conversationView(conv, stats), nil
}

// UpdateConversation applies a status and/or phase override.
func (s *BoardroomService) UpdateConversation(sessionID string, req *models.UpdateConversationRequest) (*models.ConversationView, error) {
	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		switch *req.Status {
		case db.ConversationStatusActive, db.ConversationStatusCompleted:
		default:
			return nil, fmt.Errorf("%w: status %q", ErrInvalidUpdate, *req.Status)
		}
	}
	if req.Phase != nil {
		switch *req.Phase {
		case db.PhaseSoloAdvisor, db.PhaseMultiAdvisor, db.PhaseCompleted:
		default:
			return nil, fmt.Errorf("%w: phase %q", ErrInvalidUpdate, *req.Phase)
		}
	}

	if req.Status != nil {
		if err := s.store.UpdateStatus(conv.ID, *req.Status); err != nil {
			return nil, err
		}
		// Completing the session also closes the phase machine
		if *req.Status == db.ConversationStatusCompleted && req.Phase == nil {
			if err := s.store.UpdatePhase(conv.ID, db.PhaseCompleted); err != nil {
				return nil, err
			}
		}
		s.emitter.Emit(event.ConversationUpdatedEvent{SessionID: sessionID, Status: *req.Status})
	}
	if req.Phase != nil {
		if err := s.store.UpdatePhase(conv.ID, *req.Phase); err != nil {
			return nil, err
		}
		s.emitter.Emit(event.PhaseChangedEvent{SessionID: sessionID, Phase: *req.Phase})
	}

	return s.GetConversation(sessionID)
}

// AttachFile merges an uploaded document into the strategy, refreshes the
// excerpt and posts a system notice.
func (s *BoardroomService) AttachFile(sessionID string, file *models.SupplementaryFile) (*models.ConversationView, error) {
	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	strategy := conv.Strategy.AsStrategy()
	if strategy == nil {
		strategy = &models.BusinessStrategy{}
	}
	strategy.SupplementaryFile = file
	extract.Enrich(strategy, s.extractor)

	if err := s.store.UpdateStrategy(conv.ID, strategy); err != nil {
		return nil, err
	}
	notice := fmt.Sprintf("A new file was attached: %s", file.Name)
	if _, err := s.addMessage(conv.ID, sessionID, db.MessageTypeSystem, "", notice, nil); err != nil {
		return nil, err
	}

	return s.GetConversation(sessionID)
}

// Stats returns aggregated counters for a session.
func (s *BoardroomService) Stats(sessionID string) (*models.ConversationStats, error) {
	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	return s.store.Stats(conv.ID)
}

// RecentConversations lists the latest sessions.
func (s *BoardroomService) RecentConversations() ([]models.RecentConversation, error) {
	return s.store.Recent(20)
}

func (s *BoardroomService) addMessage(conversationID, sessionID, messageType, personaID, content string, meta *db.TurnMetadata) (*db.Message, error) {
	msg, err := s.store.AddMessage(conversationID, messageType, personaID, content, meta)
	if err != nil {
		return nil, err
	}
	s.emitter.Emit(event.MessageAddedEvent{
		SessionID:   sessionID,
		MessageID:   msg.ID,
		MessageType: messageType,
		Persona:     personaID,
	})
	return msg, nil
}

// renderHistory turns the transcript into prompt lines, skipping system
// messages. Persona turns use the display name when present.
func renderHistory(messages []db.Message) []string {
	var lines []string
	for _, m := range messages {
		switch m.MessageType {
		case db.MessageTypeUser:
			lines = append(lines, "User: "+m.Content)
		case db.MessageTypePersonaTurn:
			name := m.Persona
			if m.Metadata != nil && m.Metadata.Name != "" {
				name = m.Metadata.Name
			}
			lines = append(lines, name+": "+m.Content)
		}
	}
	return lines
}

func userMessageTexts(messages []db.Message) []string {
	var texts []string
	for _, m := range messages {
		if m.MessageType == db.MessageTypeUser {
			texts = append(texts, m.Content)
		}
	}
	return texts
}

// splitChunks breaks text into word-boundary chunks of roughly limit
// characters for simulated streaming.
func splitChunks(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}
	var chunks []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > limit {
			chunks = append(chunks, current+" ")
			current = w
			continue
		}
		current += " " + w
	}
	chunks = append(chunks, current)
	return chunks
}

func conversationView(conv *db.Conversation, stats *models.ConversationStats) *models.ConversationView {
	view := &models.ConversationView{
		SessionID:   conv.SessionID,
		ProjectName: conv.ProjectName,
		Strategy:    conv.Strategy.AsStrategy(),
		Phase:       conv.Phase,
		Status:      conv.Status,
		Messages:    make([]models.MessageView, 0, len(conv.Messages)),
		Artifacts:   make([]models.ArtifactView, 0, len(conv.Artifacts)),
		Stats:       stats,
		CreatedAt:   conv.CreatedAt,
		UpdatedAt:   conv.UpdatedAt,
	}
	for _, m := range conv.Messages {
		mv := models.MessageView{
			ID:          m.ID,
			MessageType: m.MessageType,
			Persona:     m.Persona,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
		}
		if meta := m.Metadata; meta != nil {
			mv.Name = meta.Name
			mv.Title = meta.Title
			mv.AnimalSpirit = meta.AnimalSpirit
			mv.Mantra = meta.Mantra
			mv.IsNewIntroduction = meta.IsNewIntroduction
			mv.Provider = meta.Provider
			if meta.Tokens.Total > 0 {
				mv.Tokens = &models.TokenCounts{
					Input:  meta.Tokens.Input,
					Output: meta.Tokens.Output,
					Total:  meta.Tokens.Total,
				}
			}
		}
		view.Messages = append(view.Messages, mv)
	}
	for _, a := range conv.Artifacts {
		view.Artifacts = append(view.Artifacts, artifactView(&a))
	}
	return view
}
