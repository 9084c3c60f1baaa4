package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/menagerie-labs/boardroom/pkg/boardroom"
	"github.com/menagerie-labs/boardroom/pkg/db"
	"github.com/menagerie-labs/boardroom/pkg/extract"
	"github.com/menagerie-labs/boardroom/pkg/generator"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/persona"
)

// failingGenerator errors on every call, like a provider outage.
type failingGenerator struct{}

func (failingGenerator) GenerateText(context.Context, *generator.Request) (*generator.Result, error) {
	return nil, errors.New("model unavailable")
}

func (failingGenerator) GenerateJSON(context.Context, *generator.Request) (map[string]any, error) {
	return nil, errors.New("model unavailable")
}

// cancelAwareGenerator fails when its context is already cancelled, the way a
// remote provider call would.
type cancelAwareGenerator struct {
	inner generator.Generator
}

func (g cancelAwareGenerator) GenerateText(ctx context.Context, req *generator.Request) (*generator.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.inner.GenerateText(ctx, req)
}

func (g cancelAwareGenerator) GenerateJSON(ctx context.Context, req *generator.Request) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.inner.GenerateJSON(ctx, req)
}

func newTestBoardroom(t *testing.T) *BoardroomService {
	t.Helper()
	store := newTestStore(t)
	gen := generator.NewLocal()
	artifacts := NewArtifactService(store, gen)
	return NewBoardroomService(store, gen, extract.NewTextExtractor(), artifacts)
}

func drain(t *testing.T, ch <-chan *models.TurnChunk) []*models.TurnChunk {
	t.Helper()
	var chunks []*models.TurnChunk
	for c := range ch {
		chunks = append(chunks, c)
	}
	return chunks
}

func completedTurns(chunks []*models.TurnChunk) []string {
	var personas []string
	for _, c := range chunks {
		if c.TurnComplete {
			personas = append(personas, c.Persona)
		}
	}
	return personas
}

func TestStartConversation(t *testing.T) {
	svc := newTestBoardroom(t)

	view, err := svc.StartConversation(context.Background(), &models.BusinessStrategy{
		ProjectName:        "Acme",
		OneSentenceSummary: "Subscription boxes for cat owners",
	})
	if err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}

	if view.SessionID == "" || view.Phase != db.PhaseSoloAdvisor || view.Status != db.ConversationStatusActive {
		t.Fatalf("view = %+v", view)
	}
	if len(view.Messages) != 2 {
		t.Fatalf("got %d messages, want system message plus greeting", len(view.Messages))
	}
	if view.Messages[0].MessageType != db.MessageTypeSystem ||
		!strings.Contains(view.Messages[0].Content, "financial aspects") {
		t.Fatalf("system message = %+v", view.Messages[0])
	}
	greeting := view.Messages[1]
	if greeting.Persona != persona.Finance || greeting.Name == "" || greeting.Tokens == nil {
		t.Fatalf("greeting = %+v", greeting)
	}
	if view.Stats == nil || view.Stats.TotalTokens == 0 {
		t.Fatalf("greeting usage not recorded: %+v", view.Stats)
	}
}

func TestStartConversation_NoInfo(t *testing.T) {
	svc := newTestBoardroom(t)

	view, err := svc.StartConversation(context.Background(), nil)
	if err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}
	if view.ProjectName != "Untitled Project" {
		t.Fatalf("ProjectName = %q", view.ProjectName)
	}
	if !strings.Contains(view.Messages[0].Content, "begin with some questions") {
		t.Fatalf("system message = %q", view.Messages[0].Content)
	}
}

func TestHandleUserMessage_SoloDefaultsToFinance(t *testing.T) {
	svc := newTestBoardroom(t)
	view, _ := svc.StartConversation(context.Background(), &models.BusinessStrategy{ProjectName: "Acme"})

	ch, err := svc.HandleUserMessage(context.Background(), view.SessionID, "We sell monthly boxes to small bakeries")
	if err != nil {
		t.Fatalf("HandleUserMessage() error = %v", err)
	}
	chunks := drain(t, ch)

	turns := completedTurns(chunks)
	if len(turns) != 1 || turns[0] != persona.Finance {
		t.Fatalf("completed turns = %v, want one finance turn", turns)
	}

	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c.Content)
	}

	after, err := svc.GetConversation(view.SessionID)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if after.Phase != db.PhaseSoloAdvisor {
		t.Fatalf("phase = %s, want solo_advisor", after.Phase)
	}
	last := after.Messages[len(after.Messages)-1]
	if last.MessageType != db.MessageTypePersonaTurn || last.Persona != persona.Finance {
		t.Fatalf("last message = %+v", last)
	}
	if strings.TrimSpace(rebuilt.String()) != last.Content {
		t.Fatalf("streamed content %q != persisted %q", rebuilt.String(), last.Content)
	}
}

func TestHandleUserMessage_IntroducesMarketing(t *testing.T) {
	svc := newTestBoardroom(t)
	view, _ := svc.StartConversation(context.Background(), &models.BusinessStrategy{ProjectName: "Acme"})
	ctx := context.Background()

	drain(t, mustStream(t, svc, ctx, view.SessionID, "We sell monthly boxes to small bakeries"))

	ch := mustStream(t, svc, ctx, view.SessionID, "Who is the ideal customer for this?")
	chunks := drain(t, ch)

	turns := completedTurns(chunks)
	if len(turns) != 1 || turns[0] != persona.Marketing {
		t.Fatalf("completed turns = %v, want marketing introduction", turns)
	}
	if !chunks[0].IsNewIntroduction {
		t.Fatalf("first chunk should be flagged as introduction: %+v", chunks[0])
	}

	after, _ := svc.GetConversation(view.SessionID)
	if after.Phase != db.PhaseMultiAdvisor {
		t.Fatalf("phase = %s, want multi_advisor after introduction", after.Phase)
	}
}

func TestHandleUserMessage_DirectAddressActivates(t *testing.T) {
	svc := newTestBoardroom(t)
	view, _ := svc.StartConversation(context.Background(), &models.BusinessStrategy{ProjectName: "Acme"})
	ctx := context.Background()

	chunks := drain(t, mustStream(t, svc, ctx, view.SessionID, "Castor, how should we handle fulfillment?"))

	turns := completedTurns(chunks)
	if len(turns) != 1 || turns[0] != persona.Operations {
		t.Fatalf("completed turns = %v, want operations", turns)
	}
	if !chunks[0].IsNewIntroduction {
		t.Fatalf("directly addressing an inactive advisor should introduce them")
	}

	after, _ := svc.GetConversation(view.SessionID)
	if after.Phase != db.PhaseMultiAdvisor {
		t.Fatalf("phase = %s, want multi_advisor", after.Phase)
	}
}

func TestHandleUserMessage_MultiAdvisorQueues(t *testing.T) {
	svc := newTestBoardroom(t)
	view, _ := svc.StartConversation(context.Background(), &models.BusinessStrategy{ProjectName: "Acme"})
	ctx := context.Background()

	drain(t, mustStream(t, svc, ctx, view.SessionID, "We sell monthly boxes to small bakeries"))

	chunks := drain(t, mustStream(t, svc, ctx, view.SessionID, "I'd like to hear from all three of you"))

	turns := completedTurns(chunks)
	if len(turns) != 3 {
		t.Fatalf("completed turns = %v, want all three advisors", turns)
	}
	if turns[0] != persona.Finance || turns[1] != persona.Marketing || turns[2] != persona.Operations {
		t.Fatalf("turn order = %v", turns)
	}

	after, _ := svc.GetConversation(view.SessionID)
	if after.Phase != db.PhaseMultiAdvisor {
		t.Fatalf("phase = %s", after.Phase)
	}
}

func TestHandleUserMessage_Validation(t *testing.T) {
	svc := newTestBoardroom(t)
	view, _ := svc.StartConversation(context.Background(), nil)
	ctx := context.Background()

	if _, err := svc.HandleUserMessage(ctx, view.SessionID, "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("blank message error = %v", err)
	}
	if _, err := svc.HandleUserMessage(ctx, "missing", "hi"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("unknown session error = %v", err)
	}

	status := db.ConversationStatusCompleted
	if _, err := svc.UpdateConversation(view.SessionID, &models.UpdateConversationRequest{Status: &status}); err != nil {
		t.Fatalf("UpdateConversation() error = %v", err)
	}
	if _, err := svc.HandleUserMessage(ctx, view.SessionID, "hello again"); !errors.Is(err, ErrConversationCompleted) {
		t.Fatalf("completed session error = %v", err)
	}
}

func TestUpdateConversation(t *testing.T) {
	svc := newTestBoardroom(t)
	view, _ := svc.StartConversation(context.Background(), nil)

	bad := "archived"
	if _, err := svc.UpdateConversation(view.SessionID, &models.UpdateConversationRequest{Status: &bad}); !errors.Is(err, ErrInvalidUpdate) {
		t.Fatalf("invalid status error = %v", err)
	}

	status := db.ConversationStatusCompleted
	updated, err := svc.UpdateConversation(view.SessionID, &models.UpdateConversationRequest{Status: &status})
	if err != nil {
		t.Fatalf("UpdateConversation() error = %v", err)
	}
	if updated.Status != db.ConversationStatusCompleted || updated.Phase != db.PhaseCompleted {
		t.Fatalf("completing should close the phase too: %+v", updated)
	}
}

func TestAttachFile(t *testing.T) {
	svc := newTestBoardroom(t)
	view, _ := svc.StartConversation(context.Background(), &models.BusinessStrategy{ProjectName: "Acme"})

	updated, err := svc.AttachFile(view.SessionID, &models.SupplementaryFile{
		Name:    "notes.txt",
		Type:    models.FileTypeText,
		Content: "We already have 40 waitlist signups.",
	})
	if err != nil {
		t.Fatalf("AttachFile() error = %v", err)
	}

	if updated.Strategy == nil || updated.Strategy.SupplementaryFile == nil {
		t.Fatalf("strategy missing file: %+v", updated.Strategy)
	}
	if updated.Strategy.SupplementaryFile.TextExcerpt == "" {
		t.Fatalf("excerpt not derived for text file")
	}
	last := updated.Messages[len(updated.Messages)-1]
	if last.MessageType != db.MessageTypeSystem || !strings.Contains(last.Content, "notes.txt") {
		t.Fatalf("attachment notice = %+v", last)
	}
}

func TestRecentConversations(t *testing.T) {
	svc := newTestBoardroom(t)
	svc.StartConversation(context.Background(), &models.BusinessStrategy{ProjectName: "First"})
	svc.StartConversation(context.Background(), &models.BusinessStrategy{ProjectName: "Second"})

	recent, err := svc.RecentConversations()
	if err != nil {
		t.Fatalf("RecentConversations() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d recent conversations", len(recent))
	}
}

func TestHandleUserMessage_GeneratorFailureStillResponds(t *testing.T) {
	store := newTestStore(t)
	gen := failingGenerator{}
	svc := NewBoardroomService(store, gen, extract.NewTextExtractor(), NewArtifactService(store, gen))
	ctx := context.Background()

	view, err := svc.StartConversation(ctx, &models.BusinessStrategy{ProjectName: "Acme"})
	if err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}
	greeting := view.Messages[1]
	if greeting.Persona != persona.Finance || greeting.Content == "" {
		t.Fatalf("fallback greeting = %+v", greeting)
	}
	if !strings.Contains(greeting.Content, "Hello! I'm") {
		t.Fatalf("greeting should use the fixed opener, got %q", greeting.Content)
	}

	chunks := drain(t, mustStream(t, svc, ctx, view.SessionID, "We sell monthly boxes to small bakeries"))
	turns := completedTurns(chunks)
	if len(turns) != 1 || turns[0] != persona.Finance {
		t.Fatalf("completed turns = %v, want one finance turn", turns)
	}
	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c.Content)
	}
	if rebuilt.Len() == 0 {
		t.Fatalf("fallback turn streamed no content")
	}

	// A direct address still introduces the advisor on the fallback path
	chunks = drain(t, mustStream(t, svc, ctx, view.SessionID, "Who is the ideal customer for this?"))
	if turns := completedTurns(chunks); len(turns) != 1 || turns[0] != persona.Marketing {
		t.Fatalf("completed turns = %v, want marketing introduction", turns)
	}
	if !chunks[0].IsNewIntroduction {
		t.Fatalf("fallback introduction should be flagged: %+v", chunks[0])
	}

	after, err := svc.GetConversation(view.SessionID)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	last := after.Messages[len(after.Messages)-1]
	cmo := persona.Get(persona.Marketing)
	if last.MessageType != db.MessageTypePersonaTurn || last.Persona != persona.Marketing {
		t.Fatalf("last message = %+v", last)
	}
	if last.Name != cmo.Name || !last.IsNewIntroduction {
		t.Fatalf("fallback turn metadata = %+v", last)
	}
	if !strings.Contains(last.Content, cmo.Title) || !strings.Contains(last.Content, cmo.KeyQuestions[0]) {
		t.Fatalf("fallback content = %q", last.Content)
	}
}

func TestRunTurn_PersistFailureNotStreamed(t *testing.T) {
	store := newTestStore(t)
	svc := NewBoardroomService(store, generator.NewLocal(), extract.NewTextExtractor(), nil)

	conv, err := store.CreateConversation("session_persist", "Acme", &models.BusinessStrategy{ProjectName: "Acme"})
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	sqlDB, err := store.db.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	sqlDB.Close()

	ch := make(chan *models.TurnChunk, 32)
	go func() {
		defer close(ch)
		svc.runTurn(context.Background(), ch, conv.ID, conv.SessionID, persona.Finance,
			boardroom.ModeContinue, false, nil, nil, "hello")
	}()
	if chunks := drain(t, ch); len(chunks) != 0 {
		t.Fatalf("turn streamed %d chunks despite failed persistence", len(chunks))
	}
}

func TestHandleUserMessage_DisconnectKeepsGeneratedTurn(t *testing.T) {
	store := newTestStore(t)
	gen := cancelAwareGenerator{inner: generator.NewLocal()}
	svc := NewBoardroomService(store, gen, extract.NewTextExtractor(), NewArtifactService(store, gen))

	view, err := svc.StartConversation(context.Background(), &models.BusinessStrategy{ProjectName: "Acme"})
	if err != nil {
		t.Fatalf("StartConversation() error = %v", err)
	}

	// The request context is already gone when the turn generates
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chunks := drain(t, mustStream(t, svc, ctx, view.SessionID, "We sell monthly boxes to small bakeries"))
	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c.Content)
	}
	if strings.Contains(rebuilt.String(), "I apologize") {
		t.Fatalf("cancelled request degraded generation to the fallback: %q", rebuilt.String())
	}

	after, _ := svc.GetConversation(view.SessionID)
	last := after.Messages[len(after.Messages)-1]
	if last.Persona != persona.Finance || strings.Contains(last.Content, "I apologize") {
		t.Fatalf("persisted turn = %+v", last)
	}
}

func mustStream(t *testing.T, svc *BoardroomService, ctx context.Context, sessionID, message string) <-chan *models.TurnChunk {
	t.Helper()
	ch, err := svc.HandleUserMessage(ctx, sessionID, message)
	if err != nil {
		t.Fatalf("HandleUserMessage(%q) error = %v", message, err)
	}
	return ch
}

func TestSplitChunks(t *testing.T) {
	text := strings.Repeat("word ", 40)
	chunks := splitChunks(strings.TrimSpace(text), 80)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	joined := strings.Join(chunks, "")
	if strings.TrimSpace(joined) != strings.TrimSpace(text) {
		t.Fatalf("chunks do not reassemble: %q", joined)
	}
	for _, c := range chunks {
		if len(c) > 81 {
			t.Fatalf("chunk too long: %q", c)
		}
	}
}
