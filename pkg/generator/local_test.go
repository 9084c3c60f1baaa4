package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/menagerie-labs/boardroom/pkg/boardroom"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/persona"
)

func TestLocal_ParsesPersonaAndModeTags(t *testing.T) {
	l := NewLocal()
	s := &models.BusinessStrategy{ProjectName: "Acme", TargetCustomer: "Cat owners"}

	res, err := l.GenerateText(context.Background(), &Request{Prompt: boardroom.ComposeGreeting(s)})
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if res.Provider != ProviderLocal {
		t.Fatalf("Provider = %q, want %q", res.Provider, ProviderLocal)
	}
	if !strings.Contains(res.Content, "For Acme,") {
		t.Fatalf("finance intro should mention the project, got %q", res.Content)
	}
	if !strings.Contains(res.Content, "unit economics") {
		t.Fatalf("finance intro content = %q", res.Content)
	}

	intro := boardroom.ComposeIntroduction(persona.Marketing, s, nil)
	res, err = l.GenerateText(context.Background(), &Request{Prompt: intro})
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if !strings.Contains(res.Content, "for Cat owners") {
		t.Fatalf("marketing intro should use target customer, got %q", res.Content)
	}
}

func TestLocal_ContinuationUsesLatestMessage(t *testing.T) {
	l := NewLocal()
	s := &models.BusinessStrategy{ProjectName: "Acme"}
	history := []string{"User: hello", "Orion, the Guardian of the Vault: hi"}

	prompt := boardroom.ComposeContinuation(persona.Operations, s, history, "how do we scale the team?")
	res, err := l.GenerateText(context.Background(), &Request{Prompt: prompt})
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if !strings.Contains(res.Content, "runbook") {
		t.Fatalf("operations scaling response = %q", res.Content)
	}
}

func TestLocal_Deterministic(t *testing.T) {
	l := NewLocal()
	prompt := boardroom.ComposeContinuation(persona.Finance, nil, nil, "more detail")

	a, _ := l.GenerateText(context.Background(), &Request{Prompt: prompt})
	b, _ := l.GenerateText(context.Background(), &Request{Prompt: prompt})
	if a.Content != b.Content {
		t.Fatalf("local generator is not deterministic: %q vs %q", a.Content, b.Content)
	}
	if a.Content == "" {
		t.Fatalf("local generator produced empty content")
	}
}

func TestLocal_GenerateJSONMemberFeedback(t *testing.T) {
	l := NewLocal()
	s := &models.BusinessStrategy{ProjectName: "Acme", TargetCustomer: "Cat owners"}

	got, err := l.GenerateJSON(context.Background(), &Request{
		Prompt: boardroom.ComposeIntroduction(persona.Marketing, s, nil),
	})
	if err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	response, _ := got["response"].(string)
	if response == "" {
		t.Fatalf("missing response: %v", got)
	}
	if got["assessment"] != "Promising" {
		t.Fatalf("assessment = %v, want Promising for a filled strategy", got["assessment"])
	}
	questions, ok := got["keyQuestions"].([]any)
	if !ok || len(questions) != 2 {
		t.Fatalf("keyQuestions = %v, want the persona's first two", got["keyQuestions"])
	}
}

func TestLocal_GenerateJSONShape(t *testing.T) {
	l := NewLocal()
	got, err := l.GenerateJSON(context.Background(), &Request{Prompt: "anything"})
	if err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	if got["overallAssessment"] == "" {
		t.Fatalf("missing overallAssessment: %v", got)
	}
	for _, key := range []string{"keyRisks", "keyOpportunities", "recommendations"} {
		list, ok := got[key].([]any)
		if !ok || len(list) == 0 {
			t.Fatalf("GenerateJSON()[%s] = %v, want non-empty list", key, got[key])
		}
	}
}
