package service

import (
	"context"
	"errors"
	"testing"

	"github.com/menagerie-labs/boardroom/pkg/generator"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/persona"
)

func TestSimulate(t *testing.T) {
	svc := NewSimulationService(generator.NewLocal())

	result, err := svc.Simulate(context.Background(), &models.BusinessStrategy{
		ProjectName:        "Acme",
		OneSentenceSummary: "Subscription boxes for cat owners",
		TargetCustomer:     "Cat owners",
	})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if len(result.Responses) != 3 {
		t.Fatalf("got %d responses, want one per advisor", len(result.Responses))
	}
	wantOrder := []string{persona.Finance, persona.Marketing, persona.Operations}
	for i, r := range result.Responses {
		if r.Persona != wantOrder[i] {
			t.Fatalf("response order = %v", result.Responses)
		}
		if r.Response == "" || r.Response == "No response provided" {
			t.Fatalf("response %d is empty: %+v", i, r)
		}
		if r.Assessment == "" || len(r.KeyQuestions) == 0 {
			t.Fatalf("response %d missing assessment or questions: %+v", i, r)
		}
	}

	if result.Summary == nil || result.Summary.OverallAssessment == "" {
		t.Fatalf("summary = %+v", result.Summary)
	}
}

func TestSimulate_InvalidStrategy(t *testing.T) {
	svc := NewSimulationService(generator.NewLocal())

	cases := []*models.BusinessStrategy{
		nil,
		{ProjectName: "Acme"},
		{OneSentenceSummary: "Just a summary"},
	}
	for _, strategy := range cases {
		if _, err := svc.Simulate(context.Background(), strategy); !errors.Is(err, ErrInvalidStrategy) {
			t.Fatalf("Simulate(%+v) error = %v, want ErrInvalidStrategy", strategy, err)
		}
	}
}
