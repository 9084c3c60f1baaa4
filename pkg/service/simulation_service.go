package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/menagerie-labs/boardroom/pkg/boardroom"
	"github.com/menagerie-labs/boardroom/pkg/generator"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/persona"
	"github.com/menagerie-labs/boardroom/pkg/utils"
)

// ErrInvalidStrategy is returned when the simulation input lacks the required
// project name or summary.
var ErrInvalidStrategy = errors.New("strategy requires a project name and a one-sentence summary")

// SimulationService runs the one-shot boardroom round: all three advisors
// respond in fixed order, each seeing the responses before it, followed by an
// executive summary. Nothing is persisted.
type SimulationService struct {
	gen    generator.Generator
	logger *slog.Logger
}

// NewSimulationService wires the simulator.
func NewSimulationService(gen generator.Generator) *SimulationService {
	return &SimulationService{
		gen:    gen,
		logger: utils.GetLogger(),
	}
}

// Simulate runs the full round and summary.
func (s *SimulationService) Simulate(ctx context.Context, strategy *models.BusinessStrategy) (*models.SimulateResponse, error) {
	if strategy == nil || strategy.ProjectName == "" || strategy.OneSentenceSummary == "" {
		return nil, ErrInvalidStrategy
	}

	responses := make([]models.MemberFeedback, 0, 3)
	for _, p := range persona.All() {
		previous := make([]string, 0, len(responses))
		for _, r := range responses {
			previous = append(previous, fmt.Sprintf("%s (%s): %s", r.Name, r.Title, r.Response))
		}

		prompt := boardroom.ComposeIntroduction(p.ID, strategy, previous)
		parsed, err := s.gen.GenerateJSON(ctx, &generator.Request{Prompt: prompt})
		if err != nil || parsed == nil {
			if err != nil {
				s.logger.Error("simulation member generation failed", "persona", p.ID, "error", err)
			}
			responses = append(responses, fallbackFeedback(p))
			continue
		}

		feedback := models.MemberFeedback{
			Persona:      p.ID,
			Name:         p.Name,
			Title:        p.Title,
			AnimalSpirit: p.AnimalSpirit,
		}
		feedback.Response, _ = parsed["response"].(string)
		if feedback.Response == "" {
			feedback.Response = "No response provided"
		}
		feedback.Assessment, _ = parsed["assessment"].(string)
		if feedback.Assessment == "" {
			feedback.Assessment = "Needs Work"
		}
		feedback.KeyQuestions = stringList(parsed["keyQuestions"])
		responses = append(responses, feedback)
	}

	summary := s.simulationSummary(ctx, strategy, responses)
	return &models.SimulateResponse{Responses: responses, Summary: summary}, nil
}

func (s *SimulationService) simulationSummary(ctx context.Context, strategy *models.BusinessStrategy, responses []models.MemberFeedback) *models.ExecutiveSummary {
	prompt := boardroom.ComposeExecutiveSummary(strategy, responses)
	parsed, err := s.gen.GenerateJSON(ctx, &generator.Request{Prompt: prompt, MaxTokens: summaryMaxTokens})
	if err != nil {
		s.logger.Error("simulation summary generation failed", "error", err)
		parsed = nil
	}
	if parsed != nil {
		return summaryFromParsed(parsed)
	}

	// Assessment-driven generic summary when structured generation failed
	promising, highRisk := 0, 0
	for _, r := range responses {
		switch r.Assessment {
		case "Promising":
			promising++
		case "High Risk":
			highRisk++
		}
	}
	assessment := "Your strategy has merit but needs refinement in several key areas to maximize its potential."
	switch {
	case promising >= 2:
		assessment = "Your strategy shows strong potential with solid fundamentals that our board members find encouraging."
	case highRisk >= 2:
		assessment = "Your strategy faces significant challenges that require careful attention before moving forward."
	}

	summary := fallbackSummary()
	summary.OverallAssessment = assessment
	summary.KeyRisks = []string{
		"Market validation may require more comprehensive research",
		"Financial projections need stronger supporting data",
		"Operational scalability requires detailed planning",
		"Competitive positioning could be strengthened",
	}
	return summary
}

func fallbackFeedback(p persona.Persona) models.MemberFeedback {
	area := map[string]string{
		persona.Finance:    "financial projections",
		persona.Marketing:  "market strategy",
		persona.Operations: "operational plan",
	}[p.ID]
	domain := map[string]string{
		persona.Finance:    "financial",
		persona.Marketing:  "marketing",
		persona.Operations: "operational",
	}[p.ID]
	focusArea := map[string]string{
		persona.Finance:    "financial model",
		persona.Marketing:  "customer acquisition strategy",
		persona.Operations: "operational processes",
	}[p.ID]

	return models.MemberFeedback{
		Persona:      p.ID,
		Name:         p.Name,
		Title:        p.Title,
		AnimalSpirit: p.AnimalSpirit,
		Response:     fmt.Sprintf("I apologize, but I'm unable to provide detailed feedback at this moment due to a technical issue. However, based on your %s, I recommend reviewing the key elements to ensure they align with industry best practices.", area),
		Assessment:   "Needs Work",
		KeyQuestions: []string{
			fmt.Sprintf("What specific metrics will you use to measure %s success?", domain),
			fmt.Sprintf("How will you address potential challenges in your %s?", focusArea),
		},
	}
}
