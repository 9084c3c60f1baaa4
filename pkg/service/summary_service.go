package service

import (
	"context"
	"log/slog"

	"github.com/menagerie-labs/boardroom/pkg/boardroom"
	"github.com/menagerie-labs/boardroom/pkg/db"
	"github.com/menagerie-labs/boardroom/pkg/generator"
	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/persona"
	"github.com/menagerie-labs/boardroom/pkg/utils"
)

const summaryMaxTokens = 1200

// SummaryService synthesizes the executive board report over a conversation's
// persona turns. Summary generation never fails: unusable generator output
// degrades to a fixed generic report marked as fallback.
type SummaryService struct {
	store  *ConversationStore
	gen    generator.Generator
	logger *slog.Logger
}

// NewSummaryService wires the summarizer.
func NewSummaryService(store *ConversationStore, gen generator.Generator) *SummaryService {
	return &SummaryService{
		store:  store,
		gen:    gen,
		logger: utils.GetLogger(),
	}
}

// Summarize builds the executive summary for a session.
func (s *SummaryService) Summarize(ctx context.Context, sessionID string) (*models.ExecutiveSummary, error) {
	conv, err := s.store.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	strategy := conv.Strategy.AsStrategy()
	feedback := feedbackFromTranscript(conv.Messages)

	prompt := boardroom.ComposeExecutiveSummary(strategy, feedback)
	parsed, err := s.gen.GenerateJSON(ctx, &generator.Request{Prompt: prompt, MaxTokens: summaryMaxTokens})
	if err != nil {
		s.logger.Warn("summary generation failed, using fallback", "session_id", sessionID, "error", err)
		parsed = nil
	}

	summary := summaryFromParsed(parsed)
	if summary.Fallback {
		s.logger.Info("using fallback executive summary", "session_id", sessionID)
	}

	in := utils.EstimateTokens(prompt)
	out := utils.EstimateTokens(summary.OverallAssessment)
	if err := s.store.AddTokenUsage(conv.ID, db.RequestTypeSummary, "", in, out, 0); err != nil {
		s.logger.Error("failed to record summary usage", "session_id", sessionID, "error", err)
	}

	return summary, nil
}

// feedbackFromTranscript lifts persona turns into member feedback entries for
// the summary prompt.
func feedbackFromTranscript(messages []db.Message) []models.MemberFeedback {
	var feedback []models.MemberFeedback
	for _, m := range messages {
		if m.MessageType != db.MessageTypePersonaTurn {
			continue
		}
		f := models.MemberFeedback{Persona: m.Persona, Response: m.Content}
		if m.Metadata != nil {
			f.Name = m.Metadata.Name
			f.Title = m.Metadata.Title
		}
		if f.Name == "" && persona.Known(m.Persona) {
			p := persona.Get(m.Persona)
			f.Name = p.Name
			f.Title = p.Title
		}
		feedback = append(feedback, f)
	}
	return feedback
}

// summaryFromParsed maps generator output onto the summary type, falling back
// field by field and entirely when nothing usable came back.
func summaryFromParsed(parsed map[string]any) *models.ExecutiveSummary {
	if parsed == nil {
		return fallbackSummary()
	}

	assessment, _ := parsed["overallAssessment"].(string)
	if assessment == "" {
		assessment, _ = parsed["assessment"].(string)
	}
	if assessment == "" {
		assessment = "Overall, the strategy has potential but requires further validation and planning."
	}

	summary := &models.ExecutiveSummary{
		OverallAssessment: assessment,
		KeyRisks:          stringList(parsed["keyRisks"]),
		KeyOpportunities:  stringList(parsed["keyOpportunities"]),
		Recommendations:   stringList(parsed["recommendations"]),
	}
	if len(summary.KeyRisks) == 0 {
		summary.KeyRisks = []string{
			"Market validation requires more data",
			"Financial projections need rigor",
			"Operational scalability plan incomplete",
		}
	}
	if len(summary.KeyOpportunities) == 0 {
		summary.KeyOpportunities = []string{
			"Customer demand signals are promising",
			"Room to differentiate in target segment",
			"Potential for efficient go-to-market",
		}
	}
	if len(summary.Recommendations) == 0 {
		summary.Recommendations = []string{
			"Interview 5-10 target customers to validate pain",
			"Build a simple financial model with scenarios",
			"Define a 90-day execution roadmap",
			"Outline a lightweight go-to-market test",
		}
	}
	return summary
}

func fallbackSummary() *models.ExecutiveSummary {
	return &models.ExecutiveSummary{
		OverallAssessment: "Based on your boardroom conversation, your strategy shows potential but would benefit from further development in key areas identified by our board members.",
		KeyRisks: []string{
			"Market validation needs more comprehensive research",
			"Financial projections require stronger supporting data",
			"Operational scalability needs detailed planning",
			"Competitive positioning could be strengthened",
		},
		KeyOpportunities: []string{
			"Strong market demand for innovative solutions",
			"Potential for significant customer impact",
			"Opportunity to establish market leadership",
			"Scalable business model with growth potential",
		},
		Recommendations: []string{
			"Conduct thorough market research and validation",
			"Develop detailed financial models with multiple scenarios",
			"Create comprehensive operational plans for scaling",
			"Strengthen competitive differentiation strategy",
			"Build strategic partnerships to accelerate growth",
		},
		Fallback: true,
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
