package boardroom

import (
	"fmt"
	"strings"

	"github.com/menagerie-labs/boardroom/pkg/models"
	"github.com/menagerie-labs/boardroom/pkg/persona"
)

// StrategyFacts renders the known strategy fields as labeled lines. Absent
// fields are omitted entirely, never rendered as placeholders.
func StrategyFacts(s *models.BusinessStrategy) []string {
	if s == nil {
		return nil
	}
	var facts []string
	if s.ProjectName != "" {
		facts = append(facts, "PROJECT: "+s.ProjectName)
	}
	if s.OneSentenceSummary != "" {
		facts = append(facts, "SUMMARY: "+s.OneSentenceSummary)
	}
	if s.TargetCustomer != "" {
		facts = append(facts, "TARGET CUSTOMER: "+s.TargetCustomer)
	}
	if s.KeyProblem != "" {
		facts = append(facts, "KEY PROBLEM: "+s.KeyProblem)
	}
	if s.EstimatedCost != "" {
		facts = append(facts, "ESTIMATED COST: "+s.EstimatedCost)
	}
	if s.DetailedDescription != "" {
		facts = append(facts, "DETAILED DESCRIPTION: "+s.DetailedDescription)
	}
	if f := s.SupplementaryFile; f != nil {
		if f.Type == models.FileTypePDF {
			facts = append(facts, fmt.Sprintf("SUPPLEMENTARY MATERIALS: PDF document %q attached for analysis", f.Name))
		} else {
			facts = append(facts, "SUPPLEMENTARY MATERIALS: "+f.Content)
		}
		if f.TextExcerpt != "" {
			facts = append(facts, "DOCUMENT EXCERPT: "+f.TextExcerpt)
		}
	}
	return facts
}

func strategyText(s *models.BusinessStrategy) (string, int) {
	facts := StrategyFacts(s)
	if len(facts) == 0 {
		return "No specific strategy information provided yet.", 0
	}
	return strings.Join(facts, "\n"), len(facts)
}

// ComposeTurn builds the generation prompt for one persona turn. The mode
// picks the template; an unknown mode or persona id is a programmer error
// and panics. history entries are pre-rendered transcript lines ("User: ..."
// or "<Display Name>: ..."); userMessage is the latest user message.
func ComposeTurn(mode TurnMode, personaID string, strategy *models.BusinessStrategy, history []string, userMessage string) string {
	switch mode {
	case ModeIntro:
		return ComposeIntroduction(personaID, strategy, history)
	case ModeDirect:
		return ComposeDirectAddress(personaID, strategy, history, userMessage)
	case ModeContinue:
		return ComposeContinuation(personaID, strategy, history, userMessage)
	default:
		panic(fmt.Sprintf("boardroom: unknown turn mode %q", mode))
	}
}

// ComposeGreeting is the finance advisor's first-contact prompt at session
// start: a casual opening question rather than a full analysis. With no
// strategy facts at all it steers toward foundational discovery questions.
func ComposeGreeting(strategy *models.BusinessStrategy) string {
	p := persona.Get(persona.Finance)
	text, factCount := strategyText(strategy)

	guidance := "Since you have some details, dig into the financial reality - who pays, how much, and why."
	if factCount < 2 {
		guidance = "Since you have limited info, ask about what problem they're solving and why people would pay for it."
	}

	return fmt.Sprintf(`You are %s, %s. You're starting a casual but professional conversation.

RESPONDING_PERSONA: %s
MODE: intro

PERSONALITY: Friendly, analytical, genuinely curious about financial success
YOUR STYLE: Conversational, encouraging, cuts to the point without being blunt

CURRENT INFORMATION:
%s

INSTRUCTIONS:
1. Give a warm, casual greeting (like talking to a friend who's excited about their business)
2. Briefly acknowledge what you see and show genuine interest
3. Ask ONE specific, practical question that gets to the heart of the financial opportunity
4. Keep it under 80 words - be concise and natural
5. Use casual language but maintain professionalism (think "smart friend" not "formal advisor")
6. Show enthusiasm for helping them succeed

%s

Respond naturally like you're having coffee with an entrepreneur friend. No formal structure.`,
		p.Name, p.Title, p.ID, text, guidance)
}

// ComposeIntroduction is a persona's first appearance in a conversation. The
// finance persona gets its dedicated greeting framing; the other two get the
// generic board-member introduction, optionally seeded with prior context.
func ComposeIntroduction(personaID string, strategy *models.BusinessStrategy, previous []string) string {
	if personaID == persona.Finance {
		return ComposeGreeting(strategy)
	}
	p := persona.Get(personaID)
	text, _ := strategyText(strategy)

	previousFeedback := ""
	if len(previous) > 0 {
		previousFeedback = "\n\nPREVIOUS BOARD FEEDBACK:\n" + strings.Join(previous, "\n")
	}

	return fmt.Sprintf(`You are %s, %s.

RESPONDING_PERSONA: %s
MODE: intro

PERSONALITY: %s
PRIMARY FOCUS: %s

BUSINESS IDEA TO EVALUATE:
%s%s

INSTRUCTIONS:
1. Give a detailed, thoughtful response (aim for 150-250 words).
2. Reference specific details from the business idea and previous board feedback.
3. Identify both strengths and weaknesses from your perspective.
4. Ask 2-3 new, pointed questions that have not been asked yet.
5. Avoid repeating previous feedback - build on or challenge it if appropriate.
6. Use your unique voice and expertise.
7. End with an overall assessment: "Promising", "Needs Work", or "High Risk".

Respond as an authentic, experienced board member.`,
		p.Name, p.Title, p.ID, p.Personality, p.Focus, text, previousFeedback)
}

// ComposeDirectAddress is used when the user explicitly named this persona
// and it is already active.
func ComposeDirectAddress(personaID string, strategy *models.BusinessStrategy, history []string, userMessage string) string {
	p := persona.Get(personaID)
	text, _ := strategyText(strategy)

	return fmt.Sprintf(`You are %s, %s. The user just addressed you directly in their message!

RESPONDING_PERSONA: %s
MODE: direct

PERSONALITY: %s
YOUR STYLE: Friendly, responsive, appreciates being asked directly
EXPERTISE: %s

STRATEGY INFO:
%s

CONVERSATION HISTORY:
%s

THEIR DIRECT MESSAGE TO YOU:
%s

INSTRUCTIONS:
1. Acknowledge that they asked you specifically - show you're pleased to respond
2. Give a direct, thoughtful answer from your area of expertise
3. Be more detailed than usual since they specifically wanted your input
4. Keep it under 90 words but be thorough
5. Sound like someone who's happy to be consulted directly
6. End with a follow-up question if appropriate

Respond with enthusiasm since they specifically asked for your perspective!`,
		p.Name, p.Title, p.ID, p.Personality, p.Focus, text, strings.Join(history, "\n"), userMessage)
}

// ComposeContinuation is the default mid-conversation template: short,
// conversational, one insight or one question.
func ComposeContinuation(personaID string, strategy *models.BusinessStrategy, history []string, userMessage string) string {
	p := persona.Get(personaID)
	text, _ := strategyText(strategy)

	return fmt.Sprintf(`You are %s, %s. You're continuing this friendly conversation.

RESPONDING_PERSONA: %s
MODE: continue

PERSONALITY: %s
YOUR STYLE: Casual, supportive, gives practical insights without being preachy
FOCUS: %s

STRATEGY INFO:
%s

CONVERSATION SO FAR:
%s

THEIR LATEST MESSAGE:
%s

INSTRUCTIONS:
1. React naturally to what they just shared - show you're listening
2. Give ONE practical insight or quick feedback from your expertise
3. If you need more info, ask ONE specific follow-up question
4. Keep it under 60 words - be concise but supportive
5. Sound like a helpful friend, not a consultant
6. If they've given good info, acknowledge it and maybe pass the conversation along

Be conversational and encouraging - like you're genuinely invested in their success!`,
		p.Name, p.Title, p.ID, p.Personality, p.Focus, text, strings.Join(history, "\n"), userMessage)
}

// ComposeExecutiveSummary asks for the JSON board report over the collected
// member feedback.
func ComposeExecutiveSummary(strategy *models.BusinessStrategy, feedback []models.MemberFeedback) string {
	var responses []string
	for _, f := range feedback {
		responses = append(responses, fmt.Sprintf("%s (%s): %s", f.Name, f.Title, f.Response))
	}
	if strategy == nil {
		strategy = &models.BusinessStrategy{}
	}

	return fmt.Sprintf(`You are an executive assistant synthesizing feedback from a boardroom discussion about a business strategy.

ORIGINAL STRATEGY:
Project: %s
Summary: %s
Target Customer: %s
Key Problem: %s
Estimated Cost: %s

BOARD MEMBER FEEDBACK:
%s

INSTRUCTIONS:
1. Create a comprehensive executive summary that synthesizes all board member feedback
2. Identify the top 3-4 key risks mentioned across all responses
3. Identify the top 3-4 key opportunities mentioned across all responses
4. Provide 4-5 specific, actionable recommendations based on the feedback
5. Give an overall assessment of the strategy's viability
6. Keep the tone professional and balanced

Respond in JSON format with the following structure:
{
  "overallAssessment": "A 2-3 sentence overall assessment of the strategy's viability",
  "keyRisks": ["risk1", "risk2", "risk3", "risk4"],
  "keyOpportunities": ["opportunity1", "opportunity2", "opportunity3", "opportunity4"],
  "recommendations": ["recommendation1", "recommendation2", "recommendation3", "recommendation4", "recommendation5"]
}

Respond with raw JSON only. Do not include code blocks, markdown, or any other formatting.`,
		strategy.ProjectName, strategy.OneSentenceSummary, strategy.TargetCustomer,
		strategy.KeyProblem, strategy.EstimatedCost, strings.Join(responses, "\n\n"))
}
