package generator

import (
	"context"
	"regexp"
	"strings"

	"github.com/menagerie-labs/boardroom/pkg/persona"
)

// ProviderLocal identifies the deterministic heuristic generator.
const ProviderLocal = "local"

// Local is a deterministic generator that parses the composed prompt's
// routing tags (persona, mode, strategy hints, latest user message) and
// produces a plausible persona-appropriate response without any external
// call. It backs development, tests, and the fallback path.
type Local struct{}

// NewLocal returns the deterministic local generator.
func NewLocal() *Local { return &Local{} }

var (
	personaTagRe = regexp.MustCompile(`(?i)RESPONDING_PERSONA:\s*(finance|marketing|operations)`)
	modeTagRe    = regexp.MustCompile(`(?i)MODE:\s*(intro|continue|direct)`)

	directMsgRe  = regexp.MustCompile(`(?is)THEIR DIRECT MESSAGE TO YOU:\n(.*?)\n\nINSTRUCTIONS:`)
	directTailRe = regexp.MustCompile(`(?is)THEIR DIRECT MESSAGE TO YOU:\n(.*)$`)
	latestMsgRe  = regexp.MustCompile(`(?is)THEIR LATEST MESSAGE:\n(.*?)\n\nINSTRUCTIONS:`)
	latestTailRe = regexp.MustCompile(`(?is)THEIR LATEST MESSAGE:\n(.*)$`)

	projectRe  = regexp.MustCompile(`(?im)^PROJECT:\s*(.*)$`)
	customerRe = regexp.MustCompile(`(?im)^TARGET CUSTOMER:\s*(.*)$`)
	problemRe  = regexp.MustCompile(`(?im)^KEY PROBLEM:\s*(.*)$`)
	pdfRe      = regexp.MustCompile(`(?i)SUPPLEMENTARY MATERIALS: PDF document`)

	financeNameRe   = regexp.MustCompile(`(?i)chief financial officer|orion|cfo`)
	marketingNameRe = regexp.MustCompile(`(?i)chief marketing officer|pavo|cmo`)
	opsNameRe       = regexp.MustCompile(`(?i)chief operating officer|castor|coo`)

	fileMsgRe      = regexp.MustCompile(`(?i)file|attached|upload`)
	moreInfoMsgRe  = regexp.MustCompile(`(?i)other info|rest|other details`)
	marketingMsgRe = regexp.MustCompile(`(?i)what.*think|marketing|audience|brand`)
	opsMsgRe       = regexp.MustCompile(`(?i)scale|operations|deliver|process|team`)
)

type parsedPrompt struct {
	persona        string
	mode           string
	userMessage    string
	projectName    string
	targetCustomer string
	hasPDF         bool
	hasAny         bool
}

func parsePrompt(text string) parsedPrompt {
	p := parsedPrompt{persona: persona.Finance, mode: "continue"}

	if m := personaTagRe.FindStringSubmatch(text); m != nil {
		p.persona = strings.ToLower(m[1])
	} else {
		switch {
		case financeNameRe.MatchString(text):
			p.persona = persona.Finance
		case marketingNameRe.MatchString(text):
			p.persona = persona.Marketing
		case opsNameRe.MatchString(text):
			p.persona = persona.Operations
		}
	}

	if m := modeTagRe.FindStringSubmatch(text); m != nil {
		p.mode = strings.ToLower(m[1])
	}

	if m := directMsgRe.FindStringSubmatch(text); m != nil {
		p.userMessage = strings.TrimSpace(m[1])
	} else if m := directTailRe.FindStringSubmatch(text); m != nil {
		p.userMessage = strings.TrimSpace(m[1])
	} else if m := latestMsgRe.FindStringSubmatch(text); m != nil {
		p.userMessage = strings.TrimSpace(m[1])
	} else if m := latestTailRe.FindStringSubmatch(text); m != nil {
		p.userMessage = strings.TrimSpace(m[1])
	} else {
		// Fall back to the last "User:" line of the rendered history.
		lines := strings.Split(text, "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			if strings.HasPrefix(lines[i], "User: ") {
				p.userMessage = strings.TrimSpace(strings.TrimPrefix(lines[i], "User: "))
				break
			}
		}
	}

	if m := projectRe.FindStringSubmatch(text); m != nil {
		p.projectName = strings.TrimSpace(m[1])
	}
	if m := customerRe.FindStringSubmatch(text); m != nil {
		p.targetCustomer = strings.TrimSpace(m[1])
	}
	p.hasPDF = pdfRe.MatchString(text)
	hasProblem := problemRe.MatchString(text)
	p.hasAny = p.projectName != "" || p.targetCustomer != "" || hasProblem || p.hasPDF

	return p
}

// GenerateText produces a canned, persona-appropriate response derived from
// the prompt's tags. It never fails.
func (l *Local) GenerateText(_ context.Context, req *Request) (*Result, error) {
	p := parsePrompt(req.Prompt)

	var content string
	switch p.persona {
	case persona.Marketing:
		content = l.marketingResponse(p)
	case persona.Operations:
		content = l.operationsResponse(p)
	default:
		content = l.financeResponse(p)
	}

	return &Result{Content: content, Provider: ProviderLocal}, nil
}

func (l *Local) financeResponse(p parsedPrompt) string {
	if p.mode == "intro" {
		opener := "Thanks for starting the discussion."
		if p.hasPDF {
			opener = "I noticed your document - helpful context."
		} else if p.hasAny {
			opener = "Thanks for the overview."
		}
		project := ""
		if p.projectName != "" {
			project = "For " + p.projectName + ", "
		}
		return opener + " " + project + "what does the unit economics look like (price, gross margin, payback)?"
	}
	if p.hasPDF && fileMsgRe.MatchString(p.userMessage) {
		return "Yes - I noted the uploaded document for reference. What key assumptions from it should we treat as non-negotiable in the initial plan?"
	}
	if moreInfoMsgRe.MatchString(p.userMessage) {
		return "Helpful context. To firm this up, what revenue model are you assuming in the first 6-12 months and how sensitive is it to acquisition cost?"
	}
	return "Got it. From a financial angle, what's your target payback period on acquisition and how will you measure it in the first 60 days?"
}

func (l *Local) marketingResponse(p parsedPrompt) string {
	if p.mode == "intro" {
		who := "for your first segment"
		if p.targetCustomer != "" {
			who = "for " + p.targetCustomer
		}
		return "From a growth view, who exactly is the first 1-2 buyer personas " + who + ", and what signal will prove they're ready to buy?"
	}
	if marketingMsgRe.MatchString(p.userMessage) {
		return `Marketing take: define one sharp value proposition and a single channel to test. What's your clearest "why now" for that audience?`
	}
	return "To reach early customers, pick one channel and one message to test this week. Which channel gives you fastest learning?"
}

func (l *Local) operationsResponse(p parsedPrompt) string {
	if p.mode == "intro" {
		return "Operationally, what's the smallest shippable scope you can deliver in 4-6 weeks, and which dependency is most likely to slip?"
	}
	if opsMsgRe.MatchString(p.userMessage) {
		return "To scale reliably, define a simple runbook for onboarding and one quality metric. Which step is riskiest in your current process?"
	}
	return "Let's make execution concrete: what's the next milestone and who owns it by date?"
}

// GenerateJSON recognizes two prompt shapes: persona-tagged prompts yield
// member feedback (response, assessment, keyQuestions), everything else gets
// the fixed structured summary. Chart-shaped prompts are not recognized;
// their callers fall back to deterministic datasets on their own.
func (l *Local) GenerateJSON(ctx context.Context, req *Request) (map[string]any, error) {
	if personaTagRe.MatchString(req.Prompt) {
		p := parsePrompt(req.Prompt)
		res, err := l.GenerateText(ctx, req)
		if err != nil {
			return nil, err
		}
		assessment := "Needs Work"
		if p.hasAny {
			assessment = "Promising"
		}
		questions := persona.Get(p.persona).KeyQuestions
		if len(questions) > 2 {
			questions = questions[:2]
		}
		keyQuestions := make([]any, 0, len(questions))
		for _, q := range questions {
			keyQuestions = append(keyQuestions, q)
		}
		return map[string]any{
			"response":     res.Content,
			"assessment":   assessment,
			"keyQuestions": keyQuestions,
		}, nil
	}

	return map[string]any{
		"overallAssessment": "Promising direction with open questions around validation and execution.",
		"keyRisks": []any{
			"Assumptions behind demand are untested",
			"Financial model lacks sensitivity scenarios",
			"Operational scalability plan is early",
		},
		"keyOpportunities": []any{
			"Clear target customer pain to solve",
			"Potential to differentiate messaging",
			"Incremental rollout can de-risk ops",
		},
		"recommendations": []any{
			"Run 5-10 customer interviews this week",
			"Draft a simple 12-month financial plan",
			"List top 3 operational risks and mitigations",
			"Define a 60-day milestone plan",
		},
	}, nil
}
