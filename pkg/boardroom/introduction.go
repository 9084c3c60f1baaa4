package boardroom

import "strings"

// IntroDecision is the introduction policy's verdict for one user message.
type IntroDecision struct {
	Introduce bool
	Personas  []string // candidate personas in marketing-then-operations order
}

// ShouldIntroduce decides whether advisors beyond finance should join. It
// never fires before the second user message. User-authored text is scanned
// for per-advisor topic keywords; if neither topic has fired by the third
// user message, both remaining advisors are proposed so the conversation is
// guaranteed to become multi-advisor eventually.
func (r *Rules) ShouldIntroduce(userTexts []string, userCount int) IntroDecision {
	if userCount < 2 {
		return IntroDecision{}
	}

	allText := strings.ToLower(strings.Join(userTexts, " "))

	var candidates []string
	for _, topic := range r.introTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(allText, kw) {
				candidates = append(candidates, topic.personaID)
				break
			}
		}
	}

	if len(candidates) == 0 && userCount >= 3 {
		for _, topic := range r.introTopics {
			candidates = append(candidates, topic.personaID)
		}
	}

	return IntroDecision{Introduce: len(candidates) > 0, Personas: candidates}
}
