// Package boardroom implements the conversation orchestration core: addressing
// detection, advisor introduction policy, phase state machine, responder
// selection, prompt composition, and artifact-opportunity detection.
package boardroom

import (
	"regexp"

	"github.com/menagerie-labs/boardroom/pkg/persona"
)

// Rules is the immutable keyword configuration the detectors and policies run
// on. Construct with DefaultRules; components receive it by injection so tests
// can exercise the core without global state.
type Rules struct {
	addressPriority []string
	addressAliases  map[string][]string

	collectiveRe *regexp.Regexp
	namedRes     map[string]*regexp.Regexp

	introTopics []topicRule
	routeTopics []topicRule
	roundRobin  []string

	visualizationRe *regexp.Regexp
	financeTermsRe  *regexp.Regexp
	temporalRe      *regexp.Regexp
	marketRe        *regexp.Regexp
	timelineRe      *regexp.Regexp
	pdfRefRe        *regexp.Regexp
}

type topicRule struct {
	personaID string
	keywords  []string
}

// DefaultRules returns the fixed production keyword tables.
func DefaultRules() *Rules {
	return &Rules{
		addressPriority: []string{persona.Finance, persona.Marketing, persona.Operations},
		addressAliases: map[string][]string{
			persona.Finance: {
				"cfo", "chief financial officer", "orion", "financial officer",
				"what does the cfo think", "cfo what do you think", "ask the cfo",
				"cfo, what", "orion, what", "orion what do you think",
				"financial perspective", "from a financial standpoint",
			},
			persona.Marketing: {
				"cmo", "chief marketing officer", "pavo", "marketing officer",
				"what does the cmo think", "cmo what do you think", "ask the cmo",
				"cmo, what", "pavo, what", "pavo what do you think",
				"marketing perspective", "from a marketing standpoint",
			},
			persona.Operations: {
				"coo", "chief operating officer", "castor", "operating officer",
				"what does the coo think", "coo what do you think", "ask the coo",
				"coo, what", "castor, what", "castor what do you think",
				"operations perspective", "from an operations standpoint",
			},
		},

		collectiveRe: regexp.MustCompile(`(?i)(all\s*(three|3)|each of you|everyone|all advisors|the board|cfo,?\s*cmo,?\s*coo)`),
		namedRes: map[string]*regexp.Regexp{
			persona.Finance:    regexp.MustCompile(`(?i)\b(cfo|orion)\b`),
			persona.Marketing:  regexp.MustCompile(`(?i)\b(cmo|pavo)\b`),
			persona.Operations: regexp.MustCompile(`(?i)\b(coo|castor)\b`),
		},

		introTopics: []topicRule{
			{persona.Marketing, []string{"customer", "market", "audience", "growth", "brand", "marketing"}},
			{persona.Operations, []string{"scale", "team", "operation", "process", "deliver", "build"}},
		},
		routeTopics: []topicRule{
			{persona.Finance, []string{"cost", "money", "financial", "revenue", "profit", "budget"}},
			{persona.Marketing, []string{"customer", "market", "marketing", "audience", "brand", "growth"}},
			{persona.Operations, []string{"operation", "scale", "team", "process", "deliver", "build"}},
		},
		roundRobin: []string{persona.Finance, persona.Marketing, persona.Operations},

		visualizationRe: regexp.MustCompile(`(?i)(chart|visuali[sz]e|graph|plot|show.*(trend|timeline|metrics))`),
		financeTermsRe:  regexp.MustCompile(`(?i)(revenue|costs?|profit|unit economics|ltv|cac|margin|payback)`),
		temporalRe:      regexp.MustCompile(`(?i)(month|quarter|year|trend|projection|forecast|growth)`),
		marketRe:        regexp.MustCompile(`(?i)(market size|tam|sam|som|competition|competitor|segment|segmentation|share)`),
		timelineRe:      regexp.MustCompile(`(?i)(timeline|roadmap|milestone|schedule|plan by|phases?)`),
		pdfRefRe:        regexp.MustCompile(`(?i)(from (the )?pdf|from (the )?document|attached file)`),
	}
}
