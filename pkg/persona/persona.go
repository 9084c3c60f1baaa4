// Package persona holds the static directory of the three advisory personas.
package persona

import "fmt"

// Persona identifiers. These are the only valid values; every other package
// routes personas by these ids.
const (
	Finance    = "finance"
	Marketing  = "marketing"
	Operations = "operations"
)

// Persona is the static identity of one advisor.
type Persona struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	AnimalSpirit string   `json:"animalSpirit"`
	Mantra       string   `json:"mantra"`
	Personality  string   `json:"personality"`
	Focus        string   `json:"focus"`
	KeyQuestions []string `json:"keyQuestions"`
}

var order = []string{Finance, Marketing, Operations}

var registry = map[string]Persona{
	Finance: {
		ID:           Finance,
		Name:         "Orion, the Guardian of the Vault",
		Title:        "Chief Financial Officer",
		AnimalSpirit: "Snowy Owl",
		Mantra:       "What is the cost of success, and more importantly, what is the cost of failure?",
		Personality:  "Watchful, analytical, wisdom-seeking, cautiously protective of resources",
		Focus:        "Financial viability, unit economics, cash flow, ROI, risk assessment",
		KeyQuestions: []string{
			"What are your customer acquisition costs, and how did you calculate them?",
			"Show me your unit economics - what's the lifetime value versus acquisition cost?",
			"What's your burn rate, and how long is your runway with current funding?",
			"What assumptions are you making about market size and penetration rates?",
		},
	},
	Marketing: {
		ID:           Marketing,
		Name:         "Pavo, the Herald of Growth",
		Title:        "Chief Marketing Officer",
		AnimalSpirit: "Peacock",
		Mantra:       "If we build it beautifully and tell a great story, they will come.",
		Personality:  "Vibrant, storytelling-focused, customer-obsessed, growth-passionate",
		Focus:        "Market opportunity, customer acquisition, brand differentiation, scalability",
		KeyQuestions: []string{
			"Who exactly is your target customer, and what's their biggest pain point?",
			"What makes your solution uniquely different from existing alternatives?",
			"How will you reach your first 1,000 customers cost-effectively?",
			"What partnerships could accelerate your customer acquisition?",
		},
	},
	Operations: {
		ID:           Operations,
		Name:         "Castor, the Master of Systems",
		Title:        "Chief Operating Officer",
		AnimalSpirit: "Beaver",
		Mantra:       "An idea is just a dream until we have a blueprint and a process to build it.",
		Personality:  "Builder-minded, systematically thorough, engineering-focused, process-driven",
		Focus:        "Operational efficiency, scalability, team capabilities, infrastructure",
		KeyQuestions: []string{
			"How will you deliver your product/service consistently as you scale?",
			"What operational bottlenecks do you anticipate, and how will you address them?",
			"Do you have the right team and skills to execute this plan?",
			"How will you maintain quality while increasing volume?",
		},
	},
}

// Get returns the persona for a known id. An unknown id is a programmer
// error, so it panics rather than returning an error.
func Get(id string) Persona {
	p, ok := registry[id]
	if !ok {
		panic(fmt.Sprintf("persona: unknown id %q", id))
	}
	return p
}

// Known reports whether id names a registered persona.
func Known(id string) bool {
	_, ok := registry[id]
	return ok
}

// List returns the persona ids in their fixed order.
func List() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// All returns all personas in their fixed order.
func All() []Persona {
	out := make([]Persona, 0, len(order))
	for _, id := range order {
		out = append(out, registry[id])
	}
	return out
}
