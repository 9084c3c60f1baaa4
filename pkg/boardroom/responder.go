package boardroom

import "github.com/menagerie-labs/boardroom/pkg/persona"

// TurnMode selects the prompt template for a persona turn.
type TurnMode string

const (
	ModeIntro    TurnMode = "intro"
	ModeDirect   TurnMode = "direct"
	ModeContinue TurnMode = "continue"
)

// Plan is the full turn schedule for one incoming user message: the primary
// responder, its prompt mode, any queued advisors from a multi-advisor
// request, and the state mutations the service must persist before
// generating.
type Plan struct {
	Responder         string
	Mode              TurnMode
	IsNewIntroduction bool
	Queued            []string // respond after the primary turn, in order
	Activations       []string // personas to upsert as active participants
	PromoteToMulti    bool
}

// PlanTurn selects the responding persona(s) for a user message. Precedence:
// direct address, then introduction policy (solo phase first candidate, multi
// phase first inactive candidate), then content routing with round-robin
// fallback; in solo phase without an introduction the finance advisor keeps
// the floor. A multi-advisor request queues the remaining named personas
// behind the primary responder.
//
// userTexts must include the incoming message; userCount is the total number
// of user messages including it.
func (r *Rules) PlanTurn(message string, userTexts []string, userCount int, st *State) Plan {
	direct := r.DetectDirectAddress(message)
	decision := r.ShouldIntroduce(userTexts, userCount)

	plan := Plan{Mode: ModeContinue}

	switch {
	case direct != "":
		plan.Responder = direct
		if st.IsActive(direct) {
			plan.Mode = ModeDirect
		} else {
			plan.Mode = ModeIntro
			plan.IsNewIntroduction = true
			plan.Activations = append(plan.Activations, direct)
			if st.Phase() == PhaseSoloAdvisor {
				plan.PromoteToMulti = true
			}
		}

	case st.Phase() == PhaseSoloAdvisor && decision.Introduce:
		plan.Responder = decision.Personas[0]
		plan.Mode = ModeIntro
		plan.IsNewIntroduction = true
		plan.Activations = append(plan.Activations, plan.Responder)
		plan.PromoteToMulti = true

	case st.Phase() == PhaseMultiAdvisor && firstInactive(decision, st) != "":
		plan.Responder = firstInactive(decision, st)
		plan.Mode = ModeIntro
		plan.IsNewIntroduction = true
		plan.Activations = append(plan.Activations, plan.Responder)

	default:
		if st.Phase() == PhaseSoloAdvisor {
			plan.Responder = persona.Finance
		} else {
			plan.Responder = r.RouteByContent(message, userCount)
		}
	}

	// A multi-advisor request queues everyone named beyond the primary
	// responder and activates them if needed.
	if multi := r.DetectMultiAddress(message); len(multi) > 0 {
		for _, id := range multi {
			if id == plan.Responder {
				continue
			}
			plan.Queued = append(plan.Queued, id)
			if !st.IsActive(id) && !contains(plan.Activations, id) {
				plan.Activations = append(plan.Activations, id)
				if st.Phase() == PhaseSoloAdvisor {
					plan.PromoteToMulti = true
				}
			}
		}
	}

	return plan
}

func firstInactive(decision IntroDecision, st *State) string {
	if !decision.Introduce {
		return ""
	}
	for _, id := range decision.Personas {
		if !st.IsActive(id) {
			return id
		}
	}
	return ""
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
