package boardroom

import "github.com/menagerie-labs/boardroom/pkg/persona"

// Conversation phases. They only ever move forward:
// solo_advisor -> multi_advisor -> completed.
const (
	PhaseSoloAdvisor  = "solo_advisor"
	PhaseMultiAdvisor = "multi_advisor"
	PhaseCompleted    = "completed"
)

// State is the per-conversation phase machine, reconstructed from storage on
// every request. The finance advisor is implicitly always active and never
// tracked in the activation set.
type State struct {
	phase  string
	active map[string]bool
}

// NewState rebuilds the machine from the persisted phase and the active
// participant personas. An empty or unknown phase maps to solo_advisor.
func NewState(phase string, activePersonas []string) *State {
	switch phase {
	case PhaseSoloAdvisor, PhaseMultiAdvisor, PhaseCompleted:
	default:
		phase = PhaseSoloAdvisor
	}
	s := &State{phase: phase, active: make(map[string]bool)}
	for _, id := range activePersonas {
		if id != persona.Finance {
			s.active[id] = true
		}
	}
	return s
}

// Phase returns the current phase.
func (s *State) Phase() string { return s.phase }

// Completed reports whether the conversation is terminal.
func (s *State) Completed() bool { return s.phase == PhaseCompleted }

// IsActive reports whether a persona may currently respond. Finance is
// always active.
func (s *State) IsActive(id string) bool {
	return id == persona.Finance || s.active[id]
}

// Activate marks a persona active. Activating finance or an already-active
// persona is a no-op. Returns true when state actually changed.
func (s *State) Activate(id string) bool {
	if id == persona.Finance || s.active[id] || s.phase == PhaseCompleted {
		return false
	}
	s.active[id] = true
	return true
}

// PromoteToMulti moves solo_advisor to multi_advisor. Any other phase is
// left untouched. Returns true when state actually changed.
func (s *State) PromoteToMulti() bool {
	if s.phase != PhaseSoloAdvisor {
		return false
	}
	s.phase = PhaseMultiAdvisor
	return true
}

// ActivePersonas returns the activated non-finance personas in fixed order.
func (s *State) ActivePersonas() []string {
	var out []string
	for _, id := range []string{persona.Marketing, persona.Operations} {
		if s.active[id] {
			out = append(out, id)
		}
	}
	return out
}
