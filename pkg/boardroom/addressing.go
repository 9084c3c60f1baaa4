package boardroom

import "strings"

// DetectDirectAddress returns the persona the user is explicitly speaking to,
// or "" if none. Matching is case-insensitive substring match against each
// persona's alias list; ties break on the fixed priority order
// finance, marketing, operations.
func (r *Rules) DetectDirectAddress(message string) string {
	msg := strings.ToLower(message)
	for _, id := range r.addressPriority {
		for _, alias := range r.addressAliases[id] {
			if strings.Contains(msg, alias) {
				return id
			}
		}
	}
	return ""
}

// DetectMultiAddress returns the set of personas the user invited to respond:
// all three for a collective phrase ("all three", "each of you", "the board"),
// otherwise the union of personas explicitly named. The result is in the
// fixed persona order; empty means no multi-advisor request.
func (r *Rules) DetectMultiAddress(message string) []string {
	requested := make(map[string]bool)
	if r.collectiveRe.MatchString(message) {
		for _, id := range r.roundRobin {
			requested[id] = true
		}
	}
	for id, re := range r.namedRes {
		if re.MatchString(message) {
			requested[id] = true
		}
	}

	var out []string
	for _, id := range r.roundRobin {
		if requested[id] {
			out = append(out, id)
		}
	}
	return out
}

// RouteByContent picks a responder from the message topic: finance keywords
// first, then marketing, then operations. With no topic hit it falls back to
// round-robin over the fixed order, keyed by the running user-message count.
func (r *Rules) RouteByContent(message string, userCount int) string {
	msg := strings.ToLower(message)
	for _, topic := range r.routeTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(msg, kw) {
				return topic.personaID
			}
		}
	}
	if userCount < 0 {
		userCount = 0
	}
	return r.roundRobin[userCount%len(r.roundRobin)]
}
