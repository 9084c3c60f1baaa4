package boardroom

import (
	"testing"

	"github.com/menagerie-labs/boardroom/pkg/persona"
)

func TestDetectDirectAddress(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"codename finance", "Orion, what do you think about costs?", persona.Finance},
		{"role title", "What does the CMO think about my target market?", persona.Marketing},
		{"standpoint phrasing", "From an operations standpoint, is this feasible?", persona.Operations},
		{"full title", "I'd love the Chief Financial Officer's view", persona.Finance},
		{"no address", "Here is some more detail about my idea", ""},
		{"priority order", "Can the CFO and CMO weigh in?", persona.Finance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.DetectDirectAddress(tt.message); got != tt.want {
				t.Fatalf("DetectDirectAddress(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestDetectMultiAddress(t *testing.T) {
	r := DefaultRules()

	got := r.DetectMultiAddress("I'd like to hear from all three")
	if len(got) != 3 {
		t.Fatalf("DetectMultiAddress(all three) = %v, want 3 personas", got)
	}
	want := []string{persona.Finance, persona.Marketing, persona.Operations}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DetectMultiAddress(all three)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	got = r.DetectMultiAddress("just CFO please")
	if len(got) != 1 || got[0] != persona.Finance {
		t.Fatalf("DetectMultiAddress(just CFO please) = %v, want [finance]", got)
	}

	got = r.DetectMultiAddress("CMO and COO, what about delivery?")
	if len(got) != 2 || got[0] != persona.Marketing || got[1] != persona.Operations {
		t.Fatalf("DetectMultiAddress(cmo+coo) = %v, want [marketing operations]", got)
	}

	if got = r.DetectMultiAddress("tell me more about pricing"); len(got) != 0 {
		t.Fatalf("DetectMultiAddress(no names) = %v, want empty", got)
	}
}

func TestRouteByContent(t *testing.T) {
	r := DefaultRules()

	if got := r.RouteByContent("cost and budget are my main concern", 5); got != persona.Finance {
		t.Fatalf("RouteByContent(finance keywords) = %q, want %q", got, persona.Finance)
	}
	if got := r.RouteByContent("how do I grow my audience", 5); got != persona.Marketing {
		t.Fatalf("RouteByContent(marketing keywords) = %q, want %q", got, persona.Marketing)
	}
	if got := r.RouteByContent("we need a better process", 5); got != persona.Operations {
		t.Fatalf("RouteByContent(operations keywords) = %q, want %q", got, persona.Operations)
	}

	// No topic hit falls back to round-robin on the user message count.
	if got := r.RouteByContent("hello there", 3); got != persona.Finance {
		t.Fatalf("RouteByContent(round-robin, count 3) = %q, want %q", got, persona.Finance)
	}
	if got := r.RouteByContent("hello there", 4); got != persona.Marketing {
		t.Fatalf("RouteByContent(round-robin, count 4) = %q, want %q", got, persona.Marketing)
	}
	if got := r.RouteByContent("hello there", 5); got != persona.Operations {
		t.Fatalf("RouteByContent(round-robin, count 5) = %q, want %q", got, persona.Operations)
	}
}
