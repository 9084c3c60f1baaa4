// Package generator abstracts text generation behind one interface with two
// implementations: a remote model-backed generator (selected by provider
// configuration) and a local deterministic heuristic used for development and
// tests. The orchestration core never branches on the provider.
package generator

import "context"

// Request is one generation call.
type Request struct {
	Prompt    string
	MaxTokens int
}

// Result is the produced text plus the provider that produced it.
type Result struct {
	Content  string
	Provider string
}

// Generator is the uniform generate-text/JSON contract.
//
// GenerateJSON returns (nil, nil) when the model produced output that is not
// parseable JSON; callers are expected to substitute their own fallback in
// that case.
type Generator interface {
	GenerateText(ctx context.Context, req *Request) (*Result, error)
	GenerateJSON(ctx context.Context, req *Request) (map[string]any, error)
}
