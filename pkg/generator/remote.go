package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Remote wraps an eino chat model behind the Generator contract. The concrete
// provider is fixed at construction; the orchestrator only sees the interface.
type Remote struct {
	model     einoModel.BaseChatModel
	provider  string
	maxTokens int
}

// NewRemote wraps an already-constructed chat model.
func NewRemote(model einoModel.BaseChatModel, provider string, maxTokens int) *Remote {
	return &Remote{model: model, provider: provider, maxTokens: maxTokens}
}

// GenerateText runs one prompt through the chat model.
func (r *Remote) GenerateText(ctx context.Context, req *Request) (*Result, error) {
	msg, err := r.model.Generate(ctx, []*schema.Message{schema.UserMessage(req.Prompt)})
	if err != nil {
		return nil, fmt.Errorf("generate with provider %s: %w", r.provider, err)
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return nil, fmt.Errorf("generate with provider %s: empty response", r.provider)
	}
	return &Result{Content: content, Provider: r.provider}, nil
}

// GenerateJSON runs the prompt and parses the response as a JSON object.
// Code fences are tolerated; unparseable output yields (nil, nil) so callers
// apply their fallback.
func (r *Remote) GenerateJSON(ctx context.Context, req *Request) (map[string]any, error) {
	res, err := r.GenerateText(ctx, req)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(res.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, nil
	}
	return parsed, nil
}
