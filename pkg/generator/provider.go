package generator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/menagerie-labs/boardroom/pkg/config"
)

// New builds the configured generator. "local" (the default) needs no
// external service; the remote providers construct the matching eino chat
// model.
func New(ctx context.Context, cfg *config.AppConfig) (Generator, error) {
	provider := cfg.Provider()
	switch provider {
	case ProviderLocal, "":
		return NewLocal(), nil

	case "openai":
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.BaseURL(),
			APIKey:  cfg.APIKey(),
			Model:   cfg.Model(),
		})
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return NewRemote(chatModel, provider, cfg.MaxTokens()), nil

	case "ollama":
		chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: cfg.BaseURL(),
			Model:   cfg.Model(),
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
		return NewRemote(chatModel, provider, cfg.MaxTokens()), nil

	case "claude":
		claudeCfg := &claude.Config{
			APIKey:    cfg.APIKey(),
			Model:     cfg.Model(),
			MaxTokens: cfg.MaxTokens(),
		}
		if base := cfg.BaseURL(); base != "" {
			claudeCfg.BaseURL = &base
		}
		chatModel, err := claude.NewChatModel(ctx, claudeCfg)
		if err != nil {
			return nil, fmt.Errorf("create claude model: %w", err)
		}
		return NewRemote(chatModel, provider, cfg.MaxTokens()), nil

	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", provider)
	}
}
