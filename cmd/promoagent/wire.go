package main

import (
	"fmt"
	"log/slog"

	"github.com/infohub-br/promoagent/internal/agent"
	"github.com/infohub-br/promoagent/internal/config"
	"github.com/infohub-br/promoagent/internal/intent"
	"github.com/infohub-br/promoagent/internal/provider"
	"github.com/infohub-br/promoagent/internal/storage"
	"github.com/infohub-br/promoagent/internal/toolproto"
)

// buildProviderChain assembles the configured providers in priority order:
// fastest and most generous limits first. Providers without an API key are
// left out.
func buildProviderChain(cfg *config.Config) []provider.Spec {
	var chain []provider.Spec

	if cfg.Groq.APIKey != "" {
		chain = append(chain, provider.Spec{
			Client: provider.NewGroq(provider.ClientConfig{
				APIKey:  cfg.Groq.APIKey,
				Model:   cfg.Groq.Model,
				Timeout: cfg.Groq.Timeout,
			}),
			RequestsPerMinute: cfg.Groq.RequestsPerMinute,
			Timeout:           cfg.Groq.Timeout,
		})
	}
	if cfg.Gemini.APIKey != "" {
		chain = append(chain, provider.Spec{
			Client: provider.NewGemini(provider.ClientConfig{
				APIKey:  cfg.Gemini.APIKey,
				Model:   cfg.Gemini.Model,
				Timeout: cfg.Gemini.Timeout,
			}),
			RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
			Timeout:           cfg.Gemini.Timeout,
		})
	}
	if cfg.OpenAI.APIKey != "" {
		chain = append(chain, provider.Spec{
			Client: provider.NewOpenAI(provider.ClientConfig{
				APIKey:  cfg.OpenAI.APIKey,
				Model:   cfg.OpenAI.Model,
				Timeout: cfg.OpenAI.Timeout,
			}),
			RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
			Timeout:           cfg.OpenAI.Timeout,
		})
	}
	if cfg.HuggingFace.APIKey != "" {
		chain = append(chain, provider.Spec{
			Client: provider.NewHuggingFace(provider.ClientConfig{
				APIKey:  cfg.HuggingFace.APIKey,
				Model:   cfg.HuggingFace.Model,
				Timeout: cfg.HuggingFace.Timeout,
			}),
			RequestsPerMinute: cfg.HuggingFace.RequestsPerMinute,
			Timeout:           cfg.HuggingFace.Timeout,
		})
	}

	return chain
}

// buildAgent wires the full pipeline: storage, provider chain, classifier,
// tool exchange, and the agent itself.
func buildAgent(cfg *config.Config, logger *slog.Logger) (*agent.Agent, *provider.Manager, *storage.Store, error) {
	storeCfg := storage.DefaultConfig(cfg.Database)
	storeCfg.RadiusKm = cfg.RadiusKm
	store, err := storage.NewStore(storeCfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening storage: %w", err)
	}

	managerCfg := provider.DefaultManagerConfig()
	managerCfg.Cooldown = cfg.ProviderCooldown
	manager, err := provider.NewManager(buildProviderChain(cfg), provider.NewLocalResponder(), managerCfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, fmt.Errorf("building provider chain: %w", err)
	}

	classifier := intent.New(manager, intent.DefaultConfig(), logger)

	runner := toolproto.NewRunner(
		&toolproto.BestPromotionsTool{MaxResults: cfg.MaxResults},
		&toolproto.FAQTool{},
	)
	exchange := toolproto.NewExchange(manager, runner, logger)

	agentCfg := agent.DefaultConfig()
	agentCfg.Policy = agent.Policy(cfg.Policy)
	agentCfg.MaxResults = cfg.MaxResults

	return agent.New(classifier, store, exchange, agentCfg, logger), manager, store, nil
}
