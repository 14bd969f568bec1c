package di

import (
	"context"
	"fmt"
	"time"

	"shopping-agent/internal/adapter/tool"
	"shopping-agent/internal/application/port/input"
	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/application/service"
	"shopping-agent/internal/infrastructure/catalog/digikey"
	"shopping-agent/internal/infrastructure/config"
	"shopping-agent/internal/infrastructure/currency"
	"shopping-agent/internal/infrastructure/llm/gemini"
	"shopping-agent/internal/infrastructure/llm/langchain"
	"shopping-agent/internal/infrastructure/llm/openrouter"
	"shopping-agent/internal/infrastructure/logger"
	"shopping-agent/internal/infrastructure/prompts"
	"shopping-agent/internal/infrastructure/transport"
	"shopping-agent/internal/usecase/shopping"
)

const upstreamTimeout = 60 * time.Second

type Container struct {
	Config *config.Config
	LLM    output.LLMPort
	Logger output.LoggerPort
	Tools  output.ToolRegistry
	Agent  input.ShoppingAgent

	closers []func() error
}

type Options struct {
	// Progress is optional; the CLI passes a console renderer.
	Progress output.ProgressPort
	// SystemPrompt overrides the embedded template.
	SystemPrompt string
	// LogName names the per-process log file.
	LogName string
	// Logger replaces the zap logger built from configuration.
	Logger output.LoggerPort
}

func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	c := &Container{Config: cfg}

	log := opts.Logger
	if log == nil {
		adapter, err := logger.NewLoggerAdapter(logger.Config{
			Level: cfg.Log.Level,
			Dir:   cfg.Log.Dir,
			Name:  opts.LogName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		log = adapter
		c.closers = append(c.closers, adapter.Close)
	}
	c.Logger = log

	llm, closeLLM, err := newLLM(ctx, cfg, log)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.LLM = llm
	if closeLLM != nil {
		c.closers = append(c.closers, closeLLM)
	}

	converter, err := currency.NewConverter(cfg.Currency.USDPKRRate)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create currency converter: %w", err)
	}

	catalogCfg := digikey.DefaultConfig(cfg.DigiKey.ClientID, cfg.DigiKey.ClientSecret)
	catalogCfg.BaseURL = cfg.DigiKey.BaseURL
	catalogCfg.TokenURL = cfg.DigiKey.TokenURL
	catalogCfg.Logger = log
	if cfg.LLM.DebugHTTP {
		catalogCfg.HTTPClient = transport.NewLoggingClient(log, upstreamTimeout)
	}
	catalog := digikey.NewClient(catalogCfg)

	tools := service.NewToolRegistry()
	registerShoppingTools(tools, catalog, converter, cfg.DigiKey.MaxRecords, log)
	c.Tools = tools

	template := opts.SystemPrompt
	if template == "" {
		template = prompts.DefaultSystemPrompt
	}
	systemPrompt, err := prompts.GenerateSystemPrompt(template, tools.Definitions(), converter.LocalCurrency())
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to render system prompt: %w", err)
	}

	c.Agent = shopping.New(llm, tools, opts.Progress, log, systemPrompt)

	log.Info("Container ready",
		"provider", cfg.LLM.Provider,
		"tools", len(tools.Definitions()),
		"configFiles", cfg.LoadedFiles)
	return c, nil
}

func (c *Container) Close() {
	// в обратном порядке: логгер закрывается последним
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
}

func newLLM(ctx context.Context, cfg *config.Config, log output.LoggerPort) (output.LLMPort, func() error, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		gcfg := gemini.DefaultConfig(cfg.Gemini.APIKey)
		gcfg.Model = cfg.Gemini.Model
		gcfg.Logger = log
		adapter, err := gemini.NewGeminiAdapter(ctx, gcfg)
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter.Close, nil

	case config.ProviderOpenRouter:
		ocfg := openrouter.DefaultConfig(cfg.OpenRouter.APIKey, cfg.OpenRouter.ModelName)
		ocfg.BaseURL = cfg.OpenRouter.BaseURL
		ocfg.Timeout = upstreamTimeout
		ocfg.DebugHTTP = cfg.LLM.DebugHTTP
		ocfg.Logger = log
		return openrouter.NewOpenRouterAdapter(ocfg), nil, nil

	case config.ProviderOllama:
		adapter, err := langchain.NewOllamaAdapter(langchain.Config{
			Model:     cfg.Ollama.Model,
			ServerURL: cfg.Ollama.ServerURL,
			Logger:    log,
		})
		if err != nil {
			return nil, nil, err
		}
		return adapter, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func registerShoppingTools(
	registry *service.ToolRegistryImpl,
	catalog output.CatalogPort,
	converter *currency.Converter,
	maxRecords int,
	log output.LoggerPort,
) {
	registry.Register(tool.NewProductSearchTool(catalog, maxRecords, log))
	registry.Register(tool.NewUSDToPKRTool(converter, log))
	registry.Register(tool.NewPKRToUSDTool(converter, log))
}
