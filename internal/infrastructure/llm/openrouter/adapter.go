package openrouter

import (
	"context"
	"time"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"
	"shopping-agent/internal/infrastructure/llm"
	"shopping-agent/internal/infrastructure/transport"

	"github.com/sashabaranov/go-openai"
)

var _ output.LLMPort = (*OpenRouterAdapter)(nil)

type OpenRouterAdapter struct {
	client *openai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
	// DebugHTTP logs every request and response body through Logger.
	DebugHTTP bool
	Logger    output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
		Timeout: 60 * time.Second,
	}
}

func NewOpenRouterAdapter(cfg Config) *OpenRouterAdapter {
	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL

	if cfg.DebugHTTP && cfg.Logger != nil {
		config.HTTPClient = transport.NewLoggingClient(cfg.Logger, cfg.Timeout)
	}

	return &OpenRouterAdapter{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

func (a *OpenRouterAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	request := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: convertMessages(req.Messages),
	}
	if len(req.Tools) > 0 {
		request.Tools = convertTools(req.Tools)
		request.ToolChoice = toolChoice(req.ToolChoice)
	}

	if a.logger != nil {
		a.logger.Debug("Creating chat completion",
			"model", a.model,
			"messagesCount", len(request.Messages),
			"toolsCount", len(request.Tools),
			"toolChoice", req.ToolChoice)
	}

	resp, err := a.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, llm.Unavailable("chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, llm.Unavailable("no choices in response", nil)
	}

	result, err := convertResponseMessage(resp.Choices[0].Message)
	if err != nil {
		return nil, err
	}
	return llm.Finish(result)
}

func toolChoice(choice output.ToolChoice) string {
	if choice == output.ToolChoiceNone {
		return "none"
	}
	return "auto"
}

func convertMessages(messages entity.Conversation) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == entity.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		result = append(result, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name.String(),
				Description: t.Description,
				Parameters:  t.JSONSchema(),
			},
		})
	}
	return result
}

func convertResponseMessage(msg openai.ChatCompletionMessage) (*output.ChatResponse, error) {
	result := &output.ChatResponse{Content: msg.Content}

	for _, tc := range msg.ToolCalls {
		args, err := llm.DecodeArguments(tc.Function.Name, tc.Function.Arguments)
		if err != nil {
			return nil, err
		}
		result.ToolCalls = append(result.ToolCalls, entity.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	return result, nil
}
