// Package langchain adapts any langchaingo model, Ollama by default, to the
// model gateway port.
package langchain

import (
	"context"
	"fmt"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"
	"shopping-agent/internal/infrastructure/llm"

	"github.com/rs/xid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

var _ output.LLMPort = (*LangchainAdapter)(nil)

type LangchainAdapter struct {
	model  llms.Model
	logger output.LoggerPort
}

type Config struct {
	Model     string
	ServerURL string
	Logger    output.LoggerPort
}

func NewOllamaAdapter(cfg Config) (*LangchainAdapter, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.ServerURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
	}
	model, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewLangchainAdapter(model, cfg.Logger), nil
}

func NewLangchainAdapter(model llms.Model, logger output.LoggerPort) *LangchainAdapter {
	return &LangchainAdapter{model: model, logger: logger}
}

func (a *LangchainAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	messages := convertMessages(req.Messages)

	// Local runtimes do not all honour a "none" tool choice, so the second
	// round is sent without a manifest at all.
	var opts []llms.CallOption
	if len(req.Tools) > 0 && req.ToolChoice != output.ToolChoiceNone {
		opts = append(opts,
			llms.WithTools(convertTools(req.Tools)),
			llms.WithToolChoice("auto"),
		)
	}

	if a.logger != nil {
		a.logger.Debug("Generating content",
			"messagesCount", len(messages),
			"toolsCount", len(req.Tools),
			"toolChoice", req.ToolChoice)
	}

	resp, err := a.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, llm.Unavailable("generate content failed", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, llm.Unavailable("no choices in response", nil)
	}

	result, err := convertChoice(resp.Choices[0])
	if err != nil {
		return nil, err
	}
	return llm.Finish(result)
}

func convertMessages(messages entity.Conversation) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role := llms.ChatMessageTypeHuman
		if msg.Role == entity.RoleModel {
			role = llms.ChatMessageTypeAI
		}
		result = append(result, llms.TextParts(role, msg.Content))
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []llms.Tool {
	result := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name.String(),
				Description: t.Description,
				Parameters:  t.JSONSchema(),
			},
		})
	}
	return result
}

func convertChoice(choice *llms.ContentChoice) (*output.ChatResponse, error) {
	if choice == nil {
		return nil, llm.Unavailable("nil choice", nil)
	}
	result := &output.ChatResponse{Content: choice.Content}

	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		args, err := llm.DecodeArguments(tc.FunctionCall.Name, tc.FunctionCall.Arguments)
		if err != nil {
			return nil, err
		}
		id := tc.ID
		if id == "" {
			id = "call_" + xid.New().String()
		}
		result.ToolCalls = append(result.ToolCalls, entity.ToolCall{
			ID:        id,
			Name:      tc.FunctionCall.Name,
			Arguments: args,
		})
	}
	return result, nil
}
