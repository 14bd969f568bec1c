package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopping-agent/internal/application/port/input"
	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
)

var _ input.ShoppingAgent = (*UseCase)(nil)

const toolResultPrefix = "Tool result: "

// UseCase runs the fixed two-round protocol: one completion with tools
// allowed, at most one tool dispatch, and one completion with tools
// disabled. It keeps no state between runs and is safe for concurrent use
// when its collaborators are.
type UseCase struct {
	llm          output.LLMPort
	tools        output.ToolRegistry
	progress     output.ProgressPort
	logger       output.LoggerPort
	systemPrompt string
}

// New builds the orchestrator. progress may be nil.
func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	progress output.ProgressPort,
	logger output.LoggerPort,
	systemPrompt string,
) *UseCase {
	return &UseCase{
		llm:          llm,
		tools:        tools,
		progress:     progress,
		logger:       logger,
		systemPrompt: systemPrompt,
	}
}

func (uc *UseCase) Execute(ctx context.Context, message string) (*input.RunResult, error) {
	result := &input.RunResult{ConversationID: uuid.NewString()}
	log := uc.logger.WithField("conversationId", result.ConversationID)

	conversation := entity.Conversation{
		{Role: entity.RoleUser, Content: uc.systemPrompt + "\n\n" + message},
	}
	manifest := uc.tools.Definitions()

	log.Info("Starting run", "messageLen", len(message), "toolsCount", len(manifest))

	first, err := uc.llm.Chat(ctx, output.ChatRequest{
		Messages:   conversation,
		Tools:      manifest,
		ToolChoice: output.ToolChoiceAuto,
	})
	result.RoundTrips = 1
	if err != nil {
		log.Error("First completion failed", "error", err)
		return nil, err
	}

	if len(first.ToolCalls) == 0 {
		log.Info("Answered without a tool", "answerLen", len(first.Content))
		result.Answer = first.Content
		return result, nil
	}

	call := first.ToolCalls[0]
	if dropped := first.ToolCalls[1:]; len(dropped) > 0 {
		result.DroppedToolCalls = len(dropped)
		names := make([]string, 0, len(dropped))
		for _, d := range dropped {
			names = append(names, d.Name)
		}
		log.Warn("Ignoring additional tool calls", "executed", call.Name, "dropped", names)
		if uc.progress != nil {
			uc.progress.ShowDroppedToolCalls(ctx, dropped)
		}
	}

	name, ok := entity.ParseToolName(call.Name)
	if !ok {
		log.Warn("Unknown tool called", "name", call.Name)
		return nil, &entity.UnrecognizedToolError{Name: call.Name}
	}
	result.Tool = name

	observation, err := uc.executeTool(ctx, log, name, call)
	if err != nil {
		return nil, err
	}

	conversation = conversation.Append(
		entity.Message{Role: entity.RoleModel, Content: first.Content},
		entity.Message{Role: entity.RoleUser, Content: toolResultPrefix + observation},
	)

	final, err := uc.llm.Chat(ctx, output.ChatRequest{
		Messages:   conversation,
		Tools:      manifest,
		ToolChoice: output.ToolChoiceNone,
	})
	result.RoundTrips = 2
	if err != nil {
		log.Error("Final completion failed", "error", err)
		return nil, err
	}
	// провайдер мог проигнорировать tool_choice=none и вернуть только вызов
	if strings.TrimSpace(final.Content) == "" {
		log.Error("Final completion has no text", "toolCalls", len(final.ToolCalls))
		return nil, fmt.Errorf("%w: final completion without content", entity.ErrUpstreamUnavailable)
	}

	log.Info("Run completed", "tool", name, "answerLen", len(final.Content))
	result.Answer = final.Content
	return result, nil
}

func (uc *UseCase) Run(ctx context.Context, message string) string {
	result, err := uc.Execute(ctx, message)
	if err != nil {
		return input.RenderError(err)
	}
	return result.Answer
}

// executeTool returns the observation for the model. A CapabilityFailure
// becomes the observation; every other error ends the run.
func (uc *UseCase) executeTool(ctx context.Context, log output.LoggerPort, name entity.ToolName, call entity.ToolCall) (string, error) {
	tool, ok := uc.tools.Get(name)
	if !ok {
		log.Warn("Tool is not registered", "name", name)
		return "", &entity.UnrecognizedToolError{Name: call.Name}
	}

	if err := uc.tools.Validate(name, call.Arguments); err != nil {
		log.Error("Tool arguments rejected", "name", name, "args", call.Arguments, "error", err)
		return "", err
	}

	log.Info("Executing tool", "name", name, "args", call.Arguments)
	if uc.progress != nil {
		uc.progress.ShowToolStart(ctx, call)
	}

	var (
		observation string
		execErr     error
		catcher     panics.Catcher
	)
	catcher.Try(func() {
		observation, execErr = tool.Execute(ctx, call.Arguments)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		execErr = recovered.AsError()
	}

	var failure *entity.CapabilityFailure
	switch {
	case execErr == nil:
		log.Debug("Tool completed", "name", name, "resultLen", len(observation))
		uc.showResult(ctx, name, observation, false)
		return observation, nil
	case errors.As(execErr, &failure):
		log.Warn("Tool reported a failure", "name", name, "cause", failure.Cause)
		uc.showResult(ctx, name, failure.Error(), true)
		return failure.Error(), nil
	default:
		log.Error("Tool execution failed", "name", name, "error", execErr)
		uc.showResult(ctx, name, execErr.Error(), true)
		return "", fmt.Errorf("tool %s failed: %w", name, execErr)
	}
}

func (uc *UseCase) showResult(ctx context.Context, name entity.ToolName, text string, isError bool) {
	if uc.progress != nil {
		uc.progress.ShowToolResult(ctx, name, text, isError)
	}
}
