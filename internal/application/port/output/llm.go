package output

import (
	"context"

	"shopping-agent/internal/domain/entity"
)

type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

// LLMPort is a stateless completion gateway: every call carries the full
// conversation. Errors wrap entity.ErrUpstreamUnavailable.
type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages   entity.Conversation
	Tools      []entity.ToolDefinition
	ToolChoice ToolChoice
}

type ChatResponse struct {
	Content   string
	ToolCalls []entity.ToolCall
}
