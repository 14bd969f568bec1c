package output

import (
	"context"

	"shopping-agent/internal/domain/entity"
)

type ProgressPort interface {
	ShowToolStart(ctx context.Context, call entity.ToolCall)
	ShowToolResult(ctx context.Context, name entity.ToolName, result string, isError bool)
	ShowDroppedToolCalls(ctx context.Context, calls []entity.ToolCall)
}
