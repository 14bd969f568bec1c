package output

import (
	"context"

	"shopping-agent/internal/domain/entity"
)

type ToolPort interface {
	Definition() entity.ToolDefinition
	Execute(ctx context.Context, arguments map[string]any) (string, error)
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
	Validate(name entity.ToolName, arguments map[string]any) error
}
