package input

import (
	"context"
	"errors"
	"fmt"

	"shopping-agent/internal/domain/entity"
)

type RunResult struct {
	ConversationID string
	Answer         string
	// Tool is empty when the model answered without a tool call.
	Tool             entity.ToolName
	RoundTrips       int
	DroppedToolCalls int
}

type ShoppingAgent interface {
	Execute(ctx context.Context, message string) (*RunResult, error)
	// Run always yields user-facing text, including "ERROR: ..." answers.
	Run(ctx context.Context, message string) string
}

// RenderError turns a fatal run error into the text shown to the user.
func RenderError(err error) string {
	var unknown *entity.UnrecognizedToolError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("ERROR: Unrecognized tool '%s'.", unknown.Name)
	}
	return "ERROR: " + err.Error()
}
