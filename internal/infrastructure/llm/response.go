// Package llm holds the pieces shared by the model gateway adapters.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"
)

// Unavailable wraps err as an upstream failure of the gateway.
func Unavailable(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", entity.ErrUpstreamUnavailable, op)
	}
	return fmt.Errorf("%w: %s: %w", entity.ErrUpstreamUnavailable, op, err)
}

// DecodeArguments parses the JSON argument string some providers send.
// An empty string means no arguments.
func DecodeArguments(tool, raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, Unavailable(fmt.Sprintf("undecodable arguments for %q", tool), err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}

// Finish rejects a response that carries neither text nor a tool call.
func Finish(resp *output.ChatResponse) (*output.ChatResponse, error) {
	if resp == nil || (strings.TrimSpace(resp.Content) == "" && len(resp.ToolCalls) == 0) {
		return nil, Unavailable("empty response", nil)
	}
	return resp, nil
}
