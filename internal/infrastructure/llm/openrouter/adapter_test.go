package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchDefinition() entity.ToolDefinition {
	return entity.ToolDefinition{
		Name:        entity.ToolProductSearch,
		Description: "Search the catalog",
		Parameters: []entity.ToolParameter{
			{Name: "search_keyword", Type: entity.ParamString, Description: "keyword", Required: true},
		},
	}
}

func TestConvertResponseMessage_WithContent(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role:    "assistant",
		Content: "Hello, world!",
	}

	result, err := convertResponseMessage(msg)

	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", result.Content)
	assert.Empty(t, result.ToolCalls)
}

func TestConvertResponseMessage_WithToolCalls(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{
			{
				ID:   "call_123",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "digikey_product_search",
					Arguments: `{"search_keyword":"LM7805"}`,
				},
			},
		},
	}

	result, err := convertResponseMessage(msg)

	require.NoError(t, err)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_123", result.ToolCalls[0].ID)
	assert.Equal(t, "digikey_product_search", result.ToolCalls[0].Name)
	assert.Equal(t, "LM7805", result.ToolCalls[0].Arguments["search_keyword"])
}

func TestConvertResponseMessage_BadArguments(t *testing.T) {
	msg := openai.ChatCompletionMessage{
		ToolCalls: []openai.ToolCall{{Function: openai.FunctionCall{Name: "x", Arguments: "{oops"}}},
	}

	_, err := convertResponseMessage(msg)

	assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
}

func TestConvertMessages_MapsRoles(t *testing.T) {
	messages := entity.Conversation{
		{Role: entity.RoleUser, Content: "Hello"},
		{Role: entity.RoleModel, Content: "Hi there"},
		{Role: entity.RoleUser, Content: "Tool result: 42"},
	}

	result := convertMessages(messages)

	require.Len(t, result, 3)
	assert.Equal(t, "user", result[0].Role)
	assert.Equal(t, "assistant", result[1].Role)
	assert.Equal(t, "Hi there", result[1].Content)
	assert.Equal(t, "user", result[2].Role)
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]entity.ToolDefinition{searchDefinition()})

	require.Len(t, tools, 1)
	assert.Equal(t, openai.ToolTypeFunction, tools[0].Type)
	assert.Equal(t, "digikey_product_search", tools[0].Function.Name)
	schema, ok := tools[0].Function.Parameters.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"search_keyword"}, schema["required"])
}

func newFakeServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAdapter(srv *httptest.Server) *OpenRouterAdapter {
	cfg := DefaultConfig("test-key", "test/model")
	cfg.BaseURL = srv.URL
	return NewOpenRouterAdapter(cfg)
}

func TestChat_FirstRoundSendsToolsWithAuto(t *testing.T) {
	var seen map[string]any
	srv := newFakeServer(t, http.StatusOK, `{
		"id": "cmpl-1",
		"object": "chat.completion",
		"choices": [{
			"index": 0,
			"finish_reason": "tool_calls",
			"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_1",
					"type": "function",
					"function": {"name": "digikey_product_search", "arguments": "{\"search_keyword\":\"LED\"}"}
				}]
			}
		}]
	}`, &seen)

	resp, err := newTestAdapter(srv).Chat(context.Background(), output.ChatRequest{
		Messages:   entity.Conversation{{Role: entity.RoleUser, Content: "find LEDs"}},
		Tools:      []entity.ToolDefinition{searchDefinition()},
		ToolChoice: output.ToolChoiceAuto,
	})

	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "LED", resp.ToolCalls[0].Arguments["search_keyword"])
	assert.Equal(t, "test/model", seen["model"])
	assert.Equal(t, "auto", seen["tool_choice"])
	assert.Len(t, seen["tools"], 1)
}

func TestChat_SecondRoundForbidsTools(t *testing.T) {
	var seen map[string]any
	srv := newFakeServer(t, http.StatusOK, `{
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "It costs 2919.00 PKR."}}]
	}`, &seen)

	resp, err := newTestAdapter(srv).Chat(context.Background(), output.ChatRequest{
		Messages: entity.Conversation{
			{Role: entity.RoleUser, Content: "convert"},
			{Role: entity.RoleModel, Content: ""},
			{Role: entity.RoleUser, Content: "Tool result: {}"},
		},
		Tools:      []entity.ToolDefinition{searchDefinition()},
		ToolChoice: output.ToolChoiceNone,
	})

	require.NoError(t, err)
	assert.Equal(t, "It costs 2919.00 PKR.", resp.Content)
	assert.Equal(t, "none", seen["tool_choice"])
	msgs, ok := seen["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 3)
}

func TestChat_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"no choices", http.StatusOK, `{"choices": []}`},
		{"empty message", http.StatusOK, `{"choices": [{"index": 0, "message": {"role": "assistant", "content": ""}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, tt.status, tt.body, nil)

			_, err := newTestAdapter(srv).Chat(context.Background(), output.ChatRequest{
				Messages: entity.Conversation{{Role: entity.RoleUser, Content: "hi"}},
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, entity.ErrUpstreamUnavailable))
		})
	}
}
