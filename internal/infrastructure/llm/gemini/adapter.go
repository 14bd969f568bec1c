package gemini

import (
	"context"
	"fmt"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"
	"shopping-agent/internal/infrastructure/llm"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/xid"
	"google.golang.org/api/option"
)

var _ output.LLMPort = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client *genai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey string
	Model  string
	Logger output.LoggerPort
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey: apiKey,
		Model:  "gemini-2.5-flash",
	}
}

func NewGeminiAdapter(ctx context.Context, cfg Config) (*GeminiAdapter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiAdapter{
		client: client,
		model:  cfg.Model,
		logger: cfg.Logger,
	}, nil
}

func (a *GeminiAdapter) Close() error {
	return a.client.Close()
}

func (a *GeminiAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	history, last, err := splitConversation(req.Messages)
	if err != nil {
		return nil, err
	}

	model := a.client.GenerativeModel(a.model)
	configureTools(model, req.Tools, req.ToolChoice)

	if a.logger != nil {
		a.logger.Debug("Sending gemini message",
			"model", a.model,
			"historyCount", len(history),
			"toolsCount", len(req.Tools),
			"toolChoice", req.ToolChoice)
	}

	session := model.StartChat()
	session.History = history

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, llm.Unavailable("gemini request failed", err)
	}

	result, err := convertResponse(resp)
	if err != nil {
		return nil, err
	}
	return llm.Finish(result)
}

// splitConversation separates the final user turn, which is sent, from the
// preceding turns, which become chat history.
func splitConversation(messages entity.Conversation) ([]*genai.Content, *genai.Content, error) {
	last, ok := messages.Last()
	if !ok {
		return nil, nil, llm.Unavailable("empty conversation", nil)
	}
	if last.Role != entity.RoleUser {
		return nil, nil, llm.Unavailable("conversation must end with a user turn", nil)
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		history = append(history, content(msg))
	}
	return history, content(last), nil
}

func content(msg entity.Message) *genai.Content {
	return &genai.Content{
		Role:  string(msg.Role),
		Parts: []genai.Part{genai.Text(msg.Content)},
	}
}

func configureTools(model *genai.GenerativeModel, tools []entity.ToolDefinition, choice output.ToolChoice) {
	if len(tools) == 0 {
		return
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        t.Name.String(),
			Description: t.Description,
			Parameters:  convertSchema(t),
		})
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: declarations}}

	mode := genai.FunctionCallingAuto
	if choice == output.ToolChoiceNone {
		mode = genai.FunctionCallingNone
	}
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: mode},
	}
}

func convertSchema(def entity.ToolDefinition) *genai.Schema {
	properties := make(map[string]*genai.Schema, len(def.Parameters))
	for _, p := range def.Parameters {
		properties[p.Name] = &genai.Schema{
			Type:        schemaType(p.Type),
			Description: p.Description,
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   def.RequiredParameters(),
	}
}

func schemaType(t entity.ParamType) genai.Type {
	switch t {
	case entity.ParamInteger:
		return genai.TypeInteger
	case entity.ParamNumber:
		return genai.TypeNumber
	case entity.ParamBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// convertResponse reads the first candidate. Gemini does not assign ids to
// function calls, so each one gets a generated id.
func convertResponse(resp *genai.GenerateContentResponse) (*output.ChatResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, llm.Unavailable("no candidates in response", nil)
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return nil, llm.Unavailable(fmt.Sprintf("candidate without content (finish reason %v)", candidate.FinishReason), nil)
	}

	result := &output.ChatResponse{}
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			result.Content += string(p)
		case genai.FunctionCall:
			result.ToolCalls = append(result.ToolCalls, toolCall(p))
		case *genai.FunctionCall:
			if p != nil {
				result.ToolCalls = append(result.ToolCalls, toolCall(*p))
			}
		}
	}
	return result, nil
}

func toolCall(fc genai.FunctionCall) entity.ToolCall {
	args := fc.Args
	if args == nil {
		args = map[string]any{}
	}
	return entity.ToolCall{
		ID:        "call_" + xid.New().String(),
		Name:      fc.Name,
		Arguments: args,
	}
}
