package prompts_test

import (
	"fmt"
	"testing"

	"shopping-agent/internal/adapter/tool"
	"shopping-agent/internal/application/service"
	"shopping-agent/internal/infrastructure/currency"
	"shopping-agent/internal/infrastructure/prompts"
)

func TestRealSystemPromptGeneration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping real prompt generation in short mode")
	}

	conv, err := currency.NewConverter(currency.DefaultUSDPKRRate)
	if err != nil {
		t.Fatalf("Failed to create converter: %v", err)
	}

	registry := service.NewToolRegistry()
	registry.Register(tool.NewProductSearchTool(nil, 10, nil))
	registry.Register(tool.NewUSDToPKRTool(conv, nil))
	registry.Register(tool.NewPKRToUSDTool(conv, nil))

	prompt, err := prompts.GenerateSystemPrompt(prompts.DefaultSystemPrompt, registry.Definitions(), conv.LocalCurrency())
	if err != nil {
		t.Fatalf("Failed to generate prompt: %v", err)
	}

	fmt.Println("=== GENERATED SYSTEM PROMPT ===")
	fmt.Println(prompt)
	fmt.Println("=== END OF PROMPT ===")

	if len(prompt) < 100 {
		t.Error("Generated prompt seems too short")
	}
}
