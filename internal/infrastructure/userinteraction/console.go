package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

// ConsoleProgress renders tool activity for the CLI. It writes to stderr by
// default so that stdout carries only the final answer.
type ConsoleProgress struct {
	out io.Writer
}

func NewConsoleProgress() *ConsoleProgress {
	return NewConsoleProgressTo(os.Stderr)
}

func NewConsoleProgressTo(w io.Writer) *ConsoleProgress {
	return &ConsoleProgress{out: w}
}

func (c *ConsoleProgress) ShowToolStart(ctx context.Context, call entity.ToolCall) {
	icon, name := getToolDisplay(call.Name)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(c.out, "\n%s %s\n", icon, name)

	summary := formatToolArguments(call.Name, call.Arguments)
	if summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(c.out, "   %s\n", summary)
	}
}

func (c *ConsoleProgress) ShowToolResult(ctx context.Context, name entity.ToolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(c.out, "❌ Error: ")

		dim := color.New(color.Faint)
		dim.Fprintln(c.out, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(c.out, "✓ %s\n", formatToolResult(name, result))
}

func (c *ConsoleProgress) ShowDroppedToolCalls(ctx context.Context, calls []entity.ToolCall) {
	names := make([]string, 0, len(calls))
	for _, call := range calls {
		names = append(names, call.Name)
	}
	magenta := color.New(color.FgMagenta)
	magenta.Fprintf(c.out, "⚠️  Only one tool runs per request, skipped: %s\n", strings.Join(names, ", "))
}

func (c *ConsoleProgress) ShowAnswer(w io.Writer, answer string) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(c.out, "\n━━━ Answer ━━━")
	fmt.Fprintln(w, answer)
}

func getToolDisplay(toolName string) (string, string) {
	displays := map[string][2]string{
		string(entity.ToolProductSearch):   {"🔎", "Digi-Key search"},
		string(entity.ToolConvertUSDToPKR): {"💱", "USD → PKR"},
		string(entity.ToolConvertPKRToUSD): {"💱", "PKR → USD"},
	}

	if display, ok := displays[toolName]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName string, args map[string]any) string {
	switch entity.ToolName(toolName) {
	case entity.ToolProductSearch:
		keyword, _ := args["search_keyword"].(string)
		if keyword == "" {
			return ""
		}
		if count, ok := args["record_count"]; ok {
			return fmt.Sprintf("Keyword: %s (records: %v)", truncate(keyword, 60), count)
		}
		return fmt.Sprintf("Keyword: %s", truncate(keyword, 60))

	case entity.ToolConvertUSDToPKR, entity.ToolConvertPKRToUSD:
		if amount, ok := args["amount"]; ok {
			return fmt.Sprintf("Amount: %v", amount)
		}
	}

	return ""
}

func formatToolResult(name entity.ToolName, result string) string {
	switch name {
	case entity.ToolProductSearch:
		var records []json.RawMessage
		if err := json.Unmarshal([]byte(result), &records); err == nil {
			return fmt.Sprintf("Products found: %d", len(records))
		}

	case entity.ToolConvertUSDToPKR, entity.ToolConvertPKRToUSD:
		var conv struct {
			USD float64 `json:"usd_amount"`
			PKR float64 `json:"pkr_amount"`
		}
		if err := json.Unmarshal([]byte(result), &conv); err == nil {
			return fmt.Sprintf("%.2f USD = %.2f PKR", conv.USD, conv.PKR)
		}
	}

	return truncate(result, 100)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
