package prompts

import (
	"bytes"
	"strings"
	"text/template"

	"shopping-agent/internal/domain/entity"
)

type ToolInfo struct {
	Name        string
	Description string
}

type SystemPromptData struct {
	Tools         []ToolInfo
	LocalCurrency entity.Currency
	SearchTool    string
	ToLocalTool   string
	ToUSDTool     string
}

// GenerateSystemPrompt renders baseTemplate with the tool manifest in the
// order it is offered to the model.
func GenerateSystemPrompt(baseTemplate string, tools []entity.ToolDefinition, local entity.Currency) (string, error) {
	data := SystemPromptData{
		Tools:         make([]ToolInfo, 0, len(tools)),
		LocalCurrency: local,
		SearchTool:    entity.ToolProductSearch.String(),
	}

	for _, t := range tools {
		data.Tools = append(data.Tools, ToolInfo{
			Name:        t.Name.String(),
			Description: t.Description,
		})
		switch t.Name {
		case entity.ToolConvertUSDToPKR:
			data.ToLocalTool = t.Name.String()
		case entity.ToolConvertPKRToUSD:
			data.ToUSDTool = t.Name.String()
		}
	}

	tmpl, err := template.New("system").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
