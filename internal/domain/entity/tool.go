package entity

type ToolName string

const (
	ToolProductSearch   ToolName = "digikey_product_search"
	ToolConvertUSDToPKR ToolName = "convert_usd_to_pkr"
	ToolConvertPKRToUSD ToolName = "convert_pkr_to_usd"
)

var knownTools = map[string]ToolName{
	string(ToolProductSearch):   ToolProductSearch,
	string(ToolConvertUSDToPKR): ToolConvertUSDToPKR,
	string(ToolConvertPKRToUSD): ToolConvertPKRToUSD,
}

// ParseToolName resolves a model-supplied name to a known tool.
func ParseToolName(name string) (ToolName, bool) {
	t, ok := knownTools[name]
	return t, ok
}

func (t ToolName) String() string {
	return string(t)
}

type ParamType string

const (
	ParamString  ParamType = "string"
	ParamInteger ParamType = "integer"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
)

type ToolParameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  []ToolParameter
}

func (d ToolDefinition) RequiredParameters() []string {
	required := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return required
}

// JSONSchema renders the parameter list as a JSON-schema object.
func (d ToolDefinition) JSONSchema() map[string]interface{} {
	properties := make(map[string]interface{}, len(d.Parameters))
	for _, p := range d.Parameters {
		properties[p.Name] = map[string]interface{}{
			"type":        string(p.Type),
			"description": p.Description,
		}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if required := d.RequiredParameters(); len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
