package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"

	"github.com/xeipuuv/gojsonschema"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

// ToolRegistryImpl keeps tools in registration order, which is also the
// order of the manifest offered to the model.
type ToolRegistryImpl struct {
	order   []entity.ToolName
	tools   map[entity.ToolName]output.ToolPort
	schemas map[entity.ToolName]*gojsonschema.Schema
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools:   make(map[entity.ToolName]output.ToolPort),
		schemas: make(map[entity.ToolName]*gojsonschema.Schema),
	}
}

// Register panics on a duplicate name or an unusable schema: both are
// programming errors caught at wiring time.
func (r *ToolRegistryImpl) Register(tool output.ToolPort) {
	def := tool.Definition()
	if _, ok := entity.ParseToolName(string(def.Name)); !ok {
		panic(fmt.Sprintf("tool %q is not a known capability", def.Name))
	}
	if _, exists := r.tools[def.Name]; exists {
		panic(fmt.Sprintf("tool %q registered twice", def.Name))
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.JSONSchema()))
	if err != nil {
		panic(fmt.Sprintf("tool %q has invalid parameter schema: %v", def.Name, err))
	}

	r.order = append(r.order, def.Name)
	r.tools[def.Name] = tool
	r.schemas[def.Name] = schema
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	result := make([]entity.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name].Definition())
	}
	return result
}

// Validate checks model-supplied arguments against the tool's declared
// parameters. Failures wrap entity.ErrInvalidArguments.
func (r *ToolRegistryImpl) Validate(name entity.ToolName, arguments map[string]any) error {
	schema, ok := r.schemas[name]
	if !ok {
		return &entity.UnrecognizedToolError{Name: name.String()}
	}
	if arguments == nil {
		arguments = map[string]any{}
	}

	// Round-trip through JSON so numeric types match what the schema expects.
	raw, err := json.Marshal(arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return fmt.Errorf("%w: %s", entity.ErrInvalidArguments, strings.Join(issues, "; "))
	}
	return nil
}
