package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolName(t *testing.T) {
	for _, name := range []string{"digikey_product_search", "convert_usd_to_pkr", "convert_pkr_to_usd"} {
		got, ok := ParseToolName(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, got.String())
	}

	for _, name := range []string{"", "Digikey_Product_Search", "browser_click"} {
		_, ok := ParseToolName(name)
		assert.False(t, ok, name)
	}
}

func TestToolDefinition_JSONSchema(t *testing.T) {
	def := ToolDefinition{
		Name: ToolProductSearch,
		Parameters: []ToolParameter{
			{Name: "search_keyword", Type: ParamString, Description: "kw", Required: true},
			{Name: "record_count", Type: ParamInteger, Description: "n"},
		},
	}

	schema := def.JSONSchema()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"search_keyword"}, schema["required"])
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"type": "integer", "description": "n"}, props["record_count"])

	noRequired := ToolDefinition{Name: ToolConvertUSDToPKR}.JSONSchema()
	_, present := noRequired["required"]
	assert.False(t, present)
}

func TestErrors(t *testing.T) {
	failure := NewCapabilityFailure(ToolProductSearch, "API ERROR (%d): %s", 500, "boom")
	assert.Equal(t, "API ERROR (500): boom", failure.Error())

	var err error = &UnrecognizedToolError{Name: "x"}
	assert.True(t, errors.Is(err, ErrUnrecognizedTool))
	assert.Equal(t, `unrecognized tool "x"`, err.Error())
}
