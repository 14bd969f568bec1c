package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shopping-agent/internal/domain/entity"
	"shopping-agent/internal/infrastructure/currency"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConverter(t *testing.T) *currency.Converter {
	t.Helper()
	c, err := currency.NewConverter(278.0)
	require.NoError(t, err)
	return c
}

func TestConvertTool_USDToPKR(t *testing.T) {
	tool := NewUSDToPKRTool(newConverter(t), nil)

	out, err := tool.Execute(context.Background(), map[string]any{"amount": 10.5})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 10.5, decoded["source_amount"])
	assert.Equal(t, 2919.0, decoded["converted_amount"])
	assert.Equal(t, 278.0, decoded["exchange_rate"])
	assert.Equal(t, "USD/PKR", decoded["currency_pair"])
	assert.Equal(t, 10.5, decoded["usd_amount"])
	assert.Equal(t, 2919.0, decoded["pkr_amount"])
}

func TestConvertTool_PKRToUSD(t *testing.T) {
	tool := NewPKRToUSDTool(newConverter(t), nil)

	out, err := tool.Execute(context.Background(), map[string]any{"amount": 2919})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 2919.0, decoded["source_amount"])
	assert.Equal(t, 10.5, decoded["converted_amount"])
	assert.Equal(t, "PKR", decoded["source_currency"])
	assert.Equal(t, "USD", decoded["target_currency"])
	assert.Equal(t, 2919.0, decoded["pkr_amount"])
	assert.Equal(t, 10.5, decoded["usd_amount"])
}

func TestConvertTool_Definitions(t *testing.T) {
	conv := newConverter(t)

	assert.Equal(t, entity.ToolConvertUSDToPKR, NewUSDToPKRTool(conv, nil).Definition().Name)
	def := NewPKRToUSDTool(conv, nil).Definition()
	assert.Equal(t, entity.ToolConvertPKRToUSD, def.Name)
	assert.Equal(t, []string{"amount"}, def.RequiredParameters())
	assert.Equal(t, entity.ParamNumber, def.Parameters[0].Type)
}

func TestConvertTool_BadArguments(t *testing.T) {
	tool := NewUSDToPKRTool(newConverter(t), nil)

	_, err := tool.Execute(context.Background(), map[string]any{"amount": "ten"})
	assert.True(t, errors.Is(err, entity.ErrInvalidArguments))

	_, err = tool.Execute(context.Background(), map[string]any{})
	assert.True(t, errors.Is(err, entity.ErrInvalidArguments))
}
