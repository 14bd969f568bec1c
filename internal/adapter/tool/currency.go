package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"
	"shopping-agent/internal/infrastructure/currency"
)

var _ output.ToolPort = (*ConvertTool)(nil)

type direction int

const (
	toLocal direction = iota
	toUSD
)

// ConvertTool exposes one direction of the static exchange rate.
type ConvertTool struct {
	converter *currency.Converter
	direction direction
	logger    output.LoggerPort
}

func NewUSDToPKRTool(converter *currency.Converter, logger output.LoggerPort) *ConvertTool {
	return &ConvertTool{converter: converter, direction: toLocal, logger: logger}
}

func NewPKRToUSDTool(converter *currency.Converter, logger output.LoggerPort) *ConvertTool {
	return &ConvertTool{converter: converter, direction: toUSD, logger: logger}
}

func (t *ConvertTool) Definition() entity.ToolDefinition {
	if t.direction == toUSD {
		return entity.ToolDefinition{
			Name:        entity.ToolConvertPKRToUSD,
			Description: fmt.Sprintf("Converts an amount in Pakistani Rupees (PKR) to US Dollars (USD) at %.2f PKR per USD.", t.converter.Rate()),
			Parameters: []entity.ToolParameter{
				{Name: "amount", Type: entity.ParamNumber, Description: "Amount in PKR to convert", Required: true},
			},
		}
	}
	return entity.ToolDefinition{
		Name:        entity.ToolConvertUSDToPKR,
		Description: fmt.Sprintf("Converts an amount in US Dollars (USD) to Pakistani Rupees (PKR) at %.2f PKR per USD.", t.converter.Rate()),
		Parameters: []entity.ToolParameter{
			{Name: "amount", Type: entity.ParamNumber, Description: "Amount in USD to convert", Required: true},
		},
	}
}

func (t *ConvertTool) Execute(ctx context.Context, arguments map[string]any) (string, error) {
	amount, err := numberArg(arguments, "amount")
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}

	var result entity.ConversionResult
	if t.direction == toUSD {
		result = t.converter.ToUSD(amount)
	} else {
		result = t.converter.ToLocal(amount)
	}

	if t.logger != nil {
		t.logger.Info("Currency converted",
			"from", result.SourceCurrency,
			"to", result.TargetCurrency,
			"amount", result.SourceAmount,
			"converted", result.ConvertedAmount)
	}

	data, err := json.Marshal(conversionJSON{
		ConversionResult: result,
		USDAmount:        amountIn(result, entity.CurrencyUSD),
		PKRAmount:        amountIn(result, entity.CurrencyPKR),
	})
	if err != nil {
		return "", entity.NewCapabilityFailure(t.Definition().Name,
			"TOOL EXECUTION ERROR: An unexpected error occurred: %v", err)
	}
	return string(data), nil
}

// conversionJSON keeps the usd_amount/pkr_amount keys earlier clients read
// next to the source/converted pair.
type conversionJSON struct {
	entity.ConversionResult
	USDAmount float64 `json:"usd_amount"`
	PKRAmount float64 `json:"pkr_amount"`
}

func amountIn(r entity.ConversionResult, c entity.Currency) float64 {
	if r.SourceCurrency == c {
		return r.SourceAmount
	}
	return r.ConvertedAmount
}
