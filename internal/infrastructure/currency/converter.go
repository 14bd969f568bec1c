package currency

import (
	"fmt"

	"shopping-agent/internal/domain/entity"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	DefaultUSDPKRRate = 278.0
	pricePrecision    = 2
)

// Converter applies a static USD/local exchange rate. It holds no mutable
// state and is safe for concurrent use.
type Converter struct {
	rate  float64
	local entity.Currency
}

func NewConverter(rate float64) (*Converter, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("exchange rate must be positive, got %v", rate)
	}
	return &Converter{rate: rate, local: entity.CurrencyPKR}, nil
}

func (c *Converter) Rate() float64 {
	return c.rate
}

func (c *Converter) LocalCurrency() entity.Currency {
	return c.local
}

func (c *Converter) pair() string {
	return fmt.Sprintf("%s/%s", entity.CurrencyUSD, c.local)
}

// ToLocal converts a USD amount. Zero and negative amounts pass through arithmetically.
func (c *Converter) ToLocal(usd float64) entity.ConversionResult {
	return entity.ConversionResult{
		SourceAmount:    usd,
		ConvertedAmount: scalar.Round(usd*c.rate, pricePrecision),
		ExchangeRate:    c.rate,
		CurrencyPair:    c.pair(),
		SourceCurrency:  entity.CurrencyUSD,
		TargetCurrency:  c.local,
	}
}

func (c *Converter) ToUSD(local float64) entity.ConversionResult {
	return entity.ConversionResult{
		SourceAmount:    local,
		ConvertedAmount: scalar.Round(local/c.rate, pricePrecision),
		ExchangeRate:    c.rate,
		CurrencyPair:    c.pair(),
		SourceCurrency:  c.local,
		TargetCurrency:  entity.CurrencyUSD,
	}
}
