package entity

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyPKR Currency = "PKR"
)

type ConversionResult struct {
	SourceAmount    float64  `json:"source_amount"`
	ConvertedAmount float64  `json:"converted_amount"`
	ExchangeRate    float64  `json:"exchange_rate"`
	CurrencyPair    string   `json:"currency_pair"`
	SourceCurrency  Currency `json:"source_currency"`
	TargetCurrency  Currency `json:"target_currency"`
}
