package digikey

import (
	"strings"

	"shopping-agent/internal/domain/entity"
)

type keywordSearchResponse struct {
	ProductsCount int       `json:"ProductsCount"`
	Products      []product `json:"Products"`
}

type product struct {
	Description               *description `json:"Description"`
	Manufacturer              *named       `json:"Manufacturer"`
	Category                  *named       `json:"Category"`
	ManufacturerProductNumber *string      `json:"ManufacturerProductNumber"`
	UnitPrice                 *float64     `json:"UnitPrice"`
	ProductURL                *string      `json:"ProductUrl"`
	DatasheetURL              *string      `json:"DatasheetUrl"`
	QuantityAvailable         *float64     `json:"QuantityAvailable"`
	ProductVariations         []variation  `json:"ProductVariations"`
}

type description struct {
	ProductDescription  *string `json:"ProductDescription"`
	DetailedDescription *string `json:"DetailedDescription"`
}

type named struct {
	Name *string `json:"Name"`
}

type variation struct {
	DigiKeyProductNumber *string      `json:"DigiKeyProductNumber"`
	StandardPricing      []priceBreak `json:"StandardPricing"`
}

type priceBreak struct {
	BreakQuantity int      `json:"BreakQuantity"`
	UnitPrice     *float64 `json:"UnitPrice"`
}

func normalize(p product) entity.ProductRecord {
	rec := entity.ProductRecord{
		ManufacturerPartNumber: nonEmpty(p.ManufacturerProductNumber),
		UnitPrice:              p.UnitPrice,
		ProductURL:             nonEmpty(p.ProductURL),
		DatasheetURL:           nonEmpty(p.DatasheetURL),
	}

	if p.QuantityAvailable != nil {
		rec.QuantityAvailable = int(*p.QuantityAvailable)
	}
	if p.Description != nil {
		rec.Description = cleaned(p.Description.ProductDescription)
		rec.DetailedDescription = cleaned(p.Description.DetailedDescription)
	}
	if p.Manufacturer != nil {
		rec.Manufacturer = nonEmpty(p.Manufacturer.Name)
	}
	if p.Category != nil {
		rec.Category = nonEmpty(p.Category.Name)
	}

	// The first variation carries the distributor part number and the
	// quantity-1 price break, which is more precise than the top-level price.
	if len(p.ProductVariations) > 0 {
		first := p.ProductVariations[0]
		rec.PartNumber = nonEmpty(first.DigiKeyProductNumber)
		if len(first.StandardPricing) > 0 && first.StandardPricing[0].UnitPrice != nil {
			rec.UnitPrice = first.StandardPricing[0].UnitPrice
		}
	}
	if rec.PartNumber == nil {
		rec.PartNumber = rec.ManufacturerPartNumber
	}

	return rec
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cleaned(s *string) *string {
	v := nonEmpty(s)
	if v == nil {
		return nil
	}
	text := plainText(*v)
	if text == "" {
		return nil
	}
	return &text
}
