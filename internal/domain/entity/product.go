package entity

// ProductRecord is a normalized catalog search hit. Nil pointers mean the
// upstream did not provide the attribute.
type ProductRecord struct {
	PartNumber             *string
	ManufacturerPartNumber *string
	Description            *string
	DetailedDescription    *string
	Category               *string
	UnitPrice              *float64
	QuantityAvailable      int
	Manufacturer           *string
	ProductURL             *string
	DatasheetURL           *string
}
