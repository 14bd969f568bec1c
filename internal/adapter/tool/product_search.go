package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"
)

const (
	DefaultRecordCount = 5
	notAvailable       = "N/A"
)

var _ output.ToolPort = (*ProductSearchTool)(nil)

type ProductSearchTool struct {
	catalog    output.CatalogPort
	maxRecords int
	logger     output.LoggerPort
}

// NewProductSearchTool caps every request at maxRecords; a non-positive cap
// falls back to the default record count.
func NewProductSearchTool(catalog output.CatalogPort, maxRecords int, logger output.LoggerPort) *ProductSearchTool {
	if maxRecords <= 0 {
		maxRecords = DefaultRecordCount
	}
	return &ProductSearchTool{catalog: catalog, maxRecords: maxRecords, logger: logger}
}

func (t *ProductSearchTool) Definition() entity.ToolDefinition {
	return entity.ToolDefinition{
		Name: entity.ToolProductSearch,
		Description: "Searches the Digi-Key catalog for electronic components and other products by keyword. " +
			"Returns part numbers, descriptions, unit prices in USD, stock levels and links.",
		Parameters: []entity.ToolParameter{
			{
				Name:        "search_keyword",
				Type:        entity.ParamString,
				Description: "Key search terms extracted from the user's request, e.g. 'AC DC converter 12V'",
				Required:    true,
			},
			{
				Name:        "record_count",
				Type:        entity.ParamInteger,
				Description: fmt.Sprintf("Number of products to return (default %d, at most %d)", DefaultRecordCount, t.maxRecords),
			},
		},
	}
}

func (t *ProductSearchTool) Execute(ctx context.Context, arguments map[string]any) (string, error) {
	keyword, err := stringArg(arguments, "search_keyword")
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}
	count, err := intArg(arguments, "record_count", DefaultRecordCount, t.maxRecords)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}
	count = t.clamp(count)

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", entity.NewCapabilityFailure(entity.ToolProductSearch,
			"TOOL EXECUTION ERROR: An unexpected error occurred: search keyword is empty")
	}

	records, err := t.catalog.SearchProducts(ctx, keyword, count)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", t.failure(keyword, err)
	}

	if t.logger != nil {
		t.logger.Info("Product search completed", "keyword", keyword, "requested", count, "found", len(records))
	}

	payload := make([]productJSON, 0, len(records))
	for _, r := range records {
		payload = append(payload, toProductJSON(r))
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", entity.NewCapabilityFailure(entity.ToolProductSearch,
			"TOOL EXECUTION ERROR: An unexpected error occurred: %v", err)
	}
	return string(data), nil
}

func (t *ProductSearchTool) clamp(count int) int {
	if count < 1 {
		return DefaultRecordCount
	}
	if count > t.maxRecords {
		return t.maxRecords
	}
	return count
}

func (t *ProductSearchTool) failure(keyword string, err error) error {
	if t.logger != nil {
		t.logger.Warn("Product search failed", "keyword", keyword, "error", err)
	}

	var httpErr *output.CatalogHTTPError
	switch {
	case errors.Is(err, output.ErrCatalogAuthentication):
		return entity.NewCapabilityFailure(entity.ToolProductSearch,
			"Digi-Key API token is missing or expired. Cannot proceed.")
	case errors.As(err, &httpErr):
		return entity.NewCapabilityFailure(entity.ToolProductSearch,
			"API ERROR (%d): Could not retrieve results for '%s'. Details: %s", httpErr.StatusCode, keyword, httpErr.Body)
	default:
		return entity.NewCapabilityFailure(entity.ToolProductSearch,
			"TOOL EXECUTION ERROR: An unexpected error occurred: %v", err)
	}
}

// productJSON is the shape the model sees. Absent attributes are written
// as "N/A" rather than omitted.
type productJSON struct {
	PartNumber             string `json:"part_number"`
	ManufacturerPartNumber string `json:"manufacturer_part_number"`
	ProductDescription     string `json:"product_description"`
	DetailedDescription    string `json:"detailed_description"`
	Category               string `json:"category"`
	UnitPrice              any    `json:"unit_price"`
	QuantityAvailable      int    `json:"quantity_available"`
	Manufacturer           string `json:"manufacturer"`
	ProductURL             string `json:"product_url"`
	DatasheetURL           string `json:"datasheet_url"`
}

func toProductJSON(r entity.ProductRecord) productJSON {
	var price any = notAvailable
	if r.UnitPrice != nil {
		price = *r.UnitPrice
	}
	return productJSON{
		PartNumber:             orNA(r.PartNumber),
		ManufacturerPartNumber: orNA(r.ManufacturerPartNumber),
		ProductDescription:     orNA(r.Description),
		DetailedDescription:    orNA(r.DetailedDescription),
		Category:               orNA(r.Category),
		UnitPrice:              price,
		QuantityAvailable:      r.QuantityAvailable,
		Manufacturer:           orNA(r.Manufacturer),
		ProductURL:             orNA(r.ProductURL),
		DatasheetURL:           orNA(r.DatasheetURL),
	}
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return notAvailable
	}
	return *s
}
