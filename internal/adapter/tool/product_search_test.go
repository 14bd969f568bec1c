package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	records []entity.ProductRecord
	err     error

	keyword string
	limit   int
	calls   int
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, keyword string, limit int) ([]entity.ProductRecord, error) {
	f.calls++
	f.keyword = keyword
	f.limit = limit
	return f.records, f.err
}

func ptr[T any](v T) *T { return &v }

func TestProductSearch_SerializesRecords(t *testing.T) {
	catalog := &fakeCatalog{records: []entity.ProductRecord{
		{
			PartNumber:             ptr("296-1234-ND"),
			ManufacturerPartNumber: ptr("LM7805CT"),
			Description:            ptr("IC REG LINEAR 5V 1.5A"),
			Category:               ptr("Voltage Regulators"),
			UnitPrice:              ptr(0.92),
			QuantityAvailable:      1500,
			Manufacturer:           ptr("Texas Instruments"),
		},
		{},
	}}
	tool := NewProductSearchTool(catalog, 10, nil)

	out, err := tool.Execute(context.Background(), map[string]any{"search_keyword": " LM7805 "})
	require.NoError(t, err)

	assert.Equal(t, "LM7805", catalog.keyword)
	assert.Equal(t, DefaultRecordCount, catalog.limit)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "296-1234-ND", decoded[0]["part_number"])
	assert.Equal(t, 0.92, decoded[0]["unit_price"])
	assert.Equal(t, float64(1500), decoded[0]["quantity_available"])
	assert.Equal(t, "N/A", decoded[0]["datasheet_url"])

	for _, key := range []string{"part_number", "manufacturer_part_number", "product_description",
		"detailed_description", "category", "unit_price", "manufacturer", "product_url", "datasheet_url"} {
		assert.Equal(t, "N/A", decoded[1][key], key)
	}
	assert.Equal(t, float64(0), decoded[1]["quantity_available"])
}

func TestProductSearch_EmptyResult(t *testing.T) {
	tool := NewProductSearchTool(&fakeCatalog{}, 10, nil)

	out, err := tool.Execute(context.Background(), map[string]any{"search_keyword": "unobtainium"})

	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestProductSearch_RecordCount(t *testing.T) {
	tests := []struct {
		name  string
		count any
		want  int
	}{
		{"explicit", float64(3), 3},
		{"int from sdk", 7, 7},
		{"capped", float64(40), 10},
		{"huge is capped", float64(1e19), 10},
		{"huge int64 is capped", int64(1) << 62, 10},
		{"zero falls back", float64(0), DefaultRecordCount},
		{"negative falls back", -2, DefaultRecordCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{}
			tool := NewProductSearchTool(catalog, 10, nil)

			_, err := tool.Execute(context.Background(), map[string]any{"search_keyword": "LED", "record_count": tt.count})

			require.NoError(t, err)
			assert.Equal(t, tt.want, catalog.limit)
		})
	}
}

func TestProductSearch_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "token",
			err:  fmt.Errorf("%w: token is missing or expired", output.ErrCatalogAuthentication),
			want: "Digi-Key API token is missing or expired. Cannot proceed.",
		},
		{
			name: "http",
			err:  &output.CatalogHTTPError{StatusCode: 503, Body: "maintenance"},
			want: "API ERROR (503): Could not retrieve results for 'LED'. Details: maintenance",
		},
		{
			name: "other",
			err:  errors.New("dial tcp: connection refused"),
			want: "TOOL EXECUTION ERROR: An unexpected error occurred: dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewProductSearchTool(&fakeCatalog{err: tt.err}, 10, nil)

			_, err := tool.Execute(context.Background(), map[string]any{"search_keyword": "LED"})

			var failure *entity.CapabilityFailure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, entity.ToolProductSearch, failure.Tool)
			assert.Equal(t, tt.want, failure.Error())
		})
	}
}

func TestProductSearch_EmptyKeywordIsRecoverable(t *testing.T) {
	catalog := &fakeCatalog{}
	tool := NewProductSearchTool(catalog, 10, nil)

	_, err := tool.Execute(context.Background(), map[string]any{"search_keyword": "   "})

	var failure *entity.CapabilityFailure
	assert.True(t, errors.As(err, &failure))
	assert.Zero(t, catalog.calls)
}

func TestProductSearch_BadArguments(t *testing.T) {
	tool := NewProductSearchTool(&fakeCatalog{}, 10, nil)

	_, err := tool.Execute(context.Background(), map[string]any{"record_count": 2})
	assert.True(t, errors.Is(err, entity.ErrInvalidArguments))

	_, err = tool.Execute(context.Background(), map[string]any{"search_keyword": "LED", "record_count": 2.5})
	assert.True(t, errors.Is(err, entity.ErrInvalidArguments))
}

func TestProductSearch_CanceledContextIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tool := NewProductSearchTool(&fakeCatalog{err: context.Canceled}, 10, nil)

	_, err := tool.Execute(ctx, map[string]any{"search_keyword": "LED"})

	var failure *entity.CapabilityFailure
	assert.False(t, errors.As(err, &failure))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProductSearch_Definition(t *testing.T) {
	def := NewProductSearchTool(&fakeCatalog{}, 0, nil).Definition()

	assert.Equal(t, entity.ToolProductSearch, def.Name)
	assert.Equal(t, []string{"search_keyword"}, def.RequiredParameters())
	require.Len(t, def.Parameters, 2)
	assert.Equal(t, entity.ParamInteger, def.Parameters[1].Type)
}
