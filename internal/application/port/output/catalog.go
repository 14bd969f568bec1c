package output

import (
	"context"
	"errors"
	"fmt"

	"shopping-agent/internal/domain/entity"
)

// ErrCatalogAuthentication means the catalog could not obtain a valid
// access token.
var ErrCatalogAuthentication = errors.New("catalog authentication failed")

// CatalogHTTPError is a non-2xx answer from the catalog search endpoint.
type CatalogHTTPError struct {
	StatusCode int
	Body       string
}

func (e *CatalogHTTPError) Error() string {
	return fmt.Sprintf("catalog search returned %d: %s", e.StatusCode, e.Body)
}

type CatalogPort interface {
	SearchProducts(ctx context.Context, keyword string, limit int) ([]entity.ProductRecord, error)
}
