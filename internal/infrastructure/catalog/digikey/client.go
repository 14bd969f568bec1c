package digikey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"shopping-agent/internal/application/port/output"
	"shopping-agent/internal/domain/entity"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var _ output.CatalogPort = (*Client)(nil)

const (
	keywordSearchPath = "/products/v4/search/keyword"
	defaultTimeout    = 30 * time.Second
	maxErrorBody      = 2000
)

var ErrAuthentication = output.ErrCatalogAuthentication

type HTTPError = output.CatalogHTTPError

type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	// Currency requested for prices, sent as X-DIGIKEY-Locale-Currency.
	Currency   string
	HTTPClient *http.Client
	Logger     output.LoggerPort
}

func DefaultConfig(clientID, clientSecret string) Config {
	return Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      "https://api.digikey.com",
		TokenURL:     "https://api.digikey.com/v1/oauth2/token",
		Currency:     "USD",
	}
}

type Client struct {
	cfg    Config
	http   *http.Client
	creds  *clientcredentials.Config
	logger output.LoggerPort

	mu     sync.Mutex
	cached *oauth2.Token
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		cfg:  cfg,
		http: httpClient,
		creds: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		logger: cfg.Logger,
	}
}

type keywordSearchRequest struct {
	Keywords string `json:"Keywords"`
	Limit    int    `json:"Limit"`
	Offset   int    `json:"Offset"`
}

func (c *Client) SearchProducts(ctx context.Context, keyword string, limit int) ([]entity.ProductRecord, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(keywordSearchRequest{Keywords: keyword, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + keywordSearchPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-DIGIKEY-Client-Id", c.cfg.ClientID)
	if c.cfg.Currency != "" {
		req.Header.Set("X-DIGIKEY-Locale-Currency", c.cfg.Currency)
	}
	token.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}

	var parsed keywordSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	records := make([]entity.ProductRecord, 0, len(parsed.Products))
	for _, p := range parsed.Products {
		records = append(records, normalize(p))
	}

	if c.logger != nil {
		c.logger.Info("Retrieved products", "keyword", keyword, "count", len(records), "total", parsed.ProductsCount)
	}

	return records, nil
}

// token returns the cached access token or fetches a new one with the
// caller's context, so a canceled request does not wait on the token endpoint.
func (c *Client) token(ctx context.Context) (*oauth2.Token, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client credentials are not configured", ErrAuthentication)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached.Valid() {
		return c.cached, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := c.creds.Token(context.WithValue(ctx, oauth2.HTTPClient, c.http))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.logger != nil {
			c.logger.Error("Token acquisition failed", "error", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	if !token.Valid() {
		return nil, fmt.Errorf("%w: token is missing or expired", ErrAuthentication)
	}
	c.cached = token
	return token, nil
}
