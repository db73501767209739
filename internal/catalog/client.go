// Package catalog is a read-only client for the remote product catalog
// (fakestoreapi.com and API-compatible services).
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://fakestoreapi.com"

	relatedFetchLimit = 5
	relatedMax        = 4

	maxBodyBytes = 4 << 20
)

var ErrProductNotFound = errors.New("product not found")

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

var _ port.Catalog = (*Client)(nil)

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("url.Parse[%s]: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url[%s] must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(10 * time.Second)
	}

	return &Client{baseURL: u, http: httpClient}, nil
}

// NewHTTPClient returns a traced HTTP client with an overall request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type productDTO struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

func (p productDTO) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Price:       domain.NewMoney(p.Price),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      domain.Rating{Rate: p.Rating.Rate, Count: p.Rating.Count},
	}
}

// GetProduct returns ErrProductNotFound both for a 404 and for the empty 200
// response fakestoreapi sends for unknown ids.
func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	body, status, err := c.get(ctx, c.baseURL.JoinPath("products", strconv.FormatInt(id, 10)), 0)
	if err != nil {
		return domain.Product{}, err
	}
	if status == http.StatusNotFound {
		return domain.Product{}, ErrProductNotFound
	}
	if err := checkStatus(status); err != nil {
		return domain.Product{}, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.Product{}, ErrProductNotFound
	}

	var dto productDTO
	if err := json.Unmarshal(trimmed, &dto); err != nil {
		return domain.Product{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return dto.toDomain(), nil
}

// ListProducts lists the catalog; limit <= 0 means no limit.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	return c.list(ctx, c.baseURL.JoinPath("products"), limit)
}

func (c *Client) ListProductsByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error) {
	if category == "" {
		return nil, fmt.Errorf("category is empty")
	}
	return c.list(ctx, c.baseURL.JoinPath("products", "category", url.PathEscape(category)), limit)
}

// RelatedProducts returns up to four other products from the same category.
func RelatedProducts(ctx context.Context, catalog port.Catalog, product domain.Product) ([]domain.Product, error) {
	if product.Category == "" {
		return nil, nil
	}

	products, err := catalog.ListProductsByCategory(ctx, product.Category, relatedFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("catalog.ListProductsByCategory: %w", err)
	}

	related := make([]domain.Product, 0, relatedMax)
	for _, p := range products {
		if p.ID == product.ID {
			continue
		}
		related = append(related, p)
		if len(related) == relatedMax {
			break
		}
	}

	return related, nil
}

func (c *Client) list(ctx context.Context, u *url.URL, limit int) ([]domain.Product, error) {
	body, status, err := c.get(ctx, u, limit)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}

	var dtos []productDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, dto.toDomain())
	}

	return products, nil
}

func (c *Client) get(ctx context.Context, u *url.URL, limit int) ([]byte, int, error) {
	if limit > 0 {
		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("io.ReadAll: %w", err)
	}

	return body, resp.StatusCode, nil
}

func checkStatus(status int) error {
	if status < 200 || status > 299 {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}
