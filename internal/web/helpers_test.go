package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/web"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
}

func (c *fakeCatalog) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *fakeCatalog) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return domain.Product{}, c.err
	}
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, catalog.ErrProductNotFound
}

func (c *fakeCatalog) ListProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	return c.list("", limit)
}

func (c *fakeCatalog) ListProductsByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error) {
	return c.list(category, limit)
}

func (c *fakeCatalog) list(category string, limit int) ([]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}

	var out []domain.Product
	for _, p := range c.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

var errStorageDown = errors.New("storage is down")

// unreadableStorage accepts writes but fails every read.
type unreadableStorage struct {
	port.Storage
}

func (unreadableStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	return nil, errStorageDown
}

type recordingPublisher struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (p *recordingPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, order)
	return nil
}

func (p *recordingPublisher) placed() []domain.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Order(nil), p.orders...)
}

func testProduct(id int64, title, price, category string, rate float64) domain.Product {
	return domain.Product{
		ID:          id,
		Title:       title,
		Price:       domain.NewMoney(decimal.RequireFromString(price)),
		Description: title + " description",
		Category:    category,
		Image:       "https://img.example/" + title + ".png",
		Rating:      domain.Rating{Rate: rate, Count: 100},
	}
}

func testProducts() []domain.Product {
	return []domain.Product{
		testProduct(1, "Backpack", "109.95", "clothing", 3.9),
		testProduct(2, "Slim Shirt", "22.30", "clothing", 4.1),
		testProduct(3, "Cotton Jacket", "55.99", "clothing", 4.7),
		testProduct(4, "Gold Ring", "9.99", "jewelery", 3.0),
		testProduct(5, "Hard Drive", "64.00", "electronics", 3.3),
	}
}

type testEnv struct {
	url       string
	catalog   *fakeCatalog
	publisher *recordingPublisher
	carts     *cart.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	return newTestEnvWithStorage(t, repository.NewMemory())
}

func newTestEnvWithStorage(t *testing.T, storage port.Storage) *testEnv {
	t.Helper()

	env := &testEnv{
		catalog:   &fakeCatalog{products: testProducts()},
		publisher: &recordingPublisher{},
		carts:     cart.NewRegistry(storage, 100),
	}

	router, err := web.NewRouter(web.Deps{
		Catalog:  env.catalog,
		Carts:    env.carts,
		Checkout: checkout.NewService(env.publisher, nil),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	env.url = srv.URL

	return env
}

// newClient returns a browser-like client: it keeps cookies and follows
// redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{Jar: jar}
	t.Cleanup(client.CloseIdleConnections)

	return client
}

type page struct {
	status int
	body   string
	url    *url.URL
	resp   *http.Response
}

func readPage(t *testing.T, resp *http.Response) page {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return page{status: resp.StatusCode, body: string(body), url: resp.Request.URL, resp: resp}
}

func (e *testEnv) get(t *testing.T, client *http.Client, path string) page {
	t.Helper()

	resp, err := client.Get(e.url + path)
	require.NoError(t, err)

	return readPage(t, resp)
}

func (e *testEnv) post(t *testing.T, client *http.Client, path string, form url.Values) page {
	t.Helper()

	resp, err := client.PostForm(e.url+path, form)
	require.NoError(t, err)

	return readPage(t, resp)
}

func (e *testEnv) addToCart(t *testing.T, client *http.Client, productID string) {
	t.Helper()

	p := e.post(t, client, "/cart/items", url.Values{"product_id": {productID}})
	require.Equal(t, http.StatusOK, p.status)
}

type apiCartItem struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Price     json.Number `json:"price"`
	Quantity  int         `json:"quantity"`
	LineTotal json.Number `json:"lineTotal"`
}

type apiCart struct {
	Items     []apiCartItem `json:"items"`
	Total     json.Number   `json:"total"`
	Currency  string        `json:"currency"`
	ItemCount int           `json:"itemCount"`
}

func (e *testEnv) apiCart(t *testing.T, client *http.Client) apiCart {
	t.Helper()

	p := e.get(t, client, "/api/cart")
	require.Equal(t, http.StatusOK, p.status)
	require.Equal(t, "application/json", p.resp.Header.Get("Content-Type"))

	var out apiCart
	require.NoError(t, json.NewDecoder(strings.NewReader(p.body)).Decode(&out))

	return out
}
