package transport_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodel "storefront/pkg/catalog/domain/model"
	catalogservice "storefront/pkg/catalog/domain/service"
	"storefront/pkg/catalog/infrastructure/staticrepo"
	cartmemory "storefront/pkg/cart/infrastructure/memory"
	"storefront/pkg/common/domain"
	"storefront/pkg/common/notify"
	"storefront/pkg/pricing"
	"storefront/pkg/quotation/infrastructure/pdf"
	"storefront/pkg/transport"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func fixtureProducts() []catalogmodel.Product {
	return []catalogmodel.Product{
		{
			ID: 1, Name: "Ceramic Mug", SKU: "MUG-001", Category: "drinkware", Supplier: "promo-chile",
			BasePrice: dec(1000), Stock: 100, Status: catalogmodel.Active,
			Colors: []string{"red", "blue"},
			PriceBreaks: []pricing.PriceBreak{
				{MinQty: 10, Price: dec(900), Discount: decPtr(10)},
				{MinQty: 50, Price: dec(800), Discount: decPtr(20)},
			},
		},
		{
			ID: 2, Name: "Bamboo Pen", SKU: "PEN-002", Category: "office", Supplier: "eco-andes",
			BasePrice: dec(950), Stock: 0, Status: catalogmodel.Active,
		},
		{
			ID: 3, Name: "Notebook A5", SKU: "NTB-003", Category: "office", Supplier: "promo-chile",
			BasePrice: dec(2400), Stock: 5, Status: catalogmodel.Active,
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *recordingNotifier) {
	t.Helper()
	repo, err := staticrepo.New(fixtureProducts(), 0)
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	server := transport.NewServer(
		catalogservice.NewCatalogService(repo),
		cartmemory.New(),
		&nopDispatcher{},
		notifier,
		pdf.New(),
	)
	return server.Router(), notifier
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListProductsWithFilters(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/products?category=office&sort=price", "")
	require.Equal(t, http.StatusOK, w.Code)

	var products []catalogmodel.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, 2, products[0].ID)
	assert.Equal(t, 3, products[1].ID)
}

func TestGetProductNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodGet, "/api/v1/products/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPriceEndpointMatchesResolver(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/api/v1/products/1/price?quantity=50", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Quantity        int             `json:"quantity"`
		UnitPrice       decimal.Decimal `json:"unitPrice"`
		DiscountPercent decimal.Decimal `json:"discountPercent"`
		Total           decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.Quantity)
	assert.True(t, resp.UnitPrice.Equal(dec(800)))
	assert.True(t, resp.DiscountPercent.Equal(dec(20)))
	assert.True(t, resp.Total.Equal(dec(40000)))
}

func TestAddLineMergesAcrossRequests(t *testing.T) {
	router, notifier := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/carts/abc/lines", `{"productId":1,"quantity":7,"color":"red"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodPost, "/api/v1/carts/abc/lines", `{"productId":1,"quantity":5,"color":"red"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/carts/abc", "")
	require.Equal(t, http.StatusOK, w.Code)

	var cart struct {
		Lines []struct {
			ID        int             `json:"id"`
			Quantity  int             `json:"quantity"`
			UnitPrice decimal.Decimal `json:"unitPrice"`
			Color     string          `json:"color"`
		} `json:"lines"`
		TotalItems int             `json:"totalItems"`
		TotalPrice decimal.Decimal `json:"totalPrice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 12, cart.Lines[0].Quantity)
	assert.True(t, cart.Lines[0].UnitPrice.Equal(dec(900)), "merged quantity crossed the first break")
	assert.Equal(t, 12, cart.TotalItems)
	assert.True(t, cart.TotalPrice.Equal(dec(10800)))

	assert.Contains(t, notifier.messages, "product added to cart")
}

func TestAddLineRejectsOutOfStockProduct(t *testing.T) {
	router, notifier := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/carts/abc/lines", `{"productId":2,"quantity":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, notifier.messages, "product is out of stock")
}

func TestAddLineEnforcesStockCeiling(t *testing.T) {
	router, notifier := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/carts/abc/lines", `{"productId":3,"quantity":4}`)
	require.Equal(t, http.StatusOK, w.Code)

	// 4 already in the cart, 2 more would exceed stock of 5
	w = do(t, router, http.MethodPost, "/api/v1/carts/abc/lines", `{"productId":3,"quantity":2}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, notifier.messages, "requested quantity exceeds available stock")

	w = do(t, router, http.MethodPost, "/api/v1/carts/abc/lines", `{"productId":3,"quantity":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRemoveLineAndClear(t *testing.T) {
	router, _ := newTestRouter(t)

	do(t, router, http.MethodPost, "/api/v1/carts/abc/lines", `{"productId":1,"quantity":1,"color":"red"}`)
	do(t, router, http.MethodPost, "/api/v1/carts/abc/lines", `{"productId":1,"quantity":1,"color":"blue"}`)

	w := do(t, router, http.MethodDelete, "/api/v1/carts/abc/lines/1?color=red", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/carts/abc", "")
	var cart struct {
		Lines []struct {
			Color string `json:"color"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "blue", cart.Lines[0].Color)

	w = do(t, router, http.MethodDelete, "/api/v1/carts/abc", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, "/api/v1/carts/abc", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Empty(t, cart.Lines)
}

func TestCreateCartMintsKey(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/v1/carts", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["cartId"])
}

func TestExportQuotation(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{
		"company": {"name": "ACME", "rut": "76.543.210-K", "email": "buy@acme.cl", "phone": "+56 9 1234 5678"},
		"items": [{"productId": 1, "quantity": 10}, {"productId": 3, "quantity": 2}]
	}`
	w := do(t, router, http.MethodPost, "/api/v1/quotations/export", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string, _ notify.Severity) {
	n.messages = append(n.messages, message)
}

type nopDispatcher struct{}

func (d *nopDispatcher) Dispatch(domain.Event) error { return nil }

var (
	_ notify.Notifier        = (*recordingNotifier)(nil)
	_ domain.EventDispatcher = (*nopDispatcher)(nil)
)
