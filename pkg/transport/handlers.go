package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	catalogmodel "storefront/pkg/catalog/domain/model"
	catalogservice "storefront/pkg/catalog/domain/service"
	cartmodel "storefront/pkg/cart/domain/model"
	cartservice "storefront/pkg/cart/domain/service"
	"storefront/pkg/common/notify"
	"storefront/pkg/pricing"
	quotationmodel "storefront/pkg/quotation/domain/model"
	quotationservice "storefront/pkg/quotation/domain/service"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := catalogservice.Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Supplier: r.URL.Query().Get("supplier"),
		SortBy:   catalogservice.SortKey(r.URL.Query().Get("sort")),
	}
	if pr, ok := priceRangeFromQuery(r); ok {
		filter.PriceRange = pr
	}

	products, err := s.catalog.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func priceRangeFromQuery(r *http.Request) (*catalogservice.PriceRange, bool) {
	minStr := r.URL.Query().Get("min")
	maxStr := r.URL.Query().Get("max")
	if minStr == "" || maxStr == "" {
		return nil, false
	}
	min, errMin := decimal.NewFromString(minStr)
	max, errMax := decimal.NewFromString(maxStr)
	if errMin != nil || errMax != nil || min.GreaterThan(max) {
		return nil, false
	}
	return &catalogservice.PriceRange{Min: min, Max: max}, true
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := s.findProduct(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type priceResponse struct {
	Quantity        int              `json:"quantity"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
	Total           decimal.Decimal  `json:"total"`
}

func (s *Server) priceProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := s.findProduct(w, r)
	if !ok {
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		http.Error(w, "invalid quantity", http.StatusBadRequest)
		return
	}

	quote := pricing.Resolve(product.BasePrice, product.PriceBreaks, quantity)
	if quantity < 0 {
		quantity = 0
	}
	writeJSON(w, http.StatusOK, priceResponse{
		Quantity:        quantity,
		UnitPrice:       quote.UnitPrice,
		Discount:        quote.Discount,
		DiscountPercent: pricing.DiscountPercent(product.BasePrice, quote.UnitPrice),
		Total:           quote.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	})
}

func (s *Server) getFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := s.catalog.Facets(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, facets)
}

func (s *Server) createCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"cartId": uuid.NewString()})
}

type cartResponse struct {
	Lines      []cartmodel.Line `json:"lines"`
	TotalItems int              `json:"totalItems"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := s.openCart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{
		Lines:      cart.Lines(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	})
}

type addLineRequest struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

func (s *Server) addLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	product, err := s.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		s.respondCatalogError(w, err)
		return
	}
	if !product.Purchasable() {
		s.notifier.Notify("product is out of stock", notify.Error)
		http.Error(w, catalogmodel.ErrInsufficientStock.Error(), http.StatusConflict)
		return
	}

	cart, ok := s.openCart(w, r)
	if !ok {
		return
	}

	// Stock ceiling is this boundary's check: the cart store never rejects.
	key := cartmodel.LineKey{ProductID: product.ID, Color: req.Color, Size: req.Size}
	if cart.Quantity(key)+req.Quantity > product.Stock {
		s.notifier.Notify("requested quantity exceeds available stock", notify.Error)
		http.Error(w, catalogmodel.ErrInsufficientStock.Error(), http.StatusConflict)
		return
	}

	line, err := cart.AddLine(r.Context(), cartmodel.Line{
		ProductID:   product.ID,
		Name:        product.Name,
		BasePrice:   product.BasePrice,
		Quantity:    req.Quantity,
		PriceBreaks: product.PriceBreaks,
		Color:       req.Color,
		Size:        req.Size,
	})
	if err != nil {
		log.WithField("err", err).Error("failed to persist cart")
		http.Error(w, "failed to persist cart", http.StatusInternalServerError)
		return
	}

	s.notifier.Notify("product added to cart", notify.Success)
	writeJSON(w, http.StatusOK, line)
}

func (s *Server) removeLine(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	cart, ok := s.openCart(w, r)
	if !ok {
		return
	}
	if err := cart.RemoveLine(r.Context(), productID, r.URL.Query().Get("color"), r.URL.Query().Get("size")); err != nil {
		http.Error(w, "failed to persist cart", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	cart, ok := s.openCart(w, r)
	if !ok {
		return
	}
	if err := cart.Clear(r.Context()); err != nil {
		http.Error(w, "failed to persist cart", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type exportRequest struct {
	Company quotationmodel.Company `json:"company"`
	Items   []exportItem           `json:"items"`
}

type exportItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (s *Server) exportQuotation(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sheet := quotationservice.NewSheet()
	for _, item := range req.Items {
		product, err := s.catalog.Get(r.Context(), item.ProductID)
		if err != nil {
			s.respondCatalogError(w, err)
			return
		}
		selector := quotationservice.NewSelector(*product)
		if line, emitted := selector.Input(strconv.Itoa(item.Quantity)); emitted {
			sheet.Apply(line)
		}
	}

	raw, err := s.exporter.Render(sheet.Build(req.Company))
	if err != nil {
		log.WithField("err", err).Error("failed to render quotation")
		http.Error(w, "failed to render quotation", http.StatusInternalServerError)
		return
	}

	s.notifier.Notify("quotation exported", notify.Success)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="quotation.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) findProduct(w http.ResponseWriter, r *http.Request) (*catalogmodel.Product, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return nil, false
	}
	product, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.respondCatalogError(w, err)
		return nil, false
	}
	return product, true
}

func (s *Server) openCart(w http.ResponseWriter, r *http.Request) (cartservice.CartService, bool) {
	key := mux.Vars(r)["cartID"]
	cart, err := cartservice.OpenCart(r.Context(), s.carts, key, s.dispatcher)
	if err != nil {
		log.WithFields(log.Fields{"cart": key, "err": err}).Error("failed to open cart")
		http.Error(w, "failed to open cart", http.StatusInternalServerError)
		return nil, false
	}
	return cart, true
}

func (s *Server) respondCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalogmodel.ErrProductNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithField("err", err).Error("write response")
	}
}
