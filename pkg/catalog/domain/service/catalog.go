package service

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/pkg/catalog/domain/model"
)

type SortKey string

const (
	SortByName  SortKey = "name"
	SortByPrice SortKey = "price"
	SortByStock SortKey = "stock"
)

type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Filter combines every listing criterion. Zero values pass everything:
// category "all" or "", empty search, empty supplier, nil price range.
type Filter struct {
	Category   string
	Search     string
	Supplier   string
	PriceRange *PriceRange
	SortBy     SortKey
}

type CatalogService interface {
	List(ctx context.Context, filter Filter) ([]model.Product, error)
	Get(ctx context.Context, id int) (*model.Product, error)
	Facets(ctx context.Context) (model.Facets, error)
}

func NewCatalogService(repo model.ProductRepository) CatalogService {
	return &catalogService{repo: repo}
}

type catalogService struct {
	repo model.ProductRepository
}

func (s *catalogService) List(ctx context.Context, filter Filter) ([]model.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if matches(p, filter) {
			filtered = append(filtered, p)
		}
	}

	sortProducts(filtered, filter.SortBy)
	return filtered, nil
}

func (s *catalogService) Get(ctx context.Context, id int) (*model.Product, error) {
	return s.repo.Find(ctx, id)
}

func (s *catalogService) Facets(ctx context.Context) (model.Facets, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return model.Facets{}, err
	}

	categories := make(map[string]int)
	suppliers := make(map[string]int)
	for _, p := range products {
		categories[p.Category]++
		suppliers[p.Supplier]++
	}

	facets := model.Facets{
		Categories: make([]model.CategoryFacet, 0, len(categories)),
		Suppliers:  make([]model.SupplierFacet, 0, len(suppliers)),
	}
	for category, count := range categories {
		facets.Categories = append(facets.Categories, model.CategoryFacet{Category: category, Count: count})
	}
	for supplier, count := range suppliers {
		facets.Suppliers = append(facets.Suppliers, model.SupplierFacet{Supplier: supplier, Products: count})
	}
	sort.Slice(facets.Categories, func(i, j int) bool {
		return facets.Categories[i].Category < facets.Categories[j].Category
	})
	sort.Slice(facets.Suppliers, func(i, j int) bool {
		return facets.Suppliers[i].Supplier < facets.Suppliers[j].Supplier
	})
	return facets, nil
}

func matches(p model.Product, filter Filter) bool {
	if filter.Category != "" && filter.Category != "all" && p.Category != filter.Category {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			return false
		}
	}
	if filter.Supplier != "" && p.Supplier != filter.Supplier {
		return false
	}
	if filter.PriceRange != nil {
		if p.BasePrice.LessThan(filter.PriceRange.Min) || p.BasePrice.GreaterThan(filter.PriceRange.Max) {
			return false
		}
	}
	return true
}

func sortProducts(products []model.Product, key SortKey) {
	switch key {
	case SortByPrice:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].BasePrice.LessThan(products[j].BasePrice)
		})
	case SortByStock:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Stock > products[j].Stock
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	}
}
