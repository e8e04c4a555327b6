package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"sneakstore/internal/domain"
	applog "sneakstore/internal/log"
)

// Caps per suggestion source: the dropdown shows a fixed mix, not the best
// N overall.
const (
	suggestProducts      = 4
	suggestBrands        = 2
	suggestCategories    = 2
	suggestMaxProducts   = 4
	suggestMaxBrands     = 3
	suggestMaxCategories = 3
)

// FacetSource yields the brand and category name lists to match against.
type FacetSource interface {
	Brands(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
}

// SuggestService answers one debounced query: product, brand and category
// matches fetched concurrently, each branch degrading to empty on failure.
type SuggestService struct {
	catalog *CatalogService
	facets  FacetSource
}

func NewSuggestService(catalog *CatalogService, facets FacetSource) *SuggestService {
	return &SuggestService{catalog: catalog, facets: facets}
}

// SuggestResults is the suggestions endpoint shape.
type SuggestResults struct {
	Products   []domain.Product `json:"products"`
	Brands     []string         `json:"brands"`
	Categories []string         `json:"categories"`
	Total      int              `json:"total"`
}

// Results fans out to all three sources concurrently. A failed branch is
// logged and contributes nothing; the result never errors as a whole.
func (s *SuggestService) Results(ctx context.Context, query string) SuggestResults {
	res := SuggestResults{Products: []domain.Product{}, Brands: []string{}, Categories: []string{}}
	query = strings.TrimSpace(query)
	if query == "" {
		return res
	}
	q := strings.ToLower(query)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		products, err := s.catalog.Search(ctx, query)
		if err != nil {
			applog.Warn(nil, "suggest.products.fail", err, nil)
			return
		}
		if len(products) > suggestMaxProducts {
			products = products[:suggestMaxProducts]
		}
		res.Products = products
	}()

	go func() {
		defer wg.Done()
		brands, err := s.facets.Brands(ctx)
		if err != nil {
			applog.Warn(nil, "suggest.brands.fail", err, nil)
			return
		}
		for _, b := range brands {
			if strings.Contains(strings.ToLower(b), q) {
				res.Brands = append(res.Brands, b)
				if len(res.Brands) == suggestMaxBrands {
					break
				}
			}
		}
	}()

	go func() {
		defer wg.Done()
		categories, err := s.facets.Categories(ctx)
		if err != nil {
			applog.Warn(nil, "suggest.categories.fail", err, nil)
			return
		}
		for _, c := range categories {
			if strings.Contains(strings.ToLower(c), q) {
				res.Categories = append(res.Categories, c)
				if len(res.Categories) == suggestMaxCategories {
					break
				}
			}
		}
	}()

	wg.Wait()
	res.Total = len(res.Products) + len(res.Brands) + len(res.Categories)
	return res
}

// Assemble builds the navigable dropdown rows in fixed priority order:
// products, brands, categories, then one synthetic "show all results" row.
func (s *SuggestService) Assemble(ctx context.Context, query string) []domain.Suggestion {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	res := s.Results(ctx, query)

	out := make([]domain.Suggestion, 0, suggestProducts+suggestBrands+suggestCategories+1)
	for i, p := range res.Products {
		if i == suggestProducts {
			break
		}
		out = append(out, domain.Suggestion{
			ID:       "product-" + p.Slug,
			Type:     "product",
			Title:    p.Name,
			Subtitle: fmt.Sprintf("%s • %s", p.Brand, FormatPrice(p.Price)),
			ImageURL: p.ImageURL,
			URL:      "/product/" + p.Slug,
		})
	}
	for i, b := range res.Brands {
		if i == suggestBrands {
			break
		}
		out = append(out, domain.Suggestion{
			ID:       "brand-" + b,
			Type:     "brand",
			Title:    b,
			Subtitle: "Brand",
			URL:      "/catalog?brand=" + url.QueryEscape(b),
		})
	}
	for i, c := range res.Categories {
		if i == suggestCategories {
			break
		}
		out = append(out, domain.Suggestion{
			ID:       "category-" + c,
			Type:     "category",
			Title:    c,
			Subtitle: "Category",
			URL:      "/catalog?category=" + url.QueryEscape(c),
		})
	}
	out = append(out, domain.Suggestion{
		ID:       "search-" + query,
		Type:     "query",
		Title:    fmt.Sprintf("Search %q", query),
		Subtitle: "Show all results",
		URL:      "/catalog?search=" + url.QueryEscape(query),
	})
	return out
}

// FormatPrice renders whole rubles with thousands grouping: 12990 → "12 990 ₽".
func FormatPrice(n int) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits + " ₽"
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String() + " ₽"
}
