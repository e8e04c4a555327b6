package services

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"sneakstore/internal/domain"
	applog "sneakstore/internal/log"
)

// Full set is loaded once and filtered in memory; the page window is 20 wide.
const (
	catalogLoadLimit = 1000
	pageSize         = 20
)

// ProductSource yields the full formatted product list.
type ProductSource interface {
	Products(ctx context.Context, limit int) ([]domain.Product, error)
}

// CatalogService owns the in-memory product set and answers every filtered,
// sorted, paginated view of it. A failed load is remembered and surfaced as
// the list's error until a refresh succeeds.
type CatalogService struct {
	source ProductSource

	mu       sync.RWMutex
	products []domain.Product
	options  domain.FilterOptions
	loaded   bool
	loadErr  error
}

func NewCatalogService(source ProductSource) *CatalogService {
	return &CatalogService{source: source}
}

// CatalogPage is one visible window of the filtered catalog.
type CatalogPage struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	HasMore  bool             `json:"hasMore"`
}

func (s *CatalogService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded, loadErr := s.loaded, s.loadErr
	s.mu.RUnlock()
	if loaded {
		return loadErr
	}
	return s.Refresh(ctx)
}

// Refresh reloads the full product set and rederives the filter facets.
func (s *CatalogService) Refresh(ctx context.Context) error {
	products, err := s.source.Products(ctx, catalogLoadLimit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.loadErr = err
	if err != nil {
		applog.Error(nil, "catalog.load.fail", err, nil)
		s.products = nil
		s.options = domain.FilterOptions{}
		return err
	}
	s.products = products
	s.options = deriveOptions(products)
	applog.Info(nil, "catalog.load", map[string]any{"count": len(products)})
	return nil
}

// Options returns the facets derived from the loaded set.
func (s *CatalogService) Options(ctx context.Context) (domain.FilterOptions, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.FilterOptions{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options, nil
}

// All returns the loaded set in relevance (load) order.
func (s *CatalogService) All(ctx context.Context) ([]domain.Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// Query applies the active filters and sort order, then cuts the visible
// window: page N shows the first N*pageSize matches ("load more" semantics).
func (s *CatalogService) Query(ctx context.Context, f domain.ActiveFilters, sortBy string, page int) (CatalogPage, error) {
	all, err := s.All(ctx)
	if err != nil {
		return CatalogPage{}, err
	}
	if page < 1 {
		page = 1
	}

	filtered := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if matches(p, f) {
			filtered = append(filtered, p)
		}
	}
	sortProducts(filtered, sortBy)

	window := page * pageSize
	if window > len(filtered) {
		window = len(filtered)
	}
	return CatalogPage{
		Products: filtered[:window],
		Total:    len(filtered),
		Page:     page,
		HasMore:  len(filtered) > window,
	}, nil
}

// Filter returns every product matching the active filters, unpaginated,
// in load order.
func (s *CatalogService) Filter(ctx context.Context, f domain.ActiveFilters) ([]domain.Product, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range all {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Search returns every product matching the free-text query, in load order.
func (s *CatalogService) Search(ctx context.Context, q string) ([]domain.Product, error) {
	return s.Filter(ctx, domain.ActiveFilters{Search: q})
}

// Featured assembles a randomized mix for the landing page: a couple of
// premium picks, a few popular-brand picks, some mid-range and one budget
// item, topped up with random leftovers and shuffled.
func (s *CatalogService) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	shuffled := make([]domain.Product, len(all))
	copy(shuffled, all)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var expensive, mid, affordable, popular []domain.Product
	for _, p := range shuffled {
		switch {
		case p.Price > 10000:
			expensive = append(expensive, p)
		case p.Price >= 5000:
			mid = append(mid, p)
		default:
			affordable = append(affordable, p)
		}
		name := strings.ToLower(p.Name)
		if strings.Contains(name, "nike") || strings.Contains(name, "adidas") ||
			strings.Contains(name, "jordan") || strings.Contains(name, "puma") {
			popular = append(popular, p)
		}
	}

	picked := make([]domain.Product, 0, limit)
	seen := map[string]bool{}
	take := func(src []domain.Product, n int) {
		for _, p := range src {
			if n == 0 {
				return
			}
			if seen[p.Slug] {
				continue
			}
			seen[p.Slug] = true
			picked = append(picked, p)
			n--
		}
	}
	take(expensive, 2)
	take(popular, 3)
	take(mid, 2)
	take(affordable, 1)
	if len(picked) < limit {
		take(shuffled, limit-len(picked))
	}

	rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if len(picked) > limit {
		picked = picked[:limit]
	}
	return picked, nil
}

// matches is the single inclusion predicate: AND across filter groups, OR
// within a group.
func matches(p domain.Product, f domain.ActiveFilters) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	if len(f.Brands) > 0 && !containsString(f.Brands, p.Brand) {
		return false
	}
	if len(f.Categories) > 0 && (p.Category == "" || !containsString(f.Categories, p.Category)) {
		return false
	}
	if len(f.Genders) > 0 && !intersects(p.Genders, f.Genders) {
		return false
	}
	if len(f.Colors) > 0 && !intersects(p.Colors, f.Colors) {
		return false
	}
	if len(f.Sizes) > 0 && !intersectsInt(p.Sizes, f.Sizes) {
		return false
	}
	if f.PriceMin > 0 && p.Price < f.PriceMin {
		return false
	}
	if f.PriceMax > 0 && p.Price > f.PriceMax {
		return false
	}
	return true
}

// sortProducts orders in place; stable so ties keep their relative order.
func sortProducts(ps []domain.Product, sortBy string) {
	switch sortBy {
	case domain.SortPriceAsc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price < ps[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Price > ps[j].Price })
	case domain.SortName:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	case domain.SortRating:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Rating > ps[j].Rating })
	case domain.SortNew:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].IsNew && !ps[j].IsNew })
	default: // relevance: keep load order
	}
}

func deriveOptions(products []domain.Product) domain.FilterOptions {
	brands := map[string]bool{}
	categories := map[string]bool{}
	genders := map[string]bool{}
	colors := map[string]bool{}
	sizes := map[int]bool{}
	minPrice, maxPrice := 0, 0

	for i, p := range products {
		if p.Brand != "" {
			brands[p.Brand] = true
		}
		if p.Category != "" {
			categories[p.Category] = true
		}
		for _, g := range p.Genders {
			genders[g] = true
		}
		for _, c := range p.Colors {
			colors[c] = true
		}
		for _, s := range p.Sizes {
			sizes[s] = true
		}
		if i == 0 || p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}

	return domain.FilterOptions{
		Brands:     sortedKeys(brands),
		Categories: sortedKeys(categories),
		Genders:    sortedKeys(genders),
		Colors:     sortedKeys(colors),
		Sizes:      sortedInts(sizes),
		PriceRange: domain.PriceRange{Min: minPrice, Max: maxPrice},
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedInts(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func containsString(hay []string, needle string) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if containsString(b, x) {
			return true
		}
	}
	return false
}

func intersectsInt(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
