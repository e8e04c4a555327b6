package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneakstore/internal/services"
)

type stubFacets struct {
	brands     []string
	categories []string
	err        error
}

func (f *stubFacets) Brands(ctx context.Context) ([]string, error) {
	return f.brands, f.err
}

func (f *stubFacets) Categories(ctx context.Context) ([]string, error) {
	return f.categories, f.err
}

func newSuggest(t *testing.T, facets services.FacetSource) *services.SuggestService {
	t.Helper()
	catalog := services.NewCatalogService(&stubSource{products: fixtureProducts()})
	return services.NewSuggestService(catalog, facets)
}

func TestSuggest_ResultsGroupedWithTotal(t *testing.T) {
	svc := newSuggest(t, &stubFacets{
		brands:     []string{"Nike", "Adidas", "Jordan", "Puma"},
		categories: []string{"Sneakers", "Basketball"},
	})

	res := svc.Results(context.Background(), "jordan")
	require.Len(t, res.Products, 1)
	assert.Equal(t, "jordan-4", res.Products[0].Slug)
	assert.Equal(t, []string{"Jordan"}, res.Brands)
	assert.Empty(t, res.Categories)
	assert.Equal(t, 2, res.Total)
}

func TestSuggest_BlankQueryIsEmpty(t *testing.T) {
	svc := newSuggest(t, &stubFacets{})

	res := svc.Results(context.Background(), "   ")
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Products)
}

func TestSuggest_FailedBranchDegrades(t *testing.T) {
	svc := newSuggest(t, &stubFacets{err: errors.New("facets down")})

	// Product branch still answers; brand and category branches are empty.
	res := svc.Results(context.Background(), "nike")
	require.Len(t, res.Products, 1)
	assert.Empty(t, res.Brands)
	assert.Empty(t, res.Categories)
	assert.Equal(t, 1, res.Total)
}

func TestSuggest_AssembleOrderAndQueryRow(t *testing.T) {
	svc := newSuggest(t, &stubFacets{
		brands:     []string{"Nike", "Adidas", "Jordan", "Puma"},
		categories: []string{"Sneakers", "Basketball"},
	})

	rows := svc.Assemble(context.Background(), "s")
	require.NotEmpty(t, rows)

	// Fixed priority: products, brands, categories, then the query row.
	last := ""
	for _, r := range rows {
		switch r.Type {
		case "product":
			assert.Empty(t, last, "products must come first")
		case "brand":
			assert.Contains(t, []string{"", "product"}, last)
		case "category":
			assert.Contains(t, []string{"", "product", "brand"}, last)
		}
		if r.Type != last {
			last = r.Type
		}
	}

	tail := rows[len(rows)-1]
	assert.Equal(t, "query", tail.Type)
	assert.Equal(t, "search-s", tail.ID)
	assert.Equal(t, "/catalog?search=s", tail.URL)
	assert.Equal(t, "Show all results", tail.Subtitle)
}

func TestSuggest_AssembleCapsDropdownRows(t *testing.T) {
	brands := []string{"Asics", "Saucony", "Vans", "Converse", "New Balance"}
	svc := newSuggest(t, &stubFacets{brands: brands})

	rows := svc.Assemble(context.Background(), "a")
	nBrands := 0
	for _, r := range rows {
		if r.Type == "brand" {
			nBrands++
		}
	}
	assert.LessOrEqual(t, nBrands, 2)
}

func TestSuggest_ProductRowShape(t *testing.T) {
	svc := newSuggest(t, &stubFacets{})

	rows := svc.Assemble(context.Background(), "jordan")
	require.GreaterOrEqual(t, len(rows), 2)
	assert.Equal(t, "product-jordan-4", rows[0].ID)
	assert.Equal(t, "/product/jordan-4", rows[0].URL)
	assert.Equal(t, "Jordan • 18 990 ₽", rows[0].Subtitle)
}

func TestFormatPrice(t *testing.T) {
	cases := map[int]string{
		0:       "0 ₽",
		990:     "990 ₽",
		4990:    "4 990 ₽",
		12990:   "12 990 ₽",
		1299000: "1 299 000 ₽",
	}
	for n, want := range cases {
		assert.Equal(t, want, services.FormatPrice(n), "n=%d", n)
	}
}
