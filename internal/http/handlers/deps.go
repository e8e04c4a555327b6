package handlers

import (
	"context"

	"sneakstore/internal/domain"
	"sneakstore/internal/services"
	"sneakstore/internal/storage"
)

// DetailSource resolves the product-page shape for one slug.
type DetailSource interface {
	ProductDetail(ctx context.Context, slug string) (domain.ProductDetail, error)
}

type Deps struct {
	CatalogHandler   *CatalogHandler
	ProductHandler   *ProductHandler
	CartHandler      *CartHandler
	FavoritesHandler *FavoritesHandler
	SearchHandler    *SearchHandler
}

func NewDeps(store storage.Store, source services.ProductSource, facets services.FacetSource, details DetailSource) *Deps {
	catalogSvc := services.NewCatalogService(source)
	cartSvc := services.NewCartService(store)
	favSvc := services.NewFavoritesService(store)
	histSvc := services.NewHistoryService(store)
	suggestSvc := services.NewSuggestService(catalogSvc, facets)

	return &Deps{
		CatalogHandler:   &CatalogHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Details: details},
		CartHandler:      &CartHandler{Cart: cartSvc},
		FavoritesHandler: &FavoritesHandler{Favorites: favSvc},
		SearchHandler:    &SearchHandler{Suggest: suggestSvc, History: histSvc},
	}
}
