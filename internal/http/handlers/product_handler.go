package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sneakstore/internal/domain"
	applog "sneakstore/internal/log"
	"sneakstore/internal/services"
	"sneakstore/internal/upstream"
	"sneakstore/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Details DetailSource
}

// List serves the product list endpoint the storefront pages fetch from:
// optional featured mix, single-value filters and a hard result limit.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit := validate.Limit(c.Query("limit"), 25, 1000)

	if c.Query("featured") == "true" {
		products, err := h.Catalog.Featured(c.Context(), limit)
		if err != nil {
			applog.Error(c, "products.featured.fail", err, nil)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"products": products, "total": len(products), "page": 1, "limit": limit})
	}

	filters := domain.ActiveFilters{
		Brands:     csv(c.Query("brand")),
		Categories: csv(c.Query("category")),
		PriceMin:   atoi(c.Query("minPrice")),
		PriceMax:   atoi(c.Query("maxPrice")),
	}
	if q, ok := validate.Q(c.Query("q")); ok {
		filters.Search = q
	}

	var (
		products []domain.Product
		err      error
	)
	if filters.Empty() {
		products, err = h.Catalog.All(c.Context())
	} else {
		products, err = h.Catalog.Filter(c.Context(), filters)
	}
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	if len(products) > limit {
		products = products[:limit]
	}
	return c.JSON(fiber.Map{"products": products, "total": len(products), "page": 1, "limit": limit})
}

// Detail serves the full product page shape for one slug.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "slug"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	detail, err := h.Details.ProductDetail(c.Context(), slug)
	if errors.Is(err, upstream.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}
	if err != nil {
		applog.Error(c, "product.detail.fail", err, map[string]any{"slug": slug})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"product": detail})
}
