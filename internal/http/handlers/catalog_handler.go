package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sneakstore/internal/domain"
	applog "sneakstore/internal/log"
	"sneakstore/internal/services"
	"sneakstore/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// Query serves the filtered, sorted, paginated catalog window. The filter
// state lives entirely in the query string so navigation reconstructs it.
func (h *CatalogHandler) Query(c *fiber.Ctx) error {
	filters := filtersFromQuery(c)
	sortBy := validate.Sort(c.Query("sort"))
	page := validate.Page(c.Query("page"))

	pageRes, err := h.Catalog.Query(c.Context(), filters, sortBy, page)
	if err != nil {
		applog.Error(c, "catalog.query.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(pageRes)
}

// Filters serves the facet options derived from the loaded product set.
func (h *CatalogHandler) Filters(c *fiber.Ctx) error {
	opts, err := h.Catalog.Options(c.Context())
	if err != nil {
		applog.Error(c, "catalog.filters.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(opts)
}

// filtersFromQuery rebuilds the active-filter state from URL parameters.
// Multi-value groups accept comma-separated lists (brands=Nike,Puma).
func filtersFromQuery(c *fiber.Ctx) domain.ActiveFilters {
	f := domain.ActiveFilters{
		Brands:     csv(c.Query("brands"), c.Query("brand")),
		Categories: csv(c.Query("categories"), c.Query("category")),
		Genders:    csv(c.Query("genders")),
		Colors:     csv(c.Query("colors")),
		PriceMin:   atoi(c.Query("priceMin")),
		PriceMax:   atoi(c.Query("priceMax")),
	}
	if q, ok := validate.Q(c.Query("search")); ok {
		f.Search = q
	}
	for _, s := range csv(c.Query("sizes")) {
		if n, err := strconv.Atoi(s); err == nil && validate.Size(n) {
			f.Sizes = append(f.Sizes, n)
		}
	}
	return f
}

func csv(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
