package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sneakstore/internal/log"
	"sneakstore/internal/services"
	"sneakstore/internal/validate"
)

type FavoritesHandler struct {
	Favorites *services.FavoritesService
}

func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Favorites.List(c.Context(), sid)
	if err != nil {
		applog.Error(c, "favorites.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not load favorites"})
	}
	return c.JSON(fiber.Map{"favorites": items, "count": len(items)})
}

type toggleReq struct {
	ProductSlug string `json:"productSlug"`
}

// Toggle flips a product in or out of the favorites set.
func (h *FavoritesHandler) Toggle(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req toggleReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	slug, ok := validate.Slug(req.ProductSlug)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid productSlug"})
	}
	favorite, items, err := h.Favorites.Toggle(c.Context(), sid, slug)
	if err != nil {
		applog.Error(c, "favorites.toggle.fail", err, map[string]any{"slug": slug})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update favorites"})
	}
	return c.JSON(fiber.Map{"favorite": favorite, "favorites": items, "count": len(items)})
}

func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid slug"})
	}
	items, err := h.Favorites.Remove(c.Context(), sid, slug)
	if err != nil {
		applog.Error(c, "favorites.remove.fail", err, map[string]any{"slug": slug})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update favorites"})
	}
	return c.JSON(fiber.Map{"favorites": items, "count": len(items)})
}

func (h *FavoritesHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Favorites.Clear(c.Context(), sid); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not clear favorites"})
	}
	return c.JSON(fiber.Map{"favorites": []any{}, "count": 0})
}
