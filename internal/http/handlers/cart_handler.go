package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sneakstore/internal/domain"
	applog "sneakstore/internal/log"
	"sneakstore/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) view(c *fiber.Ctx, items []domain.CartItem) error {
	return c.JSON(fiber.Map{"items": items, "summary": services.Summarize(items)})
}

// View returns the session's cart with derived totals.
func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	items, err := h.Cart.Items(c.Context(), sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not load cart"})
	}
	return h.view(c, items)
}

type addItemReq struct {
	Product services.CartProduct `json:"product"`
	Color   domain.Color         `json:"color"`
	Size    int                  `json:"size"`
}

// AddItem adds one unit of (product, color, size), merging into an existing
// line. Missing selections are a client error, not a cart mutation.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req addItemReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	items, err := h.Cart.Add(c.Context(), sid, req.Product, req.Color, req.Size)
	switch {
	case errors.Is(err, services.ErrSlugRequired),
		errors.Is(err, services.ErrColorRequired),
		errors.Is(err, services.ErrSizeRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		applog.Error(c, "cart.add.fail", err, map[string]any{"slug": req.Product.Slug})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not add to cart"})
	}
	applog.Info(c, "cart.add", map[string]any{"slug": req.Product.Slug, "size": req.Size})
	return h.view(c, items)
}

type updateItemReq struct {
	Quantity int `json:"quantity"`
}

// UpdateItem replaces a line's quantity; zero or less removes the line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	var req updateItemReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	items, err := h.Cart.UpdateQuantity(c.Context(), sid, itemID, req.Quantity)
	if err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"item": itemID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update cart"})
	}
	return h.view(c, items)
}

// RemoveItem drops one line; removing an absent line succeeds.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	sid := ensureSID(c)
	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing item id"})
	}
	items, err := h.Cart.Remove(c.Context(), sid, itemID)
	if err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"item": itemID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update cart"})
	}
	return h.view(c, items)
}

// Clear empties the cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(c.Context(), sid); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not clear cart"})
	}
	return h.view(c, []domain.CartItem{})
}
