package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sneakstore/internal/domain"
	applog "sneakstore/internal/log"
	"sneakstore/internal/storage"
)

const (
	freeShippingFrom = 5000
	shippingFee      = 500
	maxLineQuantity  = 10
)

var (
	ErrColorRequired = errors.New("cart: color must be selected")
	ErrSizeRequired  = errors.New("cart: size must be selected")
	ErrSlugRequired  = errors.New("cart: product slug required")
)

// CartService is the source of truth for a session's cart. State lives in
// the injected store as one JSON array per session; every operation loads,
// mutates and writes back. Writes are best-effort: a failed write is logged
// and the in-memory result is still returned.
type CartService struct {
	store storage.Store
}

func NewCartService(store storage.Store) *CartService {
	return &CartService{store: store}
}

// CartProduct is the slice of the product needed to build a cart line.
type CartProduct struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	ImageURL string `json:"imageUrl"`
}

func cartKey(sid string) string { return "cart:" + sid }

// LineID builds the composite key a cart line is identified by.
func LineID(slug string, colorID, size int) string {
	return fmt.Sprintf("%s-%d-%d", slug, colorID, size)
}

// Items returns the session's cart. Malformed persisted data degrades to an
// empty cart without error; only a real load failure is reported.
func (s *CartService) Items(ctx context.Context, sid string) ([]domain.CartItem, error) {
	raw, err := s.store.Get(ctx, cartKey(sid))
	if errors.Is(err, storage.ErrNotFound) {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// Corrupted blob: graceful reset, not an error.
		applog.Warn(nil, "cart.load.malformed", err, map[string]any{"sid": sid})
		return []domain.CartItem{}, nil
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// Add merges by composite key: an existing line gains quantity 1 (capped),
// a new line is appended with quantity 1. Missing selections are rejected
// before any state changes.
func (s *CartService) Add(ctx context.Context, sid string, p CartProduct, color domain.Color, size int) ([]domain.CartItem, error) {
	if p.Slug == "" {
		return nil, ErrSlugRequired
	}
	if color.ID == 0 && color.Name == "" {
		return nil, ErrColorRequired
	}
	if size <= 0 {
		return nil, ErrSizeRequired
	}

	items, err := s.Items(ctx, sid)
	if err != nil {
		return nil, err
	}

	id := LineID(p.Slug, color.ID, size)
	found := false
	for i := range items {
		if items[i].ID == id {
			if items[i].Quantity < maxLineQuantity {
				items[i].Quantity++
			}
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.CartItem{
			ID:          id,
			ProductSlug: p.Slug,
			Name:        p.Name,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			Color:       domain.Color{ID: color.ID, Name: color.Name},
			Size:        size,
			Quantity:    1,
		})
	}

	s.save(ctx, sid, items)
	return items, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sid, itemID string, quantity int) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return s.Remove(ctx, sid, itemID)
	}
	if quantity > maxLineQuantity {
		quantity = maxLineQuantity
	}
	items, err := s.Items(ctx, sid)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = quantity
			break
		}
	}
	s.save(ctx, sid, items)
	return items, nil
}

// Remove drops a line by id; removing an absent id is a no-op.
func (s *CartService) Remove(ctx context.Context, sid, itemID string) ([]domain.CartItem, error) {
	items, err := s.Items(ctx, sid)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.save(ctx, sid, kept)
	return kept, nil
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sid string) error {
	if err := s.store.Del(ctx, cartKey(sid)); err != nil {
		applog.Error(nil, "cart.clear.fail", err, map[string]any{"sid": sid})
		return err
	}
	return nil
}

// IsInCart reports whether the (product, color, size) line exists.
func (s *CartService) IsInCart(ctx context.Context, sid, slug string, colorID, size int) (bool, error) {
	return s.hasLine(ctx, sid, LineID(slug, colorID, size))
}

// ItemQuantity returns the quantity of one line, zero when absent.
func (s *CartService) ItemQuantity(ctx context.Context, sid, slug string, colorID, size int) (int, error) {
	items, err := s.Items(ctx, sid)
	if err != nil {
		return 0, err
	}
	id := LineID(slug, colorID, size)
	for _, it := range items {
		if it.ID == id {
			return it.Quantity, nil
		}
	}
	return 0, nil
}

func (s *CartService) hasLine(ctx context.Context, sid, id string) (bool, error) {
	items, err := s.Items(ctx, sid)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Summarize derives the cart totals. Pure function of the given items.
func Summarize(items []domain.CartItem) domain.CartSummary {
	var sum domain.CartSummary
	for _, it := range items {
		sum.Subtotal += it.Price * it.Quantity
		sum.ItemCount += it.Quantity
	}
	if sum.Subtotal < freeShippingFrom {
		sum.Shipping = shippingFee
	}
	sum.Total = sum.Subtotal + sum.Shipping
	return sum
}

// save persists fire-and-forget: the caller's view is already updated and a
// storage failure must not roll it back.
func (s *CartService) save(ctx context.Context, sid string, items []domain.CartItem) {
	b, err := json.Marshal(items)
	if err == nil {
		err = s.store.Set(ctx, cartKey(sid), b)
	}
	if err != nil {
		applog.Error(nil, "cart.save.fail", err, map[string]any{"sid": sid})
	}
}
