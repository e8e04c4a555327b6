package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sneakstore/internal/domain"
	applog "sneakstore/internal/log"
	"sneakstore/internal/storage"
)

// FavoritesService keeps a session's favorites: a small set of product
// slugs with the time they were added. Same persistence contract as the
// cart: one JSON array per session, malformed data resets silently, writes
// are best-effort.
type FavoritesService struct {
	store storage.Store
}

func NewFavoritesService(store storage.Store) *FavoritesService {
	return &FavoritesService{store: store}
}

func favoritesKey(sid string) string { return "favorites:" + sid }

func (s *FavoritesService) List(ctx context.Context, sid string) ([]domain.FavoriteItem, error) {
	raw, err := s.store.Get(ctx, favoritesKey(sid))
	if errors.Is(err, storage.ErrNotFound) {
		return []domain.FavoriteItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	var items []domain.FavoriteItem
	if err := json.Unmarshal(raw, &items); err != nil {
		applog.Warn(nil, "favorites.load.malformed", err, map[string]any{"sid": sid})
		return []domain.FavoriteItem{}, nil
	}
	if items == nil {
		items = []domain.FavoriteItem{}
	}
	return items, nil
}

// Add is a set insert: adding a slug already present is a successful no-op.
func (s *FavoritesService) Add(ctx context.Context, sid, slug string) ([]domain.FavoriteItem, error) {
	items, err := s.List(ctx, sid)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ProductSlug == slug {
			return items, nil
		}
	}
	items = append(items, domain.FavoriteItem{
		ProductSlug: slug,
		AddedAt:     time.Now().UTC().Format(time.RFC3339),
	})
	s.save(ctx, sid, items)
	return items, nil
}

func (s *FavoritesService) Remove(ctx context.Context, sid, slug string) ([]domain.FavoriteItem, error) {
	items, err := s.List(ctx, sid)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ProductSlug != slug {
			kept = append(kept, it)
		}
	}
	s.save(ctx, sid, kept)
	return kept, nil
}

// Toggle flips membership and reports the resulting state.
func (s *FavoritesService) Toggle(ctx context.Context, sid, slug string) (favorite bool, items []domain.FavoriteItem, err error) {
	in, err := s.IsFavorite(ctx, sid, slug)
	if err != nil {
		return false, nil, err
	}
	if in {
		items, err = s.Remove(ctx, sid, slug)
		return false, items, err
	}
	items, err = s.Add(ctx, sid, slug)
	return true, items, err
}

func (s *FavoritesService) IsFavorite(ctx context.Context, sid, slug string) (bool, error) {
	items, err := s.List(ctx, sid)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if it.ProductSlug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *FavoritesService) Count(ctx context.Context, sid string) (int, error) {
	items, err := s.List(ctx, sid)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *FavoritesService) Clear(ctx context.Context, sid string) error {
	if err := s.store.Del(ctx, favoritesKey(sid)); err != nil {
		applog.Error(nil, "favorites.clear.fail", err, map[string]any{"sid": sid})
		return err
	}
	return nil
}

func (s *FavoritesService) save(ctx context.Context, sid string, items []domain.FavoriteItem) {
	b, err := json.Marshal(items)
	if err == nil {
		err = s.store.Set(ctx, favoritesKey(sid), b)
	}
	if err != nil {
		applog.Error(nil, "favorites.save.fail", err, map[string]any{"sid": sid})
	}
}
