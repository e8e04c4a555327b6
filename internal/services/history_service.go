package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	applog "sneakstore/internal/log"
	"sneakstore/internal/storage"
)

// Most-recent-first, deduplicated, capped.
const historyCap = 10

// HistoryService records submitted search queries per session.
type HistoryService struct {
	store storage.Store
}

func NewHistoryService(store storage.Store) *HistoryService {
	return &HistoryService{store: store}
}

func historyKey(sid string) string { return "searchHistory:" + sid }

func (s *HistoryService) List(ctx context.Context, sid string) ([]string, error) {
	raw, err := s.store.Get(ctx, historyKey(sid))
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load search history: %w", err)
	}
	var queries []string
	if err := json.Unmarshal(raw, &queries); err != nil {
		applog.Warn(nil, "history.load.malformed", err, map[string]any{"sid": sid})
		return []string{}, nil
	}
	if len(queries) > historyCap {
		queries = queries[:historyCap]
	}
	if queries == nil {
		queries = []string{}
	}
	return queries, nil
}

// Add pushes a query to the front, dropping any earlier occurrence and
// trimming to the cap. Blank queries are ignored.
func (s *HistoryService) Add(ctx context.Context, sid, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, sid)
	}
	queries, err := s.List(ctx, sid)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(queries)+1)
	next = append(next, query)
	for _, q := range queries {
		if q != query {
			next = append(next, q)
		}
	}
	if len(next) > historyCap {
		next = next[:historyCap]
	}

	b, err := json.Marshal(next)
	if err == nil {
		err = s.store.Set(ctx, historyKey(sid), b)
	}
	if err != nil {
		applog.Error(nil, "history.save.fail", err, map[string]any{"sid": sid})
	}
	return next, nil
}

func (s *HistoryService) Clear(ctx context.Context, sid string) error {
	if err := s.store.Del(ctx, historyKey(sid)); err != nil {
		applog.Error(nil, "history.clear.fail", err, map[string]any{"sid": sid})
		return err
	}
	return nil
}
