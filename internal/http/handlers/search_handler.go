package handlers

import (
	"context"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sneakstore/internal/domain"
	applog "sneakstore/internal/log"
	"sneakstore/internal/services"
	"sneakstore/internal/suggest"
	"sneakstore/internal/validate"
)

type SearchHandler struct {
	Suggest *services.SuggestService
	History *services.HistoryService
}

// Suggestions serves the debounced search box's fetch: grouped matches per
// source plus a total. A blank query is an empty result, not an error.
func (h *SearchHandler) Suggestions(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if rawQ == "" {
		return c.JSON(services.SuggestResults{
			Products: []domain.Product{}, Brands: []string{}, Categories: []string{},
		})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "q"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query"})
	}
	return c.JSON(h.Suggest.Results(c.Context(), q))
}

// HistoryList returns the session's recent searches, newest first.
func (h *SearchHandler) HistoryList(c *fiber.Ctx) error {
	sid := ensureSID(c)
	queries, err := h.History.List(c.Context(), sid)
	if err != nil {
		applog.Error(c, "history.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not load history"})
	}
	return c.JSON(fiber.Map{"queries": queries})
}

type historyAddReq struct {
	Query string `json:"query"`
}

func (h *SearchHandler) HistoryAdd(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req historyAddReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	q, ok := validate.Q(req.Query)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query"})
	}
	queries, err := h.History.Add(c.Context(), sid, q)
	if err != nil {
		applog.Error(c, "history.add.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not save history"})
	}
	return c.JSON(fiber.Map{"queries": queries})
}

func (h *SearchHandler) HistoryClear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.History.Clear(c.Context(), sid); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not clear history"})
	}
	return c.JSON(fiber.Map{"queries": []string{}})
}

// liveMsg is one frame from the search box: a keystroke, an arrow key, an
// enter or an escape.
type liveMsg struct {
	Type string `json:"type"` // query | move | submit | close
	Q    string `json:"q,omitempty"`
	Dir  string `json:"dir,omitempty"` // up | down
}

// Live drives one search box over a websocket. Each connection owns a
// debounced controller; suggestion frames are pushed as state settles.
func (h *SearchHandler) Live() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sid := conn.Cookies("sid")
		if sid == "" {
			sid = uuid.NewString()
		}
		connID := uuid.NewString()
		applog.Info(nil, "search.live.open", map[string]any{"conn": connID})

		// Websocket writes are not concurrent-safe; frames come from both
		// the read loop and the controller's fetch goroutine.
		var writeMu sync.Mutex
		push := func(v any) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(v); err != nil {
				applog.Warn(nil, "search.live.write.fail", err, map[string]any{"conn": connID})
			}
		}

		ctrl := suggest.NewController(
			func(ctx context.Context, q string) []domain.Suggestion {
				return h.Suggest.Assemble(ctx, q)
			},
			suggest.WithOnUpdate(func(s suggest.Snapshot) {
				push(fiber.Map{"type": "suggestions", "snapshot": s})
			}),
		)
		defer ctrl.Stop()

		for {
			var msg liveMsg
			if err := conn.ReadJSON(&msg); err != nil {
				applog.Info(nil, "search.live.close", map[string]any{"conn": connID})
				return
			}
			switch msg.Type {
			case "query":
				ctrl.SetQuery(msg.Q)
			case "move":
				if msg.Dir == "up" {
					ctrl.MoveUp()
				} else {
					ctrl.MoveDown()
				}
			case "submit":
				target, query := ctrl.Submit()
				if query != "" {
					if _, err := h.History.Add(context.Background(), sid, query); err != nil {
						applog.Warn(nil, "search.live.history.fail", err, nil)
					}
				}
				push(fiber.Map{"type": "navigate", "url": target, "query": query})
			case "close":
				ctrl.Close()
			}
		}
	})
}

// UpgradeRequired gates the websocket route group.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
