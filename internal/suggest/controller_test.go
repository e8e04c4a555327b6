package suggest_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sneakstore/internal/domain"
	"sneakstore/internal/suggest"
)

const testDelay = 20 * time.Millisecond

func echoFetcher(calls *atomic.Int64) suggest.Fetcher {
	return func(ctx context.Context, query string) []domain.Suggestion {
		if calls != nil {
			calls.Add(1)
		}
		return []domain.Suggestion{
			{ID: "product-" + query, Type: "product", Title: query, URL: "/product/" + query},
			{ID: "search-" + query, Type: "query", Title: query, URL: "/catalog?search=" + query},
		}
	}
}

// waitSettled polls until the controller reaches Settled or the deadline hits.
func waitSettled(t *testing.T, c *suggest.Controller) suggest.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s := c.Snapshot(); s.State == suggest.Settled {
			return s
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("controller never settled: %+v", c.Snapshot())
	return suggest.Snapshot{}
}

func TestController_DebouncesRapidKeystrokes(t *testing.T) {
	var calls atomic.Int64
	c := suggest.NewController(echoFetcher(&calls), suggest.WithDelay(testDelay))
	defer c.Stop()

	for _, q := range []string{"n", "ni", "nik", "nike"} {
		c.SetQuery(q)
	}
	snap := waitSettled(t, c)

	assert.Equal(t, int64(1), calls.Load(), "only the final keystroke may fetch")
	require.Len(t, snap.Suggestions, 2)
	assert.Equal(t, "product-nike", snap.Suggestions[0].ID)
	assert.False(t, snap.Loading)
}

func TestController_BlankQueryClearsImmediately(t *testing.T) {
	var calls atomic.Int64
	c := suggest.NewController(echoFetcher(&calls), suggest.WithDelay(testDelay))
	defer c.Stop()

	c.SetQuery("nike")
	waitSettled(t, c)
	c.SetQuery("")

	snap := c.Snapshot()
	assert.Equal(t, suggest.Idle, snap.State)
	assert.Empty(t, snap.Suggestions)
	assert.Equal(t, -1, snap.Selected)

	// The clear must not wait out a debounce window.
	time.Sleep(2 * testDelay)
	assert.Equal(t, int64(1), calls.Load())
}

func TestController_StaleFetchDiscarded(t *testing.T) {
	block := make(chan struct{})
	fetch := func(ctx context.Context, query string) []domain.Suggestion {
		if query == "slow" {
			select {
			case <-block:
			case <-ctx.Done():
				return nil
			}
		}
		return []domain.Suggestion{{ID: "for-" + query, Type: "product", Title: query}}
	}
	c := suggest.NewController(fetch, suggest.WithDelay(testDelay))
	defer c.Stop()

	c.SetQuery("slow")
	time.Sleep(3 * testDelay) // let the slow fetch start
	c.SetQuery("fast")
	snap := waitSettled(t, c)
	close(block)

	require.Len(t, snap.Suggestions, 1)
	assert.Equal(t, "for-fast", snap.Suggestions[0].ID)

	// Give the canceled fetch time to unwind; its result must not surface.
	time.Sleep(2 * testDelay)
	assert.Equal(t, "for-fast", c.Snapshot().Suggestions[0].ID)
}

func TestController_SelectionClamped(t *testing.T) {
	c := suggest.NewController(echoFetcher(nil), suggest.WithDelay(testDelay))
	defer c.Stop()

	c.SetQuery("nike")
	waitSettled(t, c) // 2 suggestions

	c.MoveUp()
	assert.Equal(t, -1, c.Snapshot().Selected, "up from -1 stays at -1")

	for i := 0; i < 5; i++ {
		c.MoveDown()
	}
	assert.Equal(t, 1, c.Snapshot().Selected, "down is clamped to the last row")

	c.MoveUp()
	assert.Equal(t, 0, c.Snapshot().Selected)
}

func TestController_SubmitVariants(t *testing.T) {
	c := suggest.NewController(echoFetcher(nil), suggest.WithDelay(testDelay))
	defer c.Stop()

	// Nothing selected: plain search for the raw query, recorded in history.
	c.SetQuery("air max")
	waitSettled(t, c)
	target, query := c.Submit()
	assert.Equal(t, "/search?q=air+max", target)
	assert.Equal(t, "air max", query)
	assert.Equal(t, suggest.Idle, c.Snapshot().State)

	// Product row selected: navigate there, nothing recorded.
	c.SetQuery("nike")
	waitSettled(t, c)
	c.MoveDown()
	target, query = c.Submit()
	assert.Equal(t, "/product/nike", target)
	assert.Empty(t, query)

	// Query row selected: its URL, and the raw query is recorded.
	c.SetQuery("nike")
	waitSettled(t, c)
	c.MoveDown()
	c.MoveDown()
	target, query = c.Submit()
	assert.Equal(t, "/catalog?search=nike", target)
	assert.Equal(t, "nike", query)

	// Empty submit navigates nowhere.
	target, query = c.Submit()
	assert.Empty(t, target)
	assert.Empty(t, query)
}

func TestController_CloseDismissesWithoutNavigating(t *testing.T) {
	c := suggest.NewController(echoFetcher(nil), suggest.WithDelay(testDelay))
	defer c.Stop()

	c.SetQuery("nike")
	waitSettled(t, c)
	c.Close()

	snap := c.Snapshot()
	assert.Equal(t, suggest.Idle, snap.State)
	assert.Empty(t, snap.Query)
	assert.Empty(t, snap.Suggestions)
}

func TestController_OnUpdateSeesLifecycle(t *testing.T) {
	// Updates arrive from the caller, the timer and the fetch goroutine.
	updates := make(chan suggest.State, 16)
	c := suggest.NewController(echoFetcher(nil),
		suggest.WithDelay(testDelay),
		suggest.WithOnUpdate(func(s suggest.Snapshot) {
			updates <- s.State
		}))
	defer c.Stop()

	c.SetQuery("nike")

	var states []suggest.State
	deadline := time.After(2 * time.Second)
	for len(states) == 0 || states[len(states)-1] != suggest.Settled {
		select {
		case s := <-updates:
			states = append(states, s)
		case <-deadline:
			t.Fatalf("never saw a settled snapshot, got %v", states)
		}
	}

	require.GreaterOrEqual(t, len(states), 3)
	assert.Equal(t, suggest.Debouncing, states[0])
	assert.Equal(t, suggest.Fetching, states[1])
	assert.Equal(t, suggest.Settled, states[2])
}
