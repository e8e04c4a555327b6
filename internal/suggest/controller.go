// Package suggest drives a live search box: it debounces keystrokes into
// fetches, cancels superseded fetches, and tracks the keyboard selection
// over the resulting suggestion list.
package suggest

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"sneakstore/internal/domain"
)

// State of the controller's query stream.
type State int

const (
	Idle State = iota
	Debouncing
	Fetching
	Settled
)

func (s State) String() string {
	switch s {
	case Debouncing:
		return "debouncing"
	case Fetching:
		return "fetching"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

const defaultDelay = 300 * time.Millisecond

// Fetcher resolves one query into suggestions. It must honor ctx: when a
// newer query supersedes this one the context is canceled.
type Fetcher func(ctx context.Context, query string) []domain.Suggestion

// Snapshot is the externally visible controller state.
type Snapshot struct {
	State       State               `json:"-"`
	StateName   string              `json:"state"`
	Query       string              `json:"query"`
	Suggestions []domain.Suggestion `json:"suggestions"`
	Selected    int                 `json:"selected"`
	Loading     bool                `json:"loading"`
}

// Controller is safe for concurrent use. Only the latest generation's fetch
// result is ever applied; earlier in-flight results are discarded.
type Controller struct {
	fetch    Fetcher
	delay    time.Duration
	onUpdate func(Snapshot)

	mu          sync.Mutex
	timer       *time.Timer
	cancel      context.CancelFunc
	gen         uint64
	state       State
	query       string
	suggestions []domain.Suggestion
	selected    int
}

type Option func(*Controller)

// WithDelay overrides the debounce window (tests use a short one).
func WithDelay(d time.Duration) Option { return func(c *Controller) { c.delay = d } }

// WithOnUpdate registers a callback invoked with a fresh snapshot whenever
// the visible state changes. Called without the internal lock held.
func WithOnUpdate(fn func(Snapshot)) Option { return func(c *Controller) { c.onUpdate = fn } }

func NewController(fetch Fetcher, opts ...Option) *Controller {
	c := &Controller{fetch: fetch, delay: defaultDelay, selected: -1, state: Idle}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetQuery feeds one keystroke's worth of query text. Keystrokes within the
// debounce window restart it; a blank query clears everything immediately.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	if strings.TrimSpace(q) == "" {
		c.stopTimerLocked()
		c.cancelFetchLocked()
		c.gen++ // orphan any in-flight result
		c.suggestions = nil
		c.selected = -1
		c.state = Idle
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
		return
	}
	c.state = Debouncing
	if c.timer == nil {
		c.timer = time.AfterFunc(c.delay, c.fire)
	} else {
		c.timer.Reset(c.delay)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// fire runs when the debounce window elapses: cancel the previous fetch,
// start a new generation.
func (c *Controller) fire() {
	c.mu.Lock()
	if strings.TrimSpace(c.query) == "" {
		c.mu.Unlock()
		return
	}
	c.cancelFetchLocked()
	c.gen++
	gen := c.gen
	query := c.query
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state = Fetching
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	go func() {
		suggestions := c.fetch(ctx, query)

		c.mu.Lock()
		if gen != c.gen {
			// A newer query took over while we were in flight.
			c.mu.Unlock()
			return
		}
		c.suggestions = suggestions
		c.selected = -1
		c.state = Settled
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
	}()
}

// MoveDown advances the selection, clamped to the last suggestion.
func (c *Controller) MoveDown() {
	c.mu.Lock()
	if c.selected < len(c.suggestions)-1 {
		c.selected++
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// MoveUp retreats the selection, clamped to -1 (nothing selected).
func (c *Controller) MoveUp() {
	c.mu.Lock()
	if c.selected > -1 {
		c.selected--
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Submit resolves the enter key: the selected suggestion's target, or a
// plain search for the raw query when nothing is selected. The returned
// query is non-empty exactly when the submission should be recorded in the
// search history. The controller resets either way.
func (c *Controller) Submit() (target, query string) {
	c.mu.Lock()
	raw := strings.TrimSpace(c.query)
	if c.selected >= 0 && c.selected < len(c.suggestions) {
		sel := c.suggestions[c.selected]
		if sel.Type == "query" {
			target, query = sel.URL, raw
		} else {
			target = sel.URL
		}
	} else if raw != "" {
		target, query = "/search?q="+url.QueryEscape(raw), raw
	}
	c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
	return target, query
}

// Close dismisses the dropdown without submitting.
func (c *Controller) Close() {
	c.mu.Lock()
	c.resetLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

// Stop releases the timer and cancels any in-flight fetch. The controller
// must not be used afterwards.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.cancelFetchLocked()
	c.gen++
}

// Snapshot returns the current visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) resetLocked() {
	c.stopTimerLocked()
	c.cancelFetchLocked()
	c.gen++
	c.query = ""
	c.suggestions = nil
	c.selected = -1
	c.state = Idle
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
}

func (c *Controller) cancelFetchLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	out := make([]domain.Suggestion, len(c.suggestions))
	copy(out, c.suggestions)
	return Snapshot{
		State:       c.state,
		StateName:   c.state.String(),
		Query:       c.query,
		Suggestions: out,
		Selected:    c.selected,
		Loading:     c.state == Debouncing || c.state == Fetching,
	}
}

func (c *Controller) notify(s Snapshot) {
	if c.onUpdate != nil {
		c.onUpdate(s)
	}
}
