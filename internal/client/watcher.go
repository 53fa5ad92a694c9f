package client

import (
	"context"
	"time"

	"github.com/drunksters/gamehub/internal/server"
)

// DefaultPollInterval matches the dashboard's refresh cadence.
const DefaultPollInterval = 2 * time.Second

// Watcher keeps a local view of server state by periodic full refetch. Each
// fetch replaces the previous snapshot wholesale; there is no diffing, and
// states between polls are simply never seen.
type Watcher struct {
	client   *Client
	interval time.Duration
	kick     chan struct{}
	onState  func(server.StateResponse)
	onError  func(error)
}

// NewWatcher wires the watcher to the client: every successful mutation made
// through the client triggers an immediate refetch, approximating
// read-your-writes without guaranteeing it.
func NewWatcher(c *Client, interval time.Duration, onState func(server.StateResponse)) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	w := &Watcher{
		client:   c,
		interval: interval,
		kick:     make(chan struct{}, 1),
		onState:  onState,
	}
	c.onMutate = w.Kick
	return w
}

// OnError installs an optional fetch-failure callback. Failures never stop
// the loop; the next tick retries.
func (w *Watcher) OnError(fn func(error)) { w.onError = fn }

// Kick requests an immediate refetch. Coalesces if one is already pending.
func (w *Watcher) Kick() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Run fetches once immediately, then on every tick or kick until the context
// ends.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.fetch(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.fetch(ctx)
		case <-w.kick:
			w.fetch(ctx)
		}
	}
}

func (w *Watcher) fetch(ctx context.Context) {
	state, err := w.client.State(ctx)
	if err != nil {
		if w.onError != nil && ctx.Err() == nil {
			w.onError(err)
		}
		return
	}
	w.onState(state)
}
