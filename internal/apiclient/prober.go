package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Prober watches backend reachability and reports offline→online transitions.
// Any HTTP response counts as reachable; only transport failures count as offline.
type Prober struct {
	client      *Client
	path        string
	interval    time.Duration
	onReconnect func()
	log         *slog.Logger

	mu     sync.Mutex
	online bool
}

// NewProber creates a Prober. The backend is assumed reachable until a probe fails.
func NewProber(c *Client, path string, interval time.Duration, onReconnect func()) *Prober {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Prober{
		client:      c,
		path:        path,
		interval:    interval,
		onReconnect: onReconnect,
		log:         slog.Default().With("component", "prober"),
		online:      true,
	}
}

// Online reports the result of the last probe.
func (p *Prober) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Check runs a single probe and returns whether the backend was reachable.
func (p *Prober) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	reachable := false
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.client.URL(p.path), nil)
	if err == nil {
		resp, err := p.client.http.Do(req)
		if err == nil {
			resp.Body.Close()
			reachable = true
		}
	}

	p.mu.Lock()
	reconnected := reachable && !p.online
	changed := reachable != p.online
	p.online = reachable
	p.mu.Unlock()

	if changed {
		p.log.Info("backend reachability changed", "online", reachable)
	}
	if reconnected && p.onReconnect != nil {
		p.onReconnect()
	}
	return reachable
}

// Run probes on every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.Check(ctx)
		}
	}
}
