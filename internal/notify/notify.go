// Package notify keeps the transient toast notifications shown after form submits.
package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

// Level is the severity of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelPending Level = "pending"
)

// Toast is one transient notification.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is what forms and services send toasts through.
type Notifier interface {
	Success(msg string) Toast
	Error(msg string) Toast
	Pending(msg string) Toast
	Dismiss(id string)
}

// Center stores toasts until they expire. Safe for concurrent use.
type Center struct {
	toasts *ttlcache.Cache[string, Toast]

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCenter creates a Center whose toasts expire after ttl. Call Stop on shutdown.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = 4 * time.Second
	}
	c := &Center{
		toasts: ttlcache.New[string, Toast](
			ttlcache.WithTTL[string, Toast](ttl),
			ttlcache.WithDisableTouchOnHit[string, Toast](),
		),
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	go c.expire(ctx, min(max(ttl/2, 10*time.Millisecond), time.Second))
	return c
}

func (c *Center) expire(ctx context.Context, every time.Duration) {
	defer c.wg.Done()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.toasts.DeleteExpired()
		}
	}
}

// Stop ends the expiry loop and waits for it to exit.
func (c *Center) Stop() {
	c.cancel()
	c.wg.Wait()
}

func (c *Center) Success(msg string) Toast { return c.push(LevelSuccess, msg) }
func (c *Center) Error(msg string) Toast   { return c.push(LevelError, msg) }
func (c *Center) Pending(msg string) Toast { return c.push(LevelPending, msg) }

// Dismiss removes a toast before it expires.
func (c *Center) Dismiss(id string) { c.toasts.Delete(id) }

func (c *Center) push(level Level, msg string) Toast {
	t := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   msg,
		CreatedAt: time.Now(),
	}
	c.toasts.Set(t.ID, t, ttlcache.DefaultTTL)
	return t
}

// Active returns the unexpired toasts, oldest first.
func (c *Center) Active() []Toast {
	items := c.toasts.Items()
	out := make([]Toast, 0, len(items))
	for _, item := range items {
		if item.IsExpired() {
			continue
		}
		out = append(out, item.Value())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
