// Package session holds the authenticated user and persists it across restarts.
// Handlers must not read the session before Rehydrate has finished; Ready reports when it has.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"lawdesk/internal/model"
	"lawdesk/internal/repository"
)

// StateKey is the key the persisted snapshot is stored under.
const StateKey = "persist:root"

var ErrInvalidUser = errors.New("user id is required")

type snapshot struct {
	User *model.User `json:"user"`
}

// Manager is safe for concurrent use.
type Manager struct {
	repo repository.StateRepository
	log  *slog.Logger

	mu   sync.RWMutex
	user *model.User

	ready chan struct{}
	once  sync.Once
}

// NewManager creates a manager that is not ready until Rehydrate runs.
func NewManager(repo repository.StateRepository, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		repo:  repo,
		log:   log.With("component", "session"),
		ready: make(chan struct{}),
	}
}

// Rehydrate loads the persisted snapshot. The manager becomes ready even when loading
// fails, starting with no user; the error is still returned.
func (m *Manager) Rehydrate(ctx context.Context) error {
	defer m.once.Do(func() { close(m.ready) })

	raw, err := m.repo.Load(ctx, StateKey)
	if errors.Is(err, repository.ErrNotFound) {
		m.log.Info("no persisted state")
		return nil
	}
	if err != nil {
		return fmt.Errorf("rehydrate: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		m.log.Warn("discarding unreadable persisted state", "error", err)
		return nil
	}

	m.mu.Lock()
	m.user = snap.User
	m.mu.Unlock()
	if snap.User != nil {
		m.log.Info("session rehydrated", "user_id", snap.User.UserID)
	}
	return nil
}

// Ready is closed once rehydration has finished.
func (m *Manager) Ready() <-chan struct{} { return m.ready }

// Wait blocks until the manager is ready or ctx ends.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Login sets the current user and persists it.
func (m *Manager) Login(ctx context.Context, user model.User) error {
	if user.UserID == 0 {
		return ErrInvalidUser
	}
	if err := m.persist(ctx, &user); err != nil {
		return err
	}
	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
	return nil
}

// Logout clears the current user and its persisted snapshot.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.repo.Delete(ctx, StateKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
	return nil
}

// CurrentUser returns the signed-in user.
func (m *Manager) CurrentUser() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// CurrentUserID returns the signed-in user's id, or 0 when nobody is signed in.
func (m *Manager) CurrentUserID() int64 {
	u, _ := m.CurrentUser()
	return u.UserID
}

func (m *Manager) persist(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(snapshot{User: user})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.repo.Save(ctx, StateKey, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
