package session

import (
	"sync"

	"github.com/assistant-app/console/internal/model/account"
	"github.com/assistant-app/console/internal/observability"
	"github.com/assistant-app/console/internal/storage"
)

// Context holds the current session for the lifetime of the process. Exactly
// one instance exists per running application; only its own methods mutate it.
type Context struct {
	mu       sync.RWMutex
	store    *storage.Store
	current  account.Session
	onLogout func()
}

// New restores the persisted session eagerly and returns the process-wide
// context.
func New(store *storage.Store) *Context {
	return &Context{
		store:   store,
		current: store.LoadSession(),
	}
}

// SetLogoutHandler installs the hook run after Logout tears the session down.
// The console app uses it to force navigation back to the sign-in view.
func (c *Context) SetLogoutHandler(fn func()) {
	c.mu.Lock()
	c.onLogout = fn
	c.mu.Unlock()
}

// Login persists the session first, then updates in-memory state so readers
// observe the new user immediately after return.
func (c *Context) Login(user account.UserRecord, token string) error {
	if err := c.store.SaveSession(token, user); err != nil {
		return err
	}

	c.mu.Lock()
	c.current = account.Session{User: &user, Token: token}
	c.mu.Unlock()

	observability.WithFields("email", user.Email).Info("session established")
	return nil
}

// Logout clears persisted and in-memory state regardless of prior state, then
// runs the logout hook for a full teardown.
func (c *Context) Logout() {
	if err := c.store.ClearSession(); err != nil {
		observability.Logger().Warn("failed to clear persisted session", "error", err)
	}

	c.mu.Lock()
	c.current = account.Session{}
	fn := c.onLogout
	c.mu.Unlock()

	observability.Logger().Info("session cleared")
	if fn != nil {
		fn()
	}
}

// Current returns the session snapshot.
func (c *Context) Current() account.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// User returns the signed-in user, or nil.
func (c *Context) User() *account.UserRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.User
}

// Token returns the bearer token, or empty when signed out.
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Token
}

// Authenticated reports whether a user is signed in.
func (c *Context) Authenticated() bool {
	return c.Current().Authenticated()
}
