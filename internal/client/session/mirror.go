package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

const (
	MsgLoginFailed           = "Login failed"
	MsgRegistrationFailed    = "Registration failed"
	MsgLoginNetworkError     = "Network error while logging in"
	MsgRegisterNetworkError  = "Network error while registering"
	MsgSessionStorageFailure = "Could not store the session"
)

type Mirror struct {
	client  client.Client
	store   TokenStore
	nav     Navigator
	logger  logging.Logger
	timeout time.Duration

	mu   sync.RWMutex
	user *client.Profile
}

// NewMirror builds a Mirror. timeout bounds each server call; zero leaves
// only the caller's context in charge. logger may be nil.
func NewMirror(c client.Client, store TokenStore, nav Navigator, logger logging.Logger, timeout time.Duration) *Mirror {
	if logger == nil {
		logger = logging.Nop()
	}
	if nav == nil {
		nav = NavigatorFunc(func(View) {})
	}
	return &Mirror{client: c, store: store, nav: nav, logger: logger, timeout: timeout}
}

// User returns a copy of the current profile, or nil when logged out.
func (m *Mirror) User() *client.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Mirror) setUser(p *client.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = p
}

func (m *Mirror) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

// Bootstrap restores the session from the stored token. Without a token no
// request is made. A token the server rejects is deleted; a token that could
// not be checked because of a network failure is kept for the next start.
// Only local storage failures are returned.
func (m *Mirror) Bootstrap(ctx context.Context) error {
	token, err := m.store.Load(ctx)
	if err != nil {
		m.setUser(nil)
		return err
	}
	if token == "" {
		m.setUser(nil)
		return nil
	}

	cctx, cancel := m.withTimeout(ctx)
	defer cancel()

	p, err := m.client.Me(cctx, token)
	switch {
	case err == nil:
		m.setUser(p)
		return nil
	case errors.Is(err, client.ErrRejected):
		m.setUser(nil)
		m.logger.Info(ctx, "stored token rejected, discarding it", "error", err)
		return m.store.Clear(ctx)
	default:
		m.setUser(nil)
		m.logger.Warn(ctx, "could not verify stored token", "error", err)
		return nil
	}
}

// Login exchanges credentials for a token, stores it and then loads the
// profile. It returns "" on success or a message for the user.
func (m *Mirror) Login(ctx context.Context, username, password string) string {
	cctx, cancel := m.withTimeout(ctx)
	token, err := m.client.Login(cctx, username, password)
	cancel()
	if err != nil {
		if errors.Is(err, client.ErrRejected) {
			return messageOr(err, MsgLoginFailed)
		}
		m.logger.Warn(ctx, "login request failed", "error", err)
		return MsgLoginNetworkError
	}

	if err := m.store.Save(ctx, token); err != nil {
		m.logger.Error(ctx, "saving token failed", "error", err)
		return MsgSessionStorageFailure
	}

	cctx, cancel = m.withTimeout(ctx)
	p, err := m.client.Me(cctx, token)
	cancel()
	if err != nil {
		m.logger.Warn(ctx, "loading profile after login failed", "error", err)
		p = nil
	}
	m.setUser(p)

	m.nav.Navigate(ViewProfile)
	return ""
}

// Register creates an account. It never logs the user in.
func (m *Mirror) Register(ctx context.Context, req client.RegisterRequest) string {
	cctx, cancel := m.withTimeout(ctx)
	defer cancel()

	if err := m.client.Register(cctx, req); err != nil {
		if errors.Is(err, client.ErrRejected) {
			return messageOr(err, MsgRegistrationFailed)
		}
		m.logger.Warn(ctx, "register request failed", "error", err)
		return MsgRegisterNetworkError
	}

	m.nav.Navigate(ViewSuccess)
	return ""
}

// Logout forgets the token and profile locally. The profile is cleared and
// the user routed home even when the store fails; that failure is returned.
func (m *Mirror) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)
	if err != nil {
		m.logger.Error(ctx, "clearing token failed", "error", err)
	}
	m.setUser(nil)
	m.nav.Navigate(ViewHome)
	return err
}

func messageOr(err error, fallback string) string {
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return fallback
}
