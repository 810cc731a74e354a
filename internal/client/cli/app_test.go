package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	token    string
	profile  *client.Profile
	loginErr error
	regErr   error
	meErr    error

	registered []client.RegisterRequest
	passwords  []string
}

func (f *fakeAPI) Login(_ context.Context, _, password string) (string, error) {
	f.passwords = append(f.passwords, password)
	return f.token, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, req client.RegisterRequest) error {
	f.registered = append(f.registered, req)
	return f.regErr
}

func (f *fakeAPI) Me(context.Context, string) (*client.Profile, error) {
	return f.profile, f.meErr
}

type memTokens struct{ token string }

func (s *memTokens) Load(context.Context) (string, error)       { return s.token, nil }
func (s *memTokens) Save(_ context.Context, token string) error { s.token = token; return nil }
func (s *memTokens) Clear(context.Context) error                { s.token = ""; return nil }

func newTestApp(api client.Client, tokens session.TokenStore, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	a := newApp(&config.Config{}, nil, bufio.NewReader(strings.NewReader(input)), out)
	a.mirror = session.NewMirror(api, tokens, session.NavigatorFunc(a.navigate), nil, time.Second)
	return a, out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func TestApp_Login_Success(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{token: "T", profile: &client.Profile{ID: "u1", Username: "alice"}}
	tokens := &memTokens{}
	a, out := newTestApp(api, tokens, "alice\n")

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, "T", tokens.token)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "alice", a.getStatus())
	assert.Equal(t, []string{"pw"}, api.passwords)
	assert.Contains(t, out.String(), "Logged in as alice")
}

func TestApp_Login_RejectedPrintsServerMessage(t *testing.T) {
	stubPassword(t, "bad")
	api := &fakeAPI{loginErr: &client.APIError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}}
	a, out := newTestApp(api, &memTokens{}, "alice\n")

	require.NoError(t, a.Login(context.Background()))

	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "guest", a.getStatus())
	assert.Contains(t, out.String(), "Invalid credentials")
}

func TestApp_Login_ProfileUnavailable(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{token: "T", meErr: fmt.Errorf("%w: timeout", client.ErrUnavailable)}
	a, out := newTestApp(api, &memTokens{}, "alice\n")

	require.NoError(t, a.Login(context.Background()))

	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "profile could not be loaded")
}

func TestApp_Login_InputError(t *testing.T) {
	a, _ := newTestApp(&fakeAPI{}, &memTokens{}, "")
	require.Error(t, a.Login(context.Background()))
}

func TestApp_Login_PasswordError(t *testing.T) {
	orig := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return nil, errors.New("no tty") }
	t.Cleanup(func() { getPassword = orig })

	api := &fakeAPI{}
	a, _ := newTestApp(api, &memTokens{}, "alice\n")

	require.EqualError(t, a.Login(context.Background()), "no tty")
	assert.Empty(t, api.passwords)
}

func TestApp_Register(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{}
	a, out := newTestApp(api, &memTokens{}, "bob\nBob\nBuilder\n")

	require.NoError(t, a.Register(context.Background()))

	require.Len(t, api.registered, 1)
	assert.Equal(t, client.RegisterRequest{Username: "bob", FirstName: "Bob", LastName: "Builder", Password: "pw"}, api.registered[0])
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Registration successful")
}

func TestApp_Register_NetworkError(t *testing.T) {
	stubPassword(t, "pw")
	api := &fakeAPI{regErr: fmt.Errorf("%w: refused", client.ErrUnavailable)}
	a, out := newTestApp(api, &memTokens{}, "bob\nBob\nBuilder\n")

	require.NoError(t, a.Register(context.Background()))
	assert.Contains(t, out.String(), session.MsgRegisterNetworkError)
}

func TestApp_LogoutAndWhoAmI(t *testing.T) {
	api := &fakeAPI{profile: &client.Profile{ID: "u1", Username: "alice", FirstName: "Alice", LastName: "Liddell",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}}
	tokens := &memTokens{token: "T"}
	a, out := newTestApp(api, tokens, "")
	require.NoError(t, a.mirror.Bootstrap(context.Background()))

	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, out.String(), "Username:   alice")
	assert.Contains(t, out.String(), "Last name:  Liddell")
	assert.Contains(t, out.String(), "Created at:")

	out.Reset()
	require.NoError(t, a.Logout(context.Background()))
	assert.Empty(t, tokens.token)
	assert.Contains(t, out.String(), "Logged out")

	out.Reset()
	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Equal(t, "Not logged in\n", out.String())
}

// backend is a minimal stand-in for the auth server.
func backend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		if in["username"] != "alice" || in["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"INVALID_CREDENTIALS","message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"T"}`))
	})
	mux.HandleFunc("/user/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer T" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"UNAUTHORIZED","message":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user":{"id":"u1","username":"alice","firstname":"Alice","lastname":"Liddell"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewApp_RunRestoresSessionAcrossRestarts(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "pw")

	srv := backend(t)
	cfg := &config.Config{
		BackendURL:     srv.URL,
		TokenDB:        filepath.Join(t.TempDir(), "session.db"),
		RequestTimeout: 2 * time.Second,
	}
	ctx := context.Background()

	a, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	a.reader = bufio.NewReader(strings.NewReader("login\nalice\nexit\n"))
	a.out = out
	require.NoError(t, a.Run(ctx))
	assert.Contains(t, out.String(), "Logged in as alice")
	assert.Nil(t, a.db)

	b, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	out.Reset()
	b.reader = bufio.NewReader(strings.NewReader("logout\nexit\n"))
	b.out = out
	require.NoError(t, b.Run(ctx))
	assert.Contains(t, out.String(), "Welcome back, alice")
	assert.Contains(t, out.String(), "Logged out")

	c, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	out.Reset()
	c.reader = bufio.NewReader(strings.NewReader("exit\n"))
	c.out = out
	require.NoError(t, c.Run(ctx))
	assert.NotContains(t, out.String(), "Welcome back")
}

func TestNewApp_BadDatabasePath(t *testing.T) {
	cfg := &config.Config{
		BackendURL:     "http://localhost:1",
		TokenDB:        filepath.Join(t.TempDir(), "missing", "dir", "session.db"),
		RequestTimeout: time.Second,
	}
	_, err := NewApp(context.Background(), cfg, nil)
	require.Error(t, err)
}
