package drive

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultListenPort receives the OAuth redirect during interactive login.
const DefaultListenPort = 8910

// Session owns the OAuth token lifecycle for the Drive client. It implements
// oauth2.TokenSource; callers only ever see Token() and Login(), the refresh
// machinery and locking stay internal.
type Session struct {
	config   *oauth2.Config
	credPath string

	mu     sync.Mutex
	cached *oauth2.Token
}

// NewSession builds a session from Google API client credentials JSON and the
// path where the user token is cached.
func NewSession(clientSecret []byte, credPath string) (*Session, error) {
	config, err := google.ConfigFromJSON(clientSecret, "https://www.googleapis.com/auth/drive.readonly")
	if err != nil {
		return nil, fmt.Errorf("parse client credentials: %w", err)
	}
	config.RedirectURL = fmt.Sprintf("http://localhost:%d/", DefaultListenPort)
	return &Session{config: config, credPath: credPath}, nil
}

// Token returns a valid access token, refreshing and re-persisting it when
// expired. It fails when no login has happened yet.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil {
		tok, err := readTokenFile(s.credPath)
		if err != nil {
			return nil, errors.New("no cached credentials, run 'camclone login' first")
		}
		s.cached = tok
	}
	if s.cached.Valid() {
		return s.cached, nil
	}

	refreshed, err := s.config.TokenSource(context.Background(), s.cached).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	s.cached = refreshed
	if err := writeTokenFile(refreshed, s.credPath); err != nil {
		return nil, err
	}
	return refreshed, nil
}

// Login runs the localhost OAuth flow: prints the consent URL, waits for the
// redirect, exchanges the code, and persists the token.
func (s *Session) Login(ctx context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", DefaultListenPort))
	if err != nil {
		return fmt.Errorf("listen for oauth redirect: %w", err)
	}
	defer listener.Close()

	state := fmt.Sprintf("camclone-%d", os.Getpid())
	url := s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Printf("Open this URL in your browser:\n\n  %s\n\n", url)

	codeCh := make(chan string, 1)
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Login complete, you can close this window.")
		codeCh <- r.URL.Query().Get("code")
	})}
	go server.Serve(listener)
	defer server.Close()

	var code string
	select {
	case <-ctx.Done():
		return ctx.Err()
	case code = <-codeCh:
	}
	if code == "" {
		return errors.New("no authorization code received")
	}

	tok, err := s.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}

	s.mu.Lock()
	s.cached = tok
	s.mu.Unlock()
	return writeTokenFile(tok, s.credPath)
}

// Clear removes the persisted token.
func Clear(credPath string) error {
	return os.Remove(credPath)
}

func readTokenFile(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(decoded, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func writeTokenFile(tok *oauth2.Token, path string) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	return os.WriteFile(path, []byte(encoded), 0o600)
}
