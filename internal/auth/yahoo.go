// Package auth turns the local oauth2.json into an authenticated Yahoo session.
package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/Billy-Davies-2/hoops-swap/internal/logger"
	"github.com/Billy-Davies-2/hoops-swap/internal/platform"
)

// YahooEndpoint is Yahoo's OAuth2 endpoint. Client credentials go in the
// Authorization header.
var YahooEndpoint = oauth2.Endpoint{
	AuthURL:   "https://api.login.yahoo.com/oauth2/request_auth",
	TokenURL:  "https://api.login.yahoo.com/oauth2/get_token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// outOfBand asks Yahoo to show the verifier code instead of redirecting
const outOfBand = "oob"

// Session is an authenticated handle to the platform. The client refreshes
// its token transparently.
type Session struct {
	Client *http.Client
	GUID   string
}

// YahooAuth manages the credentials file and the token grant
type YahooAuth struct {
	path         string
	creds        *Credentials
	oauth2Config *oauth2.Config

	mu sync.Mutex
}

// NewYahooAuth loads credentials from path. A zero endpoint means YahooEndpoint.
func NewYahooAuth(path string, endpoint oauth2.Endpoint) (*YahooAuth, error) {
	creds, err := LoadCredentials(path)
	if err != nil {
		return nil, err
	}
	if endpoint.TokenURL == "" {
		endpoint = YahooEndpoint
	}

	return &YahooAuth{
		path:  path,
		creds: creds,
		oauth2Config: &oauth2.Config{
			ClientID:     creds.ConsumerKey,
			ClientSecret: creds.ConsumerSecret,
			RedirectURL:  outOfBand,
			Endpoint:     endpoint,
		},
	}, nil
}

// NeedsAuthorization reports whether the user must grant access first
func (a *YahooAuth) NeedsAuthorization() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.creds.RefreshToken == ""
}

// Authorize runs the console flow: print the consent URL to out, read the
// verifier from in and exchange it for a token grant.
func (a *YahooAuth) Authorize(ctx context.Context, in io.Reader, out io.Writer) error {
	url := a.oauth2Config.AuthCodeURL("", oauth2.SetAuthURLParam("language", "en-us"))
	fmt.Fprintf(out, "Open this URL in a browser and grant access:\n\n  %s\n\nEnter verifier: ", url)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("reading verifier: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return &platform.AuthenticationError{Err: fmt.Errorf("no verifier entered")}
	}

	tok, err := a.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return &platform.AuthenticationError{Err: fmt.Errorf("exchanging verifier: %w", err)}
	}

	logger.Info("Authorization granted")
	return a.store(tok)
}

// Authenticate returns a session bound to ctx. Refreshed tokens are written
// back to the credentials file.
func (a *YahooAuth) Authenticate(ctx context.Context) (*Session, error) {
	if a.NeedsAuthorization() {
		return nil, &platform.AuthenticationError{Err: fmt.Errorf("no refresh token in %s, authorization required", a.path)}
	}

	a.mu.Lock()
	current := a.creds.Token()
	guid := a.creds.GUID
	a.mu.Unlock()

	// Persist every refreshed token
	saving := &savingTokenSource{
		base:    a.oauth2Config.TokenSource(ctx, current),
		auth:    a,
		current: current.AccessToken,
	}
	ts := oauth2.ReuseTokenSource(current, saving)

	return &Session{
		Client: oauth2.NewClient(ctx, ts),
		GUID:   guid,
	}, nil
}

func (a *YahooAuth) store(tok *oauth2.Token) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.creds.SetToken(tok)
	if err := a.creds.Save(a.path); err != nil {
		return err
	}
	logger.Debug("Saved token grant", "path", a.path, "expiry", tok.Expiry)
	return nil
}

// savingTokenSource persists every newly issued access token
type savingTokenSource struct {
	base    oauth2.TokenSource
	auth    *YahooAuth
	mu      sync.Mutex
	current string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, &platform.AuthenticationError{Err: fmt.Errorf("refreshing token: %w", err)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.current {
		s.current = tok.AccessToken
		logger.Info("Access token refreshed")
		if err := s.auth.store(tok); err != nil {
			logger.Warn("Could not persist refreshed token", "error", err)
		}
	}
	return tok, nil
}
