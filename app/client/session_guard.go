// Package client provides an HTTP client for the admin API that keeps the
// access token fresh using the refresh cookie.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/amirphl/farm-storefront/app/dto"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired means the access token expired and could not be refreshed.
// The caller has to log in again.
var ErrSessionExpired = errors.New("admin session expired")

const (
	maxErrorBody   = 64 << 10
	refreshTimeout = 15 * time.Second
)

// SessionExpiredError carries the original 401 response of a call whose
// refresh failed. It matches ErrSessionExpired with errors.Is.
type SessionExpiredError struct {
	Response *http.Response
	Err      error
}

func (e *SessionExpiredError) Error() string {
	if e.Err == nil {
		return ErrSessionExpired.Error()
	}
	return fmt.Sprintf("%s: %v", ErrSessionExpired, e.Err)
}

func (e *SessionExpiredError) Is(target error) bool { return target == ErrSessionExpired }

func (e *SessionExpiredError) Unwrap() error { return e.Err }

// APIError is a non-2xx answer from a session endpoint
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("admin api: %d %s (%s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("admin api: %d %s", e.StatusCode, e.Message)
}

// attempt is the retry state of a single Do call
type attempt int

const (
	attemptInitial attempt = iota
	attemptReplayed
)

// tokenStore holds the current access token
type tokenStore struct {
	mu    sync.RWMutex
	token string
}

func (s *tokenStore) get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *tokenStore) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// SessionGuard sends admin API requests with the bearer token attached. When
// a call fails with TOKEN_EXPIRED it refreshes once and replays the call once.
type SessionGuard struct {
	baseURL *url.URL
	http    *http.Client
	tokens  tokenStore
	refresh singleflight.Group
}

// NewSessionGuard creates a guard for the API at baseURL. httpClient may be
// nil; if it has no cookie jar one is installed so the refresh cookie persists.
func NewSessionGuard(baseURL string, httpClient *http.Client) (*SessionGuard, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	return &SessionGuard{baseURL: base, http: httpClient}, nil
}

// AccessToken returns the stored access token
func (g *SessionGuard) AccessToken() string { return g.tokens.get() }

// SetAccessToken replaces the stored access token
func (g *SessionGuard) SetAccessToken(token string) { g.tokens.set(token) }

// URL resolves path against the base URL
func (g *SessionGuard) URL(path string) string {
	return g.baseURL.String() + "/" + strings.TrimPrefix(path, "/")
}

// Login authenticates and stores the access token. The refresh cookie lands in the jar.
func (g *SessionGuard) Login(ctx context.Context, email, password string) (*dto.AdminLoginResponse, error) {
	body, err := json.Marshal(dto.AdminLoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var out dto.AdminLoginResponse
	if err := g.post(ctx, "/admin/login", body, &out); err != nil {
		return nil, err
	}
	g.tokens.set(out.AccessToken)
	return &out, nil
}

// Logout ends the session on the server and forgets the access token. The
// server always answers 200; transport errors are still reported.
func (g *SessionGuard) Logout(ctx context.Context) error {
	defer g.tokens.set("")
	return g.post(ctx, "/admin/logout", nil, nil)
}

// Do sends req with the bearer token. A TOKEN_EXPIRED answer triggers one
// refresh and one replay. If the server rejects the refresh the stored token
// is cleared and a *SessionExpiredError holding the original 401 response is
// returned. Cancellation of req's context or a transport error during the
// refresh leaves the token in place.
func (g *SessionGuard) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		raw, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to buffer request body: %w", err)
		}
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(raw)), nil
		}
	}
	return g.do(req, attemptInitial)
}

func (g *SessionGuard) do(req *http.Request, state attempt) (*http.Response, error) {
	outgoing := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		outgoing.Body = body
	}

	used := g.tokens.get()
	if used != "" {
		outgoing.Header.Set("Authorization", "Bearer "+used)
	}

	resp, err := g.http.Do(outgoing)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || state != attemptInitial {
		return resp, nil
	}

	authErr, err := peekAuthError(resp)
	if err != nil {
		return nil, err
	}
	if authErr.Code != dto.ErrorTokenExpired {
		return resp, nil
	}

	// Another call may already have refreshed while this one was in flight
	if current := g.tokens.get(); current == "" || current == used {
		if err := g.refreshToken(req.Context()); err != nil {
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				_ = resp.Body.Close()
				return nil, fmt.Errorf("failed to refresh access token: %w", err)
			}
			g.tokens.set("")
			return nil, &SessionExpiredError{Response: resp, Err: err}
		}
	}

	_ = resp.Body.Close()
	return g.do(req, attemptReplayed)
}

// refreshToken rotates the refresh cookie. Concurrent callers share one
// request, which runs detached from any single caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (g *SessionGuard) refreshToken(ctx context.Context) error {
	result := g.refresh.DoChan("refresh", func() (any, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		var out dto.RefreshTokenResponse
		if err := g.post(refreshCtx, "/admin/refresh-token", nil, &out); err != nil {
			return nil, err
		}
		if out.AccessToken == "" {
			return nil, &APIError{StatusCode: http.StatusOK, Message: "refresh returned no access token"}
		}
		g.tokens.set(out.AccessToken)
		return nil, nil
	})

	select {
	case res := <-result:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *SessionGuard) post(ctx context.Context, path string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		authErr, _ := peekAuthError(resp)
		return &APIError{StatusCode: resp.StatusCode, Message: authErr.Message, Code: authErr.Code}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// peekAuthError decodes the head of an error body and stitches it back in
// front of the unread rest so the caller still sees the full resp.Body.
func peekAuthError(resp *http.Response) (dto.AuthErrorResponse, error) {
	var authErr dto.AuthErrorResponse

	original := resp.Body
	raw, err := io.ReadAll(io.LimitReader(original, maxErrorBody))
	if err != nil {
		_ = original.Close()
		return authErr, fmt.Errorf("failed to read error response: %w", err)
	}
	resp.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(raw), original), original}

	_ = json.Unmarshal(raw, &authErr)
	return authErr, nil
}
