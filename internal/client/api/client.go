// Package api is the HTTP transport of the client. It wraps every call with
// the retry policy, picks the right authentication headers, classifies
// failures into typed errors and transparently refreshes an expired token
// once before giving up.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/carblock/internal/common"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRetryBase = 500 * time.Millisecond
	maxRetries       = 2 // attempts = 1 + maxRetries
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	proxyUser string
	proxyPass string

	retryBase time.Duration

	mu      sync.Mutex
	token   string
	onToken func(token, userID string)
}

type Option func(*Client)

// WithProxyAuth sets the basic-auth credential for a reverse proxy sitting
// in front of the API. When a request carries a bearer token the credential
// goes to Proxy-Authorization so the two do not collide; on public calls it
// takes the Authorization header itself.
func WithProxyAuth(user, password string) Option {
	return func(c *Client) {
		c.proxyUser = user
		c.proxyPass = password
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTokenListener registers a callback invoked whenever the client obtains
// a fresh token (login or transparent refresh), so the session store can
// persist it.
func WithTokenListener(fn func(token, userID string)) Option {
	return func(c *Client) { c.onToken = fn }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryBase:  defaultRetryBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setAuthHeaders(req *http.Request, token string) {
	proxyCred := ""
	if c.proxyUser != "" {
		proxyCred = "Basic " + base64.StdEncoding.EncodeToString([]byte(c.proxyUser+":"+c.proxyPass))
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		if proxyCred != "" {
			req.Header.Set("Proxy-Authorization", proxyCred)
		}
		return
	}
	if proxyCred != "" {
		req.Header.Set("Authorization", proxyCred)
	}
}

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// once performs a single HTTP exchange and classifies the outcome. It never
// retries and never refreshes.
func (c *Client) once(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req, c.Token())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", ErrServer, err)
		}
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)
	return classify(resp.StatusCode, eb)
}

func classify(status int, eb errorBody) error {
	msg := eb.Error
	if eb.Details != "" {
		msg = eb.Details
	}

	switch status {
	case http.StatusBadRequest:
		if msg == "" {
			msg = "bad request"
		}
		return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
	case http.StatusUnauthorized:
		if eb.Error == common.ErrTokenExpired.Error() {
			return common.ErrTokenExpired
		}
		return common.ErrorUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorAlreadyExists
	}
	if status >= 500 {
		return fmt.Errorf("%w: status %d", ErrServer, status)
	}
	return fmt.Errorf("unexpected status %d", status)
}

func retryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrServer)
}

// doRetry runs once under the retry policy: up to 3 attempts total, delays
// starting at retryBase and doubling. Client errors (4xx) are never retried.
func (c *Client) doRetry(ctx context.Context, method, path string, body []byte, out any) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(c.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.once(ctx, method, path, body, out)
		if err != nil && retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// do is the entry point for endpoint methods. When a call comes back 401
// with an expired token and we hold one, the token is refreshed and the
// call replayed a single time.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = b
	}

	err := c.doRetry(ctx, method, path, body, out)
	if err == nil || !errors.Is(err, common.ErrTokenExpired) {
		return err
	}
	if c.Token() == "" {
		return err
	}

	if _, err := c.Refresh(ctx); err != nil {
		return err
	}
	return c.doRetry(ctx, method, path, body, out)
}

// --- auth ---

func (c *Client) StartAuth(ctx context.Context, phone string) (*StartAuthResult, error) {
	var res StartAuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/start", map[string]string{"phone": phone}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) VerifyAuth(ctx context.Context, phone, code string) (*AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/verify", map[string]string{"phone": phone, "code": code}, &res)
	if err != nil {
		return nil, err
	}
	c.adoptToken(&res)
	return &res, nil
}

// Refresh exchanges the current token for a fresh one. Used internally on
// expiry and available to callers that want to refresh eagerly.
func (c *Client) Refresh(ctx context.Context) (*AuthResult, error) {
	var res AuthResult
	err := c.doRetry(ctx, http.MethodPost, "/api/auth/refresh", mustJSON(map[string]string{"token": c.Token()}), &res)
	if err != nil {
		return nil, err
	}
	c.adoptToken(&res)
	return &res, nil
}

func (c *Client) adoptToken(res *AuthResult) {
	c.SetToken(res.Token)
	if c.onToken != nil {
		c.onToken(res.Token, res.UserID)
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

// --- server info ---

func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var res ServerInfo
	if err := c.do(ctx, http.MethodGet, "/api/server-info", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// --- profile ---

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var res Profile
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateMe(ctx context.Context, upd *UpdateProfile) (*Profile, error) {
	var res Profile
	if err := c.do(ctx, http.MethodPut, "/api/users/me", upd, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SetPushToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/users/push-token", map[string]string{"token": token}, nil)
}

func (c *Client) UserByPlate(ctx context.Context, plate string) (*PublicProfile, error) {
	var res PublicProfile
	err := c.do(ctx, http.MethodGet, "/api/users/by-plate?plate="+url.QueryEscape(plate), nil, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// --- blocks ---

type CreateBlockRequest struct {
	BlockedPlate  string `json:"blocked_plate"`
	NotifyOwner   bool   `json:"notify_owner"`
	DepartureTime string `json:"departure_time,omitempty"`
}

func (c *Client) CreateBlock(ctx context.Context, req *CreateBlockRequest) (*Block, error) {
	var res Block
	if err := c.do(ctx, http.MethodPost, "/api/blocks/", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) MyBlocks(ctx context.Context) ([]*Block, error) {
	var res []*Block
	if err := c.do(ctx, http.MethodGet, "/api/blocks/", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) BlocksAgainstMyPlates(ctx context.Context, plate string) ([]*BlockAgainstMe, error) {
	path := "/api/blocks/my"
	if plate != "" {
		path += "?my_plate=" + url.QueryEscape(plate)
	}
	var res []*BlockAgainstMe
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CheckBlock(ctx context.Context, plate string) (*CheckResult, error) {
	var res CheckResult
	err := c.do(ctx, http.MethodGet, "/api/blocks/check?plate="+url.QueryEscape(plate), nil, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteBlock(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/blocks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) WarnOwner(ctx context.Context, blockID string) error {
	return c.do(ctx, http.MethodPost, "/api/blocks/"+url.PathEscape(blockID)+"/warn-owner", nil, nil)
}

// --- notifications ---

func (c *Client) Notifications(ctx context.Context, unreadOnly bool) ([]*Notification, error) {
	path := "/api/notifications/"
	if unreadOnly {
		path += "?unread=true"
	}
	var res []*Notification
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/api/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, "/api/notifications/read-all", nil, nil)
}

// --- plates ---

func (c *Client) Plates(ctx context.Context) ([]*Plate, error) {
	var res []*Plate
	if err := c.do(ctx, http.MethodGet, "/api/user/plates/", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) AddPlate(ctx context.Context, plate, departureTime string) (*Plate, error) {
	var res Plate
	req := map[string]string{"plate": plate}
	if departureTime != "" {
		req["departure_time"] = departureTime
	}
	if err := c.do(ctx, http.MethodPost, "/api/user/plates/", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeletePlate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/user/plates/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SetPrimaryPlate(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/user/plates/"+url.PathEscape(id)+"/primary", nil, nil)
}

func (c *Client) SetPlateDepartureTime(ctx context.Context, id, departureTime string) error {
	return c.do(ctx, http.MethodPatch, "/api/user/plates/"+url.PathEscape(id),
		map[string]string{"departure_time": departureTime}, nil)
}
