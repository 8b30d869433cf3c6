// Package nacos implements a client for the nacos v1 open API, covering the
// two operations the retrieval pipeline needs: authenticating for an access
// token and fetching a single configuration document with its identity and
// checksum metadata.
package nacos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/systmms/nacosconf/internal/secure"
)

// Item is a configuration document as the open API returns it from
// GET /nacos/v1/cs/configs?show=all.
type Item struct {
	DataID  string `json:"dataId"`
	Group   string `json:"group"`
	Content string `json:"content"`
	MD5     string `json:"md5"`
	Tenant  string `json:"tenant"`
	Type    string `json:"type"`
}

// Config holds the settings for building a Client.
type Config struct {
	// Addr is the server address, host[:port]. A leading http:// or
	// https:// scheme is stripped; requests go over plain HTTP, matching
	// the open API default.
	Addr string

	// Namespace is the tenant documents are fetched from
	Namespace string

	// Username and Password authenticate against the auth endpoint. With an
	// empty Username no login is performed and requests go out unauthenticated.
	Username string
	Password string

	// HTTPClient is optional; http.DefaultClient is used when nil. No
	// timeout is configured here, callers bound requests via context.
	HTTPClient *http.Client

	// Logger is optional; a discard logger is used when nil
	Logger *slog.Logger
}

// Client talks to one nacos server. The login credential is held in a memory
// enclave and only opened while a login request is being built; the access
// token is cached until shortly before its TTL runs out.
type Client struct {
	baseURL    string
	namespace  string
	username   string
	credential *secure.Credential
	httpc      *http.Client
	log        *slog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// New validates the address and builds a Client. No network traffic happens
// here; authentication is performed lazily on the first fetch.
func New(cfg Config) (*Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return nil, errors.New("server address is empty")
	}

	u, err := url.Parse("http://" + addr)
	if err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", addr, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server address %q", addr)
	}

	c := &Client{
		baseURL:   "http://" + addr + "/nacos",
		namespace: cfg.Namespace,
		username:  cfg.Username,
		httpc:     cfg.HTTPClient,
		log:       cfg.Logger,
	}
	if c.httpc == nil {
		c.httpc = http.DefaultClient
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	if cfg.Username != "" {
		c.credential = secure.NewCredential([]byte(cfg.Password))
	}

	return c, nil
}

// GetConfig fetches the document identified by dataID and group from the
// configured namespace, logging in first if credentials are configured.
func (c *Client) GetConfig(ctx context.Context, dataID, group string) (*Item, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("show", "all")
	q.Set("dataId", dataID)
	q.Set("group", group)
	q.Set("tenant", c.namespace)
	if token != "" {
		q.Set("accessToken", token)
	}

	c.log.DebugContext(ctx, "fetching config",
		"dataId", dataID, "group", group, "tenant", c.namespace, "authenticated", token != "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/cs/configs?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errors.New("config not found (status 404)")
	case http.StatusForbidden:
		return nil, fmt.Errorf("access denied (status 403): %s", bodySnippet(resp.Body))
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bodySnippet(resp.Body))
	}

	var item Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to decode config response: %w", err)
	}
	return &item, nil
}

// ensureToken returns a valid access token, logging in when the cached one is
// missing or about to expire. With no username configured it returns the
// empty token and performs no request.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if c.username == "" {
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}
	if err := c.login(ctx); err != nil {
		return "", err
	}
	return c.accessToken, nil
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenTTL    int64  `json:"tokenTtl"`
}

// login posts the credential to the auth endpoint and caches the returned
// token. Callers must hold c.mu.
func (c *Client) login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", c.username)

	locked, err := c.credential.Open()
	if err != nil {
		return fmt.Errorf("failed to open credential: %w", err)
	}
	form.Set("password", string(locked.Bytes()))
	locked.Destroy()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed (status %d): %s", resp.StatusCode, bodySnippet(resp.Body))
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode login response: %w", err)
	}
	if lr.AccessToken == "" {
		return errors.New("login response contained no access token")
	}

	ttl := time.Duration(lr.TokenTTL) * time.Second
	c.accessToken = lr.AccessToken
	// Refresh a little early rather than racing the server-side expiry
	c.tokenExpiry = time.Now().Add(ttl - ttl/10)

	c.log.DebugContext(ctx, "authenticated against nacos", "username", c.username, "tokenTtl", lr.TokenTTL)
	return nil
}

// bodySnippet reads a short prefix of an error response body for diagnostics.
func bodySnippet(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 256))
	if err != nil || len(b) == 0 {
		return "<no body>"
	}
	return strings.TrimSpace(string(b))
}
