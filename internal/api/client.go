package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quorumstor/replictl/internal/debug"
)

// DefaultPort is the cluster control API port.
const DefaultPort = 8000

const readRetryMaxElapsed = 15 * time.Second

// Client is an authenticated connection to one cluster node.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Options control client construction.
type Options struct {
	Port int // API port; DefaultPort if zero

	// InsecureSkipVerify disables TLS certificate verification. Lab
	// clusters commonly run with self-signed certificates.
	InsecureSkipVerify bool

	Timeout time.Duration // per-request timeout; 30s if zero
}

func newClient(host string, opts Options) *Client {
	port := opts.Port
	if port == 0 {
		port = DefaultPort
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: fmt.Sprintf("https://%s:%d", host, port),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: opts.InsecureSkipVerify,
				},
			},
		},
	}
}

// Login opens a session with username/password credentials and returns an
// authenticated client.
func Login(ctx context.Context, host, username, password string, opts Options) (*Client, error) {
	c := newClient(host, opts)

	body := map[string]string{"username": username, "password": password}
	var resp struct {
		BearerToken string `json:"bearer_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/session/login", body, &resp); err != nil {
		return nil, fmt.Errorf("login to %s failed: %w", host, err)
	}
	if resp.BearerToken == "" {
		return nil, fmt.Errorf("login to %s failed: no bearer token in response", host)
	}
	c.token = resp.BearerToken
	debug.Logf("logged in to %s as %s\n", host, username)
	return c, nil
}

// LoginWithToken returns a client authenticated with a long-lived access
// token. The token is verified with a cluster identity call.
func LoginWithToken(ctx context.Context, host, token string, opts Options) (*Client, error) {
	c := newClient(host, opts)
	c.token = token
	if _, err := c.GetClusterConf(ctx); err != nil {
		return nil, fmt.Errorf("token login to %s failed: %w", host, err)
	}
	debug.Logf("logged in to %s with access token\n", host)
	return c, nil
}

// GetClusterConf returns the cluster identity.
func (c *Client) GetClusterConf(ctx context.Context) (*ClusterConf, error) {
	var conf ClusterConf
	if err := c.get(ctx, "/v1/cluster/settings", &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// ListNetworkStatuses returns the per-node network address reports.
func (c *Client) ListNetworkStatuses(ctx context.Context) ([]NodeNetworkStatus, error) {
	var nodes []NodeNetworkStatus
	if err := c.get(ctx, "/v1/network/interfaces/status", &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// TreeWalkPreorder walks the directory tree under path. The first entry is
// always path itself; maxDepth 1 yields the immediate children after it.
func (c *Client) TreeWalkPreorder(ctx context.Context, path string, maxDepth int) ([]DirEntry, error) {
	endpoint := "/v1/files/tree-walk?path=" + url.QueryEscape(path) +
		"&max-depth=" + strconv.Itoa(maxDepth)
	var resp struct {
		Entries []DirEntry `json:"entries"`
	}
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// ListSourceRelationshipStatuses returns this cluster's outgoing
// relationship records.
func (c *Client) ListSourceRelationshipStatuses(ctx context.Context) ([]Relationship, error) {
	var rels []Relationship
	if err := c.get(ctx, "/v1/replication/source-relationships/statuses", &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// ListTargetRelationshipStatuses returns this cluster's incoming
// relationship records.
func (c *Client) ListTargetRelationshipStatuses(ctx context.Context) ([]Relationship, error) {
	var rels []Relationship
	if err := c.get(ctx, "/v1/replication/target-relationships/statuses", &rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// CreateSourceRelationship registers a new relationship replicating
// sourcePath on this cluster to targetPath on the cluster at address.
// The API does not guarantee idempotency; callers dedupe before calling.
func (c *Client) CreateSourceRelationship(ctx context.Context, address, sourcePath, targetPath string) (*Relationship, error) {
	req := CreateRelationshipRequest{
		Address:    address,
		SourcePath: sourcePath,
		TargetPath: targetPath,
	}
	var rel Relationship
	if err := c.do(ctx, http.MethodPost, "/v1/replication/source-relationships", req, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// DeleteSourceRelationship removes a source-side relationship by id.
func (c *Client) DeleteSourceRelationship(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/replication/source-relationships/"+url.PathEscape(id), nil, nil)
}

// DeleteTargetRelationship removes a target-side relationship by id.
func (c *Client) DeleteTargetRelationship(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/replication/target-relationships/"+url.PathEscape(id), nil, nil)
}

// AuthorizeRelationship accepts a relationship awaiting authorization on
// this (destination) cluster.
func (c *Client) AuthorizeRelationship(ctx context.Context, id string, allowNonEmptyDir, allowPathCreate bool) error {
	req := AuthorizeRequest{
		AllowNonEmptyDirectory: allowNonEmptyDir,
		AllowFSPathCreate:      allowPathCreate,
	}
	return c.do(ctx, http.MethodPost, "/v1/replication/target-relationships/"+url.PathEscape(id)+"/authorize", req, nil)
}

// get performs a read with retry on transient (5xx, transport) failures.
// Mutations go through do directly and are never retried.
func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = readRetryMaxElapsed
	return backoff.Retry(func() error {
		err := c.do(ctx, http.MethodGet, endpoint, nil, out)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrUnauthorized) {
			return backoff.Permanent(err)
		}
		var reqErr *RequestError
		if errors.As(err, &reqErr) && !isRetryable(reqErr.StatusCode) {
			return backoff.Permanent(err)
		}
		debug.Logf("retrying GET %s: %v\n", endpoint, err)
		return err
	}, backoff.WithContext(bo, ctx))
}

// do executes one request against the API and decodes the response into out
// (which may be nil for calls with no payload).
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	debug.Logf("API request: %s %s\n", method, endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	debug.Logf("API response: status=%d bytes=%d\n", resp.StatusCode, len(respBody))

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return decodeRequestError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
	}
	return nil
}

// decodeRequestError turns an API error payload into a RequestError. The
// payload shape is {"error_class": "...", "description": "..."}; anything
// else is kept verbatim as the message.
func decodeRequestError(statusCode int, body []byte) error {
	var payload struct {
		ErrorClass  string `json:"error_class"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && (payload.ErrorClass != "" || payload.Description != "") {
		return &RequestError{
			StatusCode: statusCode,
			Code:       payload.ErrorClass,
			Message:    payload.Description,
		}
	}
	return &RequestError{StatusCode: statusCode, Message: string(body)}
}
