package pkgmanager

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Registry endpoints.
const (
	DefaultRegistry = "https://registry.npmjs.org"
	MirrorRegistry  = "https://registry.npmmirror.com"
)

// RemoteVersions looks up the version published under a dist-tag.
type RemoteVersions interface {
	GetRemoteVersion(ctx context.Context, pkg, distTag string) (string, error)
}

// ResolveRegistry picks the registry URL: an explicit flag wins, then the
// mirror preference, then the configured default.
func ResolveRegistry(flag string, useMirror bool, configured string) string {
	switch {
	case flag != "":
		return flag
	case useMirror:
		return MirrorRegistry
	case configured != "":
		return configured
	default:
		return DefaultRegistry
	}
}

// Client queries a package registry over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient returns a registry client for baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultRegistry
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		userAgent:  "box-cli",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetRemoteVersion returns the version pkg publishes under distTag.
func (c *Client) GetRemoteVersion(ctx context.Context, pkg, distTag string) (string, error) {
	tags, err := c.DistTags(ctx, pkg)
	if err != nil {
		return "", err
	}
	version, ok := tags[distTag]
	if !ok {
		return "", fmt.Errorf("package %s has no %q dist-tag", pkg, distTag)
	}
	return version, nil
}

// DistTags fetches every dist-tag of pkg.
func (c *Client) DistTags(ctx context.Context, pkg string) (map[string]string, error) {
	endpoint := fmt.Sprintf("%s/-/package/%s/dist-tags", c.baseURL, url.PathEscape(pkg))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching dist-tags for %s: %w", pkg, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("package %s not found in registry %s", pkg, c.baseURL)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, pkg)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var tags map[string]string
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("parsing dist-tags JSON: %w", err)
	}
	return tags, nil
}
