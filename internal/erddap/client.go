// Package erddap builds ERDDAP tabledap queries and normalizes the server's
// JSON and CSV responses into values tool callers can consume directly.
package erddap

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nguyandy/erddap-mcp-demo/internal/logger"
	"golang.org/x/time/rate"
)

// DefaultTimeout applies to every request made by a Client.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 512

// Client talks to any number of ERDDAP servers through one shared
// *http.Client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	log        logger.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request-wide timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. A non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithUserAgent sets the User-Agent header of outbound requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock overrides the clock used for the default end time of data queries.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient returns a Client whose transport follows redirects and skips TLS
// certificate verification, since many ERDDAP deployments serve self-signed
// or incomplete chains.
func NewClient(opts ...Option) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec

	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout, Transport: transport},
		limiter:    rate.NewLimiter(rate.Inf, 0),
		userAgent:  "erddap-mcp",
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections held by the shared transport.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// StandardNames lists every CF standard name used by datasets on the server.
func (c *Client) StandardNames(ctx context.Context, baseURL string) ([]string, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	v := url.Values{}
	v.Set("page", "1")
	v.Set("itemsPerPage", fmt.Sprint(standardNamesPageSize))

	t, err := c.getTable(ctx, base+"/categorize/standard_name/index.json?"+v.Encode())
	if err != nil {
		return nil, err
	}
	return standardNamesFromTable(t), nil
}

// SearchDatasets runs an advanced search restricted to tabledap datasets.
func (c *Client) SearchDatasets(ctx context.Context, baseURL string, params SearchParams) ([]DatasetSummary, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	u := base + "/search/advanced.json?tabledap/allDatasets.json&" + params.Values().Encode()

	t, err := c.getTable(ctx, u)
	if err != nil {
		return nil, err
	}
	summaries, err := datasetSummariesFromTable(t)
	if err != nil {
		return nil, &RequestError{URL: u, Err: err}
	}
	return summaries, nil
}

// ListDatasets returns the allDatasets listing as CSV, verbatim.
func (c *Client) ListDatasets(ctx context.Context, baseURL string) (string, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return "", err
	}
	body, err := c.get(ctx, base+"/tabledap/allDatasets.csvp?"+allDatasetsColumns, "text/csv")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DatasetVariables returns the metadata of every variable of a dataset.
func (c *Client) DatasetVariables(ctx context.Context, baseURL, datasetID string) ([]VariableMetadata, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(datasetID) == "" {
		return nil, invalidArgument("dataset_id is required")
	}
	u := base + "/info/" + url.PathEscape(datasetID) + "/index.json"

	t, err := c.getTable(ctx, u)
	if err != nil {
		return nil, err
	}
	vars, err := variablesFromTable(t)
	if err != nil {
		return nil, &RequestError{URL: u, Err: err}
	}
	return vars, nil
}

// ListDatasetVariables renders DatasetVariables as CSV.
func (c *Client) ListDatasetVariables(ctx context.Context, baseURL, datasetID string) (string, error) {
	vars, err := c.DatasetVariables(ctx, baseURL, datasetID)
	if err != nil {
		return "", err
	}
	return VariablesCSV(vars)
}

// VariableData downloads the requested variables as CSV. A zero End means now.
func (c *Client) VariableData(ctx context.Context, baseURL string, q DataQuery) (*FilePayload, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(q.DatasetID) == "" {
		return nil, invalidArgument("dataset_id is required")
	}
	if len(q.Variables) == 0 {
		return nil, invalidArgument("variable_name is required")
	}
	if q.End.IsZero() {
		q.End = c.now().UTC()
	}

	u := base + "/tabledap/" + url.PathEscape(q.DatasetID) + ".csvp?" + q.Encode()
	body, err := c.get(ctx, u, "text/csv")
	if err != nil {
		return nil, err
	}
	return csvPayload(q.Filename(), string(body)), nil
}

func normalizeBaseURL(raw string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return "", invalidArgument("erddap_url is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", invalidArgument("erddap_url %q is not an absolute URL", raw)
	}
	return base, nil
}

func (c *Client) getTable(ctx context.Context, u string) (*table, error) {
	body, err := c.get(ctx, u, "application/json")
	if err != nil {
		return nil, err
	}
	t, err := decodeTable(body)
	if err != nil {
		return nil, &RequestError{URL: u, Err: err}
	}
	return t, nil
}

func (c *Client) get(ctx context.Context, u, accept string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RequestError{URL: u, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &RequestError{URL: u, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("erddap request failed", "url", u, "error", err)
		return nil, &RequestError{URL: u, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{URL: u, StatusCode: resp.StatusCode, Timeout: isTimeout(err), Err: fmt.Errorf("failed to read response: %w", err)}
	}
	c.log.Debug("erddap request", "url", u, "status", resp.StatusCode, "bytes", len(body), "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{URL: u, StatusCode: resp.StatusCode, Err: errors.New(errorSnippet(resp.Status, body))}
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func errorSnippet(status string, body []byte) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return status
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return status + ": " + msg
}
