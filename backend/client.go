package backend

import (
	"encoding/json"
	"time"

	"inboxdash/metrics"
	"inboxdash/models"

	"github.com/valyala/fasthttp"
)

const (
	resultPath = "/result"
	loginPath  = "/auth/login"
)

// Client talks to the triage backend. It never retries.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *fasthttp.Client
}

// NewClient creates a client for baseURL (no trailing slash).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &fasthttp.Client{
			Name:                "inboxdash",
			MaxConnsPerHost:     16,
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
}

// LoginURL is where the browser is sent to authenticate.
func (c *Client) LoginURL() string {
	return c.baseURL + loginPath
}

// ResultURL is the categorized snapshot endpoint.
func (c *Client) ResultURL() string {
	return c.baseURL + resultPath
}

// FetchResult performs one GET /result bounded by the client timeout.
func (c *Client) FetchResult() (models.CategoryMap, error) {
	start := time.Now()
	categories, err := c.fetchResult()
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
	}
	metrics.BackendRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return categories, err
}

func (c *Client) fetchResult() (models.CategoryMap, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.ResultURL())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, &SyncError{Kind: BackendUnreachable, Err: err}
	}

	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, &SyncError{Kind: ServerError, StatusCode: code}
	}

	var result models.ResultResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &SyncError{Kind: BackendUnreachable, Err: err}
	}

	if result.Status != models.StatusSuccess {
		return nil, &SyncError{Kind: NotAuthenticated, Status: result.Status}
	}

	if result.Categories == nil {
		result.Categories = models.CategoryMap{}
	}
	return result.Categories, nil
}
