package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	c2dberrors "c2dbscraper/pkg/errors"
	"c2dbscraper/pkg/logger"
	"c2dbscraper/pkg/models"
)

// ClientOptions configures a catalog client
type ClientOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Limiter caps the request rate. Nil means no ceiling.
	Limiter *rate.Limiter
}

// Client talks to the C2DB web server
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	limiter    *rate.Limiter
	logger     logger.Logger
}

// NewClient creates a new catalog client
func NewClient(opts ClientOptions, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	headers := map[string]string{
		"Accept": "text/html,application/json,chemical/x-cif,*/*;q=0.8",
	}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		headers: headers,
		baseURL: opts.BaseURL,
		limiter: opts.Limiter,
		logger:  log,
	}
}

// TableURL returns the URL of a catalog page
func (c *Client) TableURL(sid, page int) string {
	return TableURL(c.baseURL, sid, page)
}

// FileURL returns the download URL of one file of a material
func (c *Client) FileURL(slug string, kind models.Kind) string {
	return FileURL(c.baseURL, slug, kind)
}

// doRequest performs a GET request with the configured headers and returns
// the response once its status has been checked.
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, c2dberrors.NewNetworkError(url, fmt.Errorf("failed to create request: %w", err))
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c2dberrors.NewNetworkError(url, err)
		}
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    url,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, c2dberrors.NewNetworkError(url, err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if err := c.checkResponseStatus(url, resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// checkResponseStatus turns any non-2xx answer into a TransportError
func (c *Client) checkResponseStatus(url string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	c.logger.ErrorWithFields("unexpected response status", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    url,
	})
	return c2dberrors.NewStatusError(url, resp.StatusCode, resp.Status)
}

// FetchText downloads url and returns the body as text
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.ErrorWithFields("failed to read response body", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return "", c2dberrors.NewNetworkError(url, err)
	}
	return string(body), nil
}

// Stream opens url and hands back the body for the caller to consume. The
// caller must close it.
func (c *Client) Stream(ctx context.Context, url string) (io.ReadCloser, error) {
	resp, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	return &transportBody{ReadCloser: resp.Body, url: url}, nil
}

// FetchPage returns the HTML of one catalog page
func (c *Client) FetchPage(ctx context.Context, sid, page int) (string, error) {
	url := c.TableURL(sid, page)
	c.logger.DebugWithFields("fetching catalog page", map[string]interface{}{
		"sid":  sid,
		"page": page,
		"url":  url,
	})
	return c.FetchText(ctx, url)
}

// transportBody reports read failures mid-stream as TransportErrors
type transportBody struct {
	io.ReadCloser
	url string
}

func (b *transportBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		return n, c2dberrors.NewNetworkError(b.url, err)
	}
	return n, err
}
