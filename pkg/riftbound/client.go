package riftbound

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"riftscraper/pkg/errors"
	"riftscraper/pkg/logger"
)

// ClientOptions configures the HTTP behavior of a Client. Zero values
// fall back to the defaults the gallery tolerates.
type ClientOptions struct {
	UserAgent       string
	PageTimeout     time.Duration
	DownloadTimeout time.Duration
	ProbeTimeout    time.Duration
}

// Client talks to the gallery page and the asset CDN
type Client struct {
	pageClient     *http.Client
	downloadClient *http.Client
	probeClient    *http.Client
	headers        map[string]string
	logger         logger.Logger
}

// NewClient creates a new gallery and CDN client
func NewClient(opts ClientOptions, log logger.Logger) *Client {
	// Use default logger if none provided
	if log == nil {
		log = logger.GetLogger()
	}

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 30 * time.Second
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = 30 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 15 * time.Second
	}

	return &Client{
		pageClient:     &http.Client{Timeout: opts.PageTimeout},
		downloadClient: &http.Client{Timeout: opts.DownloadTimeout},
		// Probes ride a shorter timeout; redirects are followed so the
		// final status decides whether the asset exists.
		probeClient: &http.Client{Timeout: opts.ProbeTimeout},
		headers: map[string]string{
			"User-Agent": opts.UserAgent,
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(httpClient *http.Client, req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("network error: %v", err), 0)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// get performs a GET request against the given URL using httpClient
func (c *Client) get(httpClient *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}

	return c.doRequest(httpClient, req)
}

// checkResponseStatus maps HTTP error statuses onto scraper error types
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	errType := errors.StatusCodeType(resp.StatusCode)
	switch errType {
	case errors.ErrorTypeNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errType, "resource not found", resp.StatusCode)
	case errors.ErrorTypeRateLimit:
		c.logger.WarnWithFields("rate limited by server", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errType, "rate limit exceeded", resp.StatusCode)
	case errors.ErrorTypeServerError:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errType, "server error", resp.StatusCode)
	default:
		c.logger.ErrorWithFields("unexpected HTTP error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errors.New(errType, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
	}
}

// FetchPage fetches an HTML page and returns its raw bytes
func (c *Client) FetchPage(pageURL string) ([]byte, error) {
	c.logger.DebugWithFields("fetching page", map[string]interface{}{
		"url": pageURL,
	})

	resp, err := c.get(c.pageClient, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to read page body: %v", err), resp.StatusCode)
	}

	c.logger.DebugWithFields("successfully fetched page", map[string]interface{}{
		"url":  pageURL,
		"size": len(body),
	})

	return body, nil
}

// DownloadImage downloads an image from the given URL
func (c *Client) DownloadImage(imageURL string) ([]byte, error) {
	c.logger.DebugWithFields("downloading image", map[string]interface{}{
		"url": imageURL,
	})

	resp, err := c.get(c.downloadClient, imageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.ErrorWithFields("failed to read image data", map[string]interface{}{
			"url":   imageURL,
			"error": err.Error(),
		})
		return nil, errors.New(errors.ErrorTypeNetwork, fmt.Sprintf("failed to download image: %v", err), 0)
	}

	c.logger.DebugWithFields("successfully downloaded image", map[string]interface{}{
		"url":  imageURL,
		"size": len(data),
	})

	return data, nil
}

// ProbeAsset issues a HEAD request and reports whether the asset exists.
// Redirects are followed; only a final 200 counts as a hit.
func (c *Client) ProbeAsset(probeURL string) (bool, error) {
	req, err := http.NewRequest(http.MethodHead, probeURL, nil)
	if err != nil {
		return false, errors.New(errors.ErrorTypeUnknown, fmt.Sprintf("failed to create request: %v", err), 0)
	}

	resp, err := c.doRequest(c.probeClient, req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
