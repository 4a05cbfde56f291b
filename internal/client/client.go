package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/dock/internal/logging"
	"github.com/GriffinCanCode/AgentOS/dock/internal/ptyhost"
)

var (
	ErrNotFound  = errors.New("terminal not found")
	ErrUnhealthy = errors.New("terminal endpoint unhealthy")
)

// Config configures a Client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// DefaultConfig returns client settings suited to a local endpoint.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		Timeout:      10 * time.Second,
		MaxRetries:   4,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
	}
}

// APIError is an error response from the endpoint.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("terminal endpoint: %d %s", e.Status, e.Message)
}

// Health is the body of GET /health.
type Health struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Terminals struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"terminals"`
}

type terminalList struct {
	Terminals []ptyhost.Info `json:"terminals"`
	Count     int            `json:"count"`
}

// Client talks to the terminal endpoint's REST API.
type Client struct {
	resty *resty.Client
	log   *logging.Logger
}

// New creates a client.
func New(cfg Config, log *logging.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	if log == nil {
		log = logging.NewNop()
	}
	def := DefaultConfig(cfg.BaseURL)
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = def.RetryWaitMin
	}
	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = def.RetryWaitMax
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = cfg.Timeout
	// Hand the final response back to resty instead of a generic "giving up" error.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	r := resty.NewWithClient(retryClient.StandardClient()).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("User-Agent", "dockctl/1.0").
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)

	return &Client{resty: r, log: log.Named("client")}, nil
}

// BaseURLFromChannel derives the REST base URL from the terminal websocket
// URL, e.g. ws://host:8000/api/terminals/ws becomes http://host:8000.
func BaseURLFromChannel(channelURL string) (string, error) {
	u, err := url.Parse(channelURL)
	if err != nil {
		return "", fmt.Errorf("parse terminal URL: %w", err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported terminal URL scheme %q", u.Scheme)
	}
	return u.Scheme + "://" + u.Host, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.resty.R().SetContext(ctx).SetError(&APIError{})
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	apiErr, _ := resp.Error().(*APIError)
	if apiErr == nil {
		apiErr = &APIError{}
	}
	apiErr.Status = resp.StatusCode()
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
	}
	if apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	}
	return apiErr
}

// Health fetches the endpoint health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	resp, err := c.request(ctx).SetResult(&h).Get("/health")
	if err := check(resp, err); err != nil {
		return Health{}, err
	}
	if h.Status != "healthy" {
		return h, fmt.Errorf("%w: status %q", ErrUnhealthy, h.Status)
	}
	return h, nil
}

// WaitHealthy returns once the endpoint reports healthy. Transient failures
// are retried by the transport.
func (c *Client) WaitHealthy(ctx context.Context) error {
	h, err := c.Health(ctx)
	if err != nil {
		return err
	}
	c.log.Debug("endpoint healthy",
		zap.String("uptime", h.Uptime),
		zap.Int("terminals", h.Terminals.Total))
	return nil
}

// ListTerminals lists the PTY sessions on the endpoint.
func (c *Client) ListTerminals(ctx context.Context) ([]ptyhost.Info, error) {
	var out terminalList
	resp, err := c.request(ctx).SetResult(&out).Get("/api/terminals")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out.Terminals, nil
}

// Terminal fetches one PTY session.
func (c *Client) Terminal(ctx context.Context, id string) (ptyhost.Info, error) {
	var info ptyhost.Info
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetResult(&info).
		Get("/api/terminals/{id}")
	if err := check(resp, err); err != nil {
		return ptyhost.Info{}, err
	}
	return info, nil
}

// Output fetches the recent output of a PTY session.
func (c *Client) Output(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetHeader("Accept", "text/plain").
		Get("/api/terminals/{id}/output")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Resize resizes a PTY session.
func (c *Client) Resize(ctx context.Context, id string, cols, rows int) (ptyhost.Info, error) {
	var info ptyhost.Info
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetBody(map[string]int{"cols": cols, "rows": rows}).
		SetResult(&info).
		Post("/api/terminals/{id}/resize")
	if err := check(resp, err); err != nil {
		return ptyhost.Info{}, err
	}
	return info, nil
}

// Kill terminates a PTY session.
func (c *Client) Kill(ctx context.Context, id string) error {
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		Delete("/api/terminals/{id}")
	return check(resp, err)
}
