package request

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/imishinist/http-shortcuts/internal/config"
)

// RetryBackoff is the base of the wait between attempts: the n-th retry
// waits RetryBackoff^n seconds, starting at n = 0.
const RetryBackoff = 2.4

type Client struct {
	client  *http.Client
	config  *config.Config
	logger  *logrus.Logger
	backoff func(retry int) time.Duration
}

// Response is the outcome of a sent request.
type Response struct {
	Status     string
	StatusCode int
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
	Attempts   int
}

func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		config:  cfg,
		logger:  logger,
		backoff: backoffDelay,
	}, nil
}

func backoffDelay(retry int) time.Duration {
	return time.Duration(math.Pow(RetryBackoff, float64(retry)) * float64(time.Second))
}

// Send issues req, retrying transport failures up to the configured number of
// retries. Responses with an error status are returned as is.
func (c *Client) Send(ctx context.Context, req *http.Request) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.config.Retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt - 1)
			c.logger.WithFields(logrus.Fields{
				"url":     req.URL.String(),
				"attempt": attempt + 1,
				"wait":    wait,
			}).WithError(lastErr).Warn("retrying request")

			if err := Wait(ctx, wait); err != nil {
				return nil, fmt.Errorf("failed to send request: %w", err)
			}
		}

		attemptReq, err := rewind(ctx, req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := c.do(attemptReq)
		if err == nil {
			resp.Attempts = attempt + 1
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("failed to send request after %d attempts: %w", c.config.Retries+1, lastErr)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	elapsed := time.Since(start)
	c.logger.WithFields(logrus.Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"status":  resp.StatusCode,
		"elapsed": elapsed,
	}).Info("request sent")

	return &Response{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Elapsed:    elapsed,
	}, nil
}

// rewind returns req bound to ctx with a fresh body for every attempt after
// the first.
func rewind(ctx context.Context, req *http.Request, attempt int) (*http.Request, error) {
	out := req.WithContext(ctx)
	if attempt == 0 || req.Body == nil || req.GetBody == nil {
		return out, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("failed to rewind request body: %w", err)
	}
	out.Body = body
	return out, nil
}

// Wait blocks for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
