// Package dataforseo is a small client for the DataForSEO v3 SERP API.
package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ranktracker/internal/models"
)

const (
	defaultBaseURL = "https://api.dataforseo.com"
	postPath       = "/v3/serp/google/organic/task_post"
	getPath        = "/v3/serp/google/organic/task_get/advanced/"

	defaultDepth  = 30
	maxCrawlPages = 4
	searchDomain  = "google.com"
	searchParam   = "adtest=on"
)

// ErrCircuitOpen is returned while the breaker rejects calls to the API.
var ErrCircuitOpen = errors.New("dataforseo: circuit open")

// Client submits SERP tasks and fetches their results.
type Client interface {
	PostTask(ctx context.Context, req TaskRequest) (string, error)
	GetTaskResult(ctx context.Context, taskID string) (*models.TaskResult, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithPingbackURL sets the pingback_url sent with each task. DataForSEO
// substitutes $id and $tag before calling it.
func WithPingbackURL(url string) Option {
	return func(c *httpClient) {
		c.pingbackURL = url
	}
}

type httpClient struct {
	login       string
	password    string
	baseURL     string
	pingbackURL string
	http        *http.Client
	limiter     *rate.Limiter
	cb          *gobreaker.CircuitBreaker
}

// NewClient creates a DataForSEO client using basic auth credentials.
func NewClient(login, password string, opts ...Option) Client {
	c := &httpClient{
		login:    login,
		password: password,
		baseURL:  defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(20), 1),
	}
	for _, o := range opts {
		o(c)
	}

	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dataforseo",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			zap.L().Warn("dataforseo: circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

func (c *httpClient) PostTask(ctx context.Context, req TaskRequest) (string, error) {
	depth := req.Depth
	if depth <= 0 {
		depth = defaultDepth
	}

	body, err := json.Marshal([]taskPostItem{{
		Priority:           1,
		Keyword:            req.Keyword,
		LanguageName:       req.LanguageName,
		LocationCoordinate: req.LocationCoordinate,
		SEDomain:           searchDomain,
		Tag:                req.Tag,
		Depth:              depth,
		MaxCrawlPages:      maxCrawlPages,
		SearchParam:        searchParam,
		PingbackURL:        c.pingbackURL,
	}})
	if err != nil {
		return "", eris.Wrap(err, "dataforseo: marshal task")
	}

	env, err := c.do(ctx, http.MethodPost, postPath, body)
	if err != nil {
		return "", err
	}
	if env.StatusCode != StatusOK {
		return "", eris.Errorf("dataforseo: task_post failed with code %d: %s", env.StatusCode, env.StatusMessage)
	}
	if len(env.Tasks) == 0 || env.Tasks[0].ID == "" {
		return "", eris.New("dataforseo: task_post returned no task id")
	}
	return env.Tasks[0].ID, nil
}

func (c *httpClient) GetTaskResult(ctx context.Context, taskID string) (*models.TaskResult, error) {
	if taskID == "" {
		return nil, eris.New("dataforseo: empty task id")
	}

	env, err := c.do(ctx, http.MethodGet, getPath+taskID, nil)
	if err != nil {
		return nil, err
	}
	return env.toTaskResult(taskID)
}

// do sends one request through the limiter and the breaker. Only transport
// failures and 5xx/429 responses count against the breaker.
func (c *httpClient) do(ctx context.Context, method, path string, body []byte) (*envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "dataforseo: rate limiter")
		}
	}

	var (
		respBody []byte
		status   int
	)
	_, err := c.cb.Execute(func() (interface{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, eris.Wrap(err, "dataforseo: create request")
		}
		req.SetBasicAuth(c.login, c.password)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "dataforseo: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "dataforseo: read response")
		}
		status = resp.StatusCode
		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			return nil, eris.Errorf("dataforseo: unexpected status %d: %s", status, string(respBody))
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("dataforseo: unexpected status %d: %s", status, string(respBody))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, eris.Wrap(err, "dataforseo: unmarshal response")
	}
	return &env, nil
}
