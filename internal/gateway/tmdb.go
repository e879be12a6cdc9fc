// Package gateway is a stateless TMDB v3 client. Every endpoint is one method
// that builds a Request and decodes the typed response; nothing is retried or
// cached here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/amaumene/cinescope/internal/errors"
	"github.com/amaumene/cinescope/internal/models"
	"github.com/amaumene/cinescope/pkg/httputil"
	"github.com/amaumene/cinescope/pkg/logger"
	"github.com/amaumene/cinescope/pkg/ratelimiter"
	"github.com/amaumene/cinescope/pkg/security"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

var ErrNoCredentials = fmt.Errorf("TMDB credentials not configured")

// Config holds the credentials and defaults applied to every request.
type Config struct {
	BaseURL     string
	AccessToken string
	APIKey      string
	Language    string
	Region      string
}

// Request describes a single call. Path may contain {name} placeholders that
// are filled from PathParams.
type Request struct {
	Method     string
	Path       string
	PathParams map[string]string
	Query      url.Values
	Body       interface{}
}

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	StatusCode    int
	TMDBCode      int
	StatusMessage string
}

func (e *HTTPError) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("TMDB API error: status %d (code %d): %s", e.StatusCode, e.TMDBCode, e.StatusMessage)
	}
	return fmt.Sprintf("TMDB API error: status %d", e.StatusCode)
}

func (e *HTTPError) HTTPStatus() int    { return e.StatusCode }
func (e *HTTPError) APIStatusCode() int { return e.TMDBCode }
func (e *HTTPError) APIMessage() string { return e.StatusMessage }

type TMDB struct {
	baseURL     string
	accessToken string
	apiKey      string
	mu          sync.RWMutex
	language    string
	region      string
	rateLimiter ratelimiter.RateLimiter
	httpClient  *http.Client
	logger      logger.Logger
	validator   *security.APIKeyValidator
}

func NewTMDB(cfg Config, httpClient *http.Client, log logger.Logger) *TMDB {
	validator := security.NewAPIKeyValidator()

	if httpClient == nil {
		httpClient = httputil.NewDefaultHTTPClient()
	}
	if log == nil {
		log = logger.Nop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	t := &TMDB{
		baseURL:     baseURL,
		language:    cfg.Language,
		region:      cfg.Region,
		rateLimiter: ratelimiter.NewTokenBucket(40, 20),
		httpClient:  httpClient,
		logger:      log,
		validator:   validator,
	}
	if cfg.AccessToken != "" {
		t.accessToken = validator.SanitizeAccessToken(cfg.AccessToken)
	}
	if cfg.APIKey != "" {
		t.apiKey = validator.SanitizeAPIKey(cfg.APIKey)
	}
	return t
}

func (t *TMDB) SetRateLimiter(rl ratelimiter.RateLimiter) {
	t.rateLimiter = rl
}

// SetLocale changes the default language and region query parameters.
func (t *TMDB) SetLocale(language, region string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.language = language
	t.region = region
}

// Do executes req and decodes the JSON body into out when out is non-nil.
func (t *TMDB) Do(ctx context.Context, req Request, out interface{}) error {
	if t.accessToken == "" && t.apiKey == "" {
		return errors.New(errors.KindInvalidHeader, ErrNoCredentials)
	}

	if t.rateLimiter != nil {
		if err := t.rateLimiter.Wait(ctx); err != nil {
			return err
		}
	}

	httpReq, err := t.build(ctx, req)
	if err != nil {
		return err
	}

	t.logger.Debugf("[TMDB] %s %s", req.Method, req.Path)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", req.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return t.statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.Path, err)
	}
	return nil
}

func (t *TMDB) build(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	path := req.Path
	for name, value := range req.PathParams {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	if strings.Contains(path, "{") {
		return nil, fmt.Errorf("unresolved path parameter in %s", path)
	}

	query := url.Values{}
	for k, vs := range req.Query {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	t.mu.RLock()
	language, region := t.language, t.region
	t.mu.RUnlock()
	if language != "" && query.Get("language") == "" {
		query.Set("language", language)
	}
	if region != "" && query.Get("region") == "" {
		query.Set("region", region)
	}
	if t.accessToken == "" {
		// v3 keys are only accepted as a query parameter
		query.Set("api_key", t.apiKey)
	}

	target := t.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	if t.accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	return httpReq, nil
}

func (t *TMDB) statusError(resp *http.Response) error {
	httpErr := &HTTPError{StatusCode: resp.StatusCode}

	var status models.TMDBStatusResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if len(data) > 0 && json.Unmarshal(data, &status) == nil {
		httpErr.TMDBCode = status.StatusCode
		httpErr.StatusMessage = status.StatusMessage
	}

	t.logger.Debugf("[TMDB] request failed: %v", httpErr)
	return httpErr
}

func pageQuery(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {fmt.Sprint(page)}}
}
