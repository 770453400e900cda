// Package backend is the REST client for the funding platform APIs the portal
// fronts. Every call returns an *errors.AppError on failure so handlers can
// render error summaries without knowing about HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/calcfunding/portal/internal/domain/model"
	apperrors "github.com/calcfunding/portal/internal/errors"
	obserrors "github.com/calcfunding/portal/internal/observability/errors"
	"github.com/calcfunding/portal/internal/ports"
)

const maxErrorBody = 64 << 10

// Config captures the backend connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Client overrides the HTTP client; the OAuth2 settings are ignored when set.
	Client *http.Client
	Logger *slog.Logger

	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Client talks to the funding platform REST APIs.
type Client struct {
	baseURL *url.URL
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.Backend = (*Client)(nil)

// NewClient builds a backend client. When TokenURL and ClientID are set the
// client authenticates with the OAuth2 client credentials grant.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("backend base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base url %q must be absolute", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
		if cfg.TokenURL != "" && cfg.ClientID != "" {
			cc := clientcredentials.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				TokenURL:     cfg.TokenURL,
				Scopes:       cfg.Scopes,
			}
			hc = cc.Client(ctx)
			hc.Timeout = timeout
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		client:  hc,
		logger:  logger.With("component", "backend_client"),
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// getJSON issues a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, c.endpoint(path, query), nil, "", out)
}

// sendJSON encodes in as the body of a method request and decodes the response into out.
func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, c.endpoint(path, nil), body, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "create backend request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.Wrap(ctxErr, apperrors.ErrCodeCanceled, "backend request canceled")
		}
		c.logger.WarnContext(ctx, "backend request failed",
			"method", method,
			"path", req.URL.Path,
			"error", err,
			"error_type", obserrors.Classify(err),
		)
		return apperrors.Unavailable(err, "There is a problem with the service")
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "backend request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode backend response")
	}
	return nil
}

// decodeErrorResponse maps a non-2xx response onto an AppError.
func decodeErrorResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var failure model.ValidationFailureResponse
	decoded := json.Unmarshal(raw, &failure) == nil

	switch resp.StatusCode {
	case http.StatusBadRequest:
		if decoded && (len(failure.Failures) > 0 || failure.ErrorReportURL != "") {
			msg := failure.Message
			if msg == "" {
				msg = "The request contains errors"
			}
			return apperrors.ValidationFailures(msg, failure.Failures, failure.ErrorReportURL)
		}
		return apperrors.Validation(fallbackMessage(failure.Message, raw, "The request was rejected"))
	case http.StatusNotFound:
		return apperrors.NotFound(fallbackMessage(failure.Message, nil, "The requested resource was not found"))
	case http.StatusForbidden, http.StatusUnauthorized:
		return apperrors.Forbidden("You do not have permission to perform this action")
	case http.StatusConflict:
		return apperrors.Conflict(fallbackMessage(failure.Message, raw, "The request conflicts with existing data"))
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return apperrors.Unavailable(fmt.Errorf("backend %s", resp.Status), "There is a problem with the service")
	default:
		return apperrors.Wrap(
			fmt.Errorf("backend %s: %s", resp.Status, strings.TrimSpace(string(raw))),
			apperrors.ErrCodeInternal,
			"There is a problem with the service",
		)
	}
}

func fallbackMessage(msg string, raw []byte, fallback string) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") && len(text) < 512 {
		return text
	}
	return fallback
}

func searchQuery(req model.SearchRequest) url.Values {
	q := url.Values{}
	if req.PageNumber > 0 {
		q.Set("pageNumber", fmt.Sprint(req.PageNumber))
	}
	if req.PageSize > 0 {
		q.Set("pageSize", fmt.Sprint(req.PageSize))
	}
	if req.SearchTerm != "" {
		q.Set("searchTerm", req.SearchTerm)
	}
	for key, values := range req.Filters {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	return q
}
