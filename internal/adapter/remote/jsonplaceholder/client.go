package jsonplaceholder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-sync/internal/domain/user"
	apperrors "user-sync/pkg/errors"
	"user-sync/pkg/logger"
)

// DefaultBaseURL is the public demo API the client talks to unless configured otherwise.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

const usersPath = "users"

// Operation names, shared with decorators for metrics and journal labels.
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Client performs exactly one HTTP exchange per call against the /users resource
// and funnels every failure into one of the pkg/errors kinds.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	log        *zap.Logger
}

// NewClient creates a Client rooted at baseURL.
// If httpClient is nil, http.DefaultClient will be used.
func NewClient(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		validate:   validator.New(),
		log:        log,
	}
}

// BaseURL returns the endpoint root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListUsers issues GET /users.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	const op = OpList

	endpoint, err := c.endpoint()
	if err != nil {
		return nil, apperrors.New(apperrors.KindInvalidURL, op, err)
	}

	resp, err := c.do(ctx, op, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.body) == 0 {
		return nil, apperrors.New(apperrors.KindNoData, op, nil)
	}

	users, err := c.decodeList(resp.body)
	if err != nil {
		c.logFor(ctx).Debug("decoding user list failed", zap.Error(err))
		return nil, apperrors.New(apperrors.KindDecodingError, op, err)
	}

	return users, nil
}

// CreateUser issues POST /users with u as the JSON body and returns the server's representation.
func (c *Client) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return domain.User{}, apperrors.New(apperrors.KindInvalidURL, OpCreate, err)
	}
	return c.send(ctx, OpCreate, http.MethodPost, endpoint, u)
}

// UpdateUser issues PUT /users/{id} with u as the JSON body and returns the server's representation.
func (c *Client) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	endpoint, err := c.endpoint(strconv.FormatInt(u.ID, 10))
	if err != nil {
		return domain.User{}, apperrors.New(apperrors.KindInvalidURL, OpUpdate, err)
	}
	return c.send(ctx, OpUpdate, http.MethodPut, endpoint, u)
}

// DeleteUser issues DELETE /users/{id}. Only status 200 counts as success.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	const op = OpDelete

	endpoint, err := c.endpoint(strconv.FormatInt(id, 10))
	if err != nil {
		return apperrors.New(apperrors.KindInvalidURL, op, err)
	}

	resp, err := c.do(ctx, op, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	// Exact match, not the 2xx range.
	if resp.status != http.StatusOK {
		return apperrors.New(apperrors.KindRequestFailed, op, fmt.Errorf("unexpected status %d", resp.status))
	}

	return nil
}

// send encodes u, performs the exchange and decodes a single user from the response.
func (c *Client) send(ctx context.Context, op, method, endpoint string, u domain.User) (domain.User, error) {
	payload, err := json.Marshal(u)
	if err != nil {
		return domain.User{}, apperrors.New(apperrors.KindEncodingError, op, err)
	}

	resp, err := c.do(ctx, op, method, endpoint, payload)
	if err != nil {
		return domain.User{}, err
	}
	if len(resp.body) == 0 {
		return domain.User{}, apperrors.New(apperrors.KindNoData, op, nil)
	}

	out, err := c.decodeOne(resp.body)
	if err != nil {
		c.logFor(ctx).Debug("decoding user failed", zap.String("op", op), zap.Error(err))
		return domain.User{}, apperrors.New(apperrors.KindDecodingError, op, err)
	}

	return out, nil
}

type response struct {
	status int
	body   []byte
}

// do performs the HTTP exchange. Only transport-level problems are errors here;
// status codes are left to the caller.
func (c *Client) do(ctx context.Context, op, method, endpoint string, payload []byte) (*response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInvalidURL, op, err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := logger.GetRequestID(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}

	log := c.logFor(ctx)
	log.Debug("sending request", zap.String("method", method), zap.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed", zap.String("method", method), zap.String("url", endpoint), zap.Error(err))
		return nil, apperrors.New(apperrors.KindRequestFailed, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.New(apperrors.KindRequestFailed, op, fmt.Errorf("read body: %w", err))
	}

	log.Debug("received response",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
	)

	return &response{status: resp.StatusCode, body: data}, nil
}

func (c *Client) endpoint(segments ...string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("empty base url")
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base url %q is not absolute", c.baseURL)
	}
	return base.JoinPath(append([]string{usersPath}, segments...)...).String(), nil
}

func (c *Client) logFor(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, c.log)
}
