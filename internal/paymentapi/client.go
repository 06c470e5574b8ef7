// Package paymentapi клиент внешнего HTTP API платежей, подписок и пользователей.
//
// Каждый запрос подписывается bearer-токеном из token.Provider. Ответы на чтение
// приходят в конверте {"data": ...}. Ошибки приводятся к *APIError (ответ вне 2xx)
// или *TransportError (сбой на стороне клиента).
package paymentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/billing-console/internal/lib/sl"
	"github.com/magabrotheeeer/billing-console/internal/lib/token"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 4 << 20
	cachePrefix    = "paymentapi:"
)

// Cache кэш ответов на чтение.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Client клиент платёжного API. Безопасен для конкурентного использования.
type Client struct {
	baseURL    string
	tokens     token.Provider
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	log        *slog.Logger
}

type Option func(*Client)

// WithHTTPClient заменяет http.Client (по умолчанию таймаут 10s).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithCache включает кэш для списков транзакций и платёжных методов.
// Нулевой ttl кэш не включает.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if cache != nil && ttl > 0 {
			c.cache = cache
			c.cacheTTL = ttl
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New создаёт клиент для API по адресу baseURL.
func New(baseURL string, tokens token.Provider, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do выполняет запрос и возвращает тело успешного ответа.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	// ошибка токена или сборки запроса повтором не исправится
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	c.log.Debug("payments api call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp, raw)}
	}
	return raw, nil
}

// call выполняет запрос и декодирует ответ в T.
func call[T any](ctx context.Context, c *Client, op, method, path string, body any) (T, error) {
	var result T
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return result, fmt.Errorf("%s: %w", op, err)
	}
	if err := decode(raw, &result); err != nil {
		return result, fmt.Errorf("%s: %w", op, &TransportError{Err: err})
	}
	return result, nil
}

// cached читает ответ из кэша, а при промахе запрашивает API и сохраняет результат.
// Ошибки кэша не прерывают запрос.
func cached[T any](ctx context.Context, c *Client, op, path string) (T, error) {
	if c.cache == nil {
		return call[T](ctx, c, op, http.MethodGet, path, nil)
	}
	log := c.log.With(slog.String("op", op))

	var result T
	found, err := c.cache.Get(ctx, cachePrefix+path, &result)
	if err != nil {
		log.Warn("cache read failed", sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = call[T](ctx, c, op, http.MethodGet, path, nil)
	if err != nil {
		return result, err
	}
	if err := c.cache.Set(ctx, cachePrefix+path, result, c.cacheTTL); err != nil {
		log.Warn("cache write failed", sl.Err(err))
	}
	return result, nil
}

func (c *Client) invalidate(ctx context.Context, paths ...string) {
	if c.cache == nil {
		return
	}
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, cachePrefix+p)
	}
	if err := c.cache.Invalidate(ctx, keys...); err != nil {
		c.log.Warn("cache invalidation failed", sl.Err(err))
	}
}

// decode разбирает конверт {"data": ...}; если поля data нет, тело декодируется целиком.
func decode(raw []byte, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, &env); err != nil {
			return err
		}
		if len(env.Data) > 0 {
			raw = env.Data
		}
	}
	return json.Unmarshal(raw, dst)
}

func errorMessage(resp *http.Response, raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
