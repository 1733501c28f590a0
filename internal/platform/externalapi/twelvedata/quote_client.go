package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_trader/internal/feature/quote/domain/entity"
	quoteusecase "stock_trader/internal/feature/quote/usecase"
	"stock_trader/internal/platform/externalapi/twelvedata/dto"
	"stock_trader/internal/shared/apperror"
	"stock_trader/internal/shared/ratelimiter"
)

// Client implements QuoteProvider against the Twelve Data /quote endpoint.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

var _ quoteusecase.QuoteProvider = (*Client)(nil)

// NewClient creates a Client throttled to cfg.RateLimit calls per minute.
func NewClient(cfg Config, client *http.Client) *Client {
	return NewClientWithLimiter(cfg, client, ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute))
}

// NewClientWithLimiter creates a Client with an explicit limiter.
func NewClientWithLimiter(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// Lookup fetches the latest price for symbol.
// Not found answers map to ErrUnknownSymbol, everything else that fails to ErrQuoteUnavailable.
func (c *Client) Lookup(ctx context.Context, symbol string) (entity.Quote, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return entity.Quote{}, unavailable(symbol, fmt.Errorf("rate limiter: %w", err))
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("apikey", c.cfg.APIKey)
	u := fmt.Sprintf("%s/quote?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.Quote{}, unavailable(symbol, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return entity.Quote{}, unavailable(symbol, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode == http.StatusNotFound {
		return entity.Quote{}, unknown(symbol)
	}
	if res.StatusCode >= 400 {
		return entity.Quote{}, unavailable(symbol, fmt.Errorf("twelvedata http %d", res.StatusCode))
	}

	var body dto.QuoteResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.Quote{}, unavailable(symbol, fmt.Errorf("decode: %w", err))
	}

	if body.Status == "error" {
		// 400 and 404 mean the symbol is invalid or unlisted; 401 and 429 are ours.
		if body.Code == http.StatusNotFound || body.Code == http.StatusBadRequest {
			return entity.Quote{}, unknown(symbol)
		}
		return entity.Quote{}, unavailable(symbol, fmt.Errorf("twelvedata %d: %s", body.Code, body.Message))
	}

	price, err := decimal.NewFromString(body.Close)
	if err != nil {
		return entity.Quote{}, unavailable(symbol, fmt.Errorf("parse close %q: %w", body.Close, err))
	}
	if price.IsNegative() {
		return entity.Quote{}, unavailable(symbol, fmt.Errorf("negative close %s", price))
	}

	name := body.Name
	if name == "" {
		name = symbol
	}
	got := body.Symbol
	if got == "" {
		got = symbol
	}
	return entity.Quote{Symbol: entity.NormalizeSymbol(got), Name: name, Price: price}, nil
}

func unknown(symbol string) error {
	return apperror.Newf(apperror.ErrUnknownSymbol, "no quote found for %s", symbol)
}

func unavailable(symbol string, cause error) error {
	slog.Warn("quote provider failed", "symbol", symbol, "error", cause)
	if errors.Is(cause, context.DeadlineExceeded) {
		return apperror.Newf(apperror.ErrQuoteUnavailable, "quote for %s timed out", symbol)
	}
	return apperror.Newf(apperror.ErrQuoteUnavailable, "could not fetch a quote for %s", symbol)
}
