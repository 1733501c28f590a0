// Package di provides dependency injection factories for creating application components.
package di

import (
	"stock_trader/internal/platform/externalapi/twelvedata"
	platformhttp "stock_trader/internal/platform/http"
)

// NewQuoteClient creates a fully configured Twelve Data client with its own HTTP client.
// Quotes are never cached: every lookup reaches the provider.
func NewQuoteClient(cfg twelvedata.Config) *twelvedata.Client {
	return twelvedata.NewClient(cfg, platformhttp.NewHTTPClient(cfg.Timeout))
}
