// Package twelvedata is the Twelve Data quote provider.
package twelvedata

import "time"

// Config holds the Twelve Data client settings.
type Config struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"` // e.g. https://api.twelvedata.com
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit int           `mapstructure:"rate_limit"` // calls per minute, 0 disables throttling
}
