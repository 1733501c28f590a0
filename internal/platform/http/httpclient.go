// Package http holds the shared outbound HTTP client and the gin middleware used by every route.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for outbound API calls.
// http.DefaultClient has no timeout, so callers always go through this.
// timeout bounds the whole request including the body read.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
