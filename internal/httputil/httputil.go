// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages. The pipeline
// never retries automatically; failed calls surface to the user, who
// re-triggers the action.
package httputil

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"
)

// NewClient returns an HTTP client with the given request timeout.
// A zero timeout means no client-level timeout; callers then bound requests
// with per-request contexts.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// IsTimeout reports whether err stems from an expired deadline — a
// client-level timeout, a context deadline, or a net-level timeout. The
// error taxonomy distinguishes timeouts from other HTTP failures; callers
// otherwise treat both identically.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
