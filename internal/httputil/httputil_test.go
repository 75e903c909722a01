// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTimeoutContextDeadline(t *testing.T) {
	assert.True(t, IsTimeout(context.DeadlineExceeded))
	assert.True(t, IsTimeout(fmt.Errorf("calling esearch: %w", context.DeadlineExceeded)))
}

func TestIsTimeoutClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(10 * time.Millisecond)
	_, err := client.Get(srv.URL)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestIsTimeoutFalseForOtherErrors(t *testing.T) {
	assert.False(t, IsTimeout(nil))
	assert.False(t, IsTimeout(errors.New("HTTP 500")))
	assert.False(t, IsTimeout(context.Canceled))
}

func TestNewClientTimeout(t *testing.T) {
	client := NewClient(30 * time.Second)
	assert.Equal(t, 30*time.Second, client.Timeout)

	unbounded := NewClient(0)
	assert.Zero(t, unbounded.Timeout)
}
