package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{Address: ":0"})
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	config := DefaultConfig(handler)

	assert.Equal(t, ":8080", config.Address)
	assert.NotZero(t, config.ReadTimeout)
	assert.NotZero(t, config.WriteTimeout)
	assert.NotZero(t, config.ReadHeaderTimeout)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	})

	config := DefaultConfig(handler)
	config.Address = "127.0.0.1:0" // let the OS pick a free port

	srv, err := New(config)
	require.NoError(t, err)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Wait for the listener to come up
	require.Eventually(t, func() bool {
		return srv.Addr() != config.Address
	}, time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr())
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	assert.Equal(t, http.ErrServerClosed, <-errChan)
}

func TestGracefulShutdown_HooksRun(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	config := DefaultConfig(handler)
	config.Address = "127.0.0.1:0"

	srv, err := New(config)
	require.NoError(t, err)

	gs := NewGracefulShutdown(srv, &ShutdownConfig{Timeout: 2 * time.Second})

	hookRan := false
	gs.RegisterHook(func(ctx context.Context) error {
		hookRan = true
		return nil
	})
	gs.RegisterHook(func(ctx context.Context) error {
		// A failing hook must not abort shutdown
		return fmt.Errorf("hook failure")
	})

	go srv.Start()
	require.Eventually(t, func() bool {
		return srv.Addr() != config.Address
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, gs.Shutdown())
	assert.True(t, hookRan)

	// Shutdown is idempotent
	require.NoError(t, gs.Shutdown())
}
