package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// TimeoutConfig holds configuration for the timeout middleware
type TimeoutConfig struct {
	// Timeout is the maximum duration for a request
	Timeout time.Duration

	// ErrorMessage is the message returned on timeout
	ErrorMessage string

	// StatusCode is the HTTP status code returned on timeout
	StatusCode int
}

// DefaultTimeoutConfig returns the default timeout configuration
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Timeout:      30 * time.Second,
		ErrorMessage: "Request timeout",
		StatusCode:   http.StatusGatewayTimeout,
	}
}

// Timeout creates a timeout middleware with default configuration
func Timeout(timeout time.Duration) Middleware {
	config := DefaultTimeoutConfig()
	config.Timeout = timeout
	return TimeoutWithConfig(config)
}

// timeoutWriter wraps http.ResponseWriter to prevent writes after timeout
type timeoutWriter struct {
	w    http.ResponseWriter
	mu   sync.Mutex
	done bool
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.done {
		return 0, http.ErrHandlerTimeout
	}
	return tw.w.Write(b)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.done {
		return
	}
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.w.Header()
}

func (tw *timeoutWriter) timeout() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.done = true
}

// TimeoutWithConfig creates a timeout middleware with custom configuration
func TimeoutWithConfig(config TimeoutConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), config.Timeout)
			defer cancel()

			done := make(chan struct{})
			panicChan := make(chan interface{}, 1)

			// Wrap the response writer so the handler goroutine cannot
			// write after the timeout response has been sent
			tw := &timeoutWriter{w: w}

			r = r.WithContext(ctx)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
				}()

				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case <-done:
				return
			case p := <-panicChan:
				// Re-panic on the request goroutine so Recovery sees it
				panic(p)
			case <-ctx.Done():
				tw.timeout()
				if ctx.Err() == context.DeadlineExceeded {
					http.Error(w, config.ErrorMessage, config.StatusCode)
				}
				return
			}
		})
	}
}
