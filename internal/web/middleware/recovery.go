package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// Recovery creates a middleware that recovers from handler panics,
// logs the panic with its stack, and responds 500 with a generic
// JSON body that leaks no internals
func Recovery(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.String("request_id", GetRequestID(r.Context())),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Any("panic", rec),
						zap.String("stack", string(debug.Stack())),
					)

					writeRecoveryResponse(w)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeRecoveryResponse sends a generic JSON 500 response
func writeRecoveryResponse(w http.ResponseWriter) {
	body, err := json.Marshal(map[string]interface{}{
		"error":   "internal_server_error",
		"message": "An unexpected error occurred",
	})
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "Internal Server Error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write(body)
}
