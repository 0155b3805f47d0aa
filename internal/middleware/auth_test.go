package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitlake/internal/middleware"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	const apiKey = "test-api-key"

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		require.NoError(t, err)
	})

	authMiddleware := middleware.NewAuthMiddlewareHandler(apiKey)
	handler := authMiddleware.AuthCheck()(nextHandler)

	for name, tc := range map[string]struct {
		method         string
		path           string
		apiKey         string
		expectedStatus int
	}{
		"options request": {
			method:         http.MethodOptions,
			path:           "/api/v1/workouts",
			expectedStatus: http.StatusOK,
		},
		"health check, no key": {
			method:         http.MethodGet,
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
		"root, no key": {
			method:         http.MethodGet,
			path:           "/",
			expectedStatus: http.StatusOK,
		},
		"missing key": {
			method:         http.MethodGet,
			path:           "/api/v1/workouts",
			expectedStatus: http.StatusUnauthorized,
		},
		"invalid key": {
			method:         http.MethodGet,
			path:           "/api/v1/workouts",
			apiKey:         "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
		"valid key": {
			method:         http.MethodGet,
			path:           "/api/v1/workouts",
			apiKey:         apiKey,
			expectedStatus: http.StatusOK,
		},
		"valid key, post": {
			method:         http.MethodPost,
			path:           "/api/v1/sync/hevy",
			apiKey:         apiKey,
			expectedStatus: http.StatusOK,
		},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.apiKey != "" {
				req.Header.Set("X-API-Key", tc.apiKey)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}
