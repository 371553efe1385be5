package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func TestRequireCallerID(t *testing.T) {
	zlog.Init()

	var gotCallerID string
	handler := RequireCallerID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCallerID = CallerID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing identity rejected", func(t *testing.T) {
		gotCallerID = ""
		req := httptest.NewRequest(http.MethodPost, "/api/images/presigned-url", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, gotCallerID)
	})

	t.Run("identity passed through context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/images/presigned-url", nil)
		req.Header.Set(CallerIDHeader, "user-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-42", gotCallerID)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	zlog.Init()

	handler := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
