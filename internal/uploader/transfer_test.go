package uploader

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransferEngine_Upload(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)

	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	engine := NewTransferEngine(srv.Client())

	var ratios []float64
	err := engine.Upload(context.Background(), srv.URL, "image/jpeg", payload, func(ratio float64) {
		ratios = append(ratios, ratio)
	})

	require.NoError(t, err)
	require.Equal(t, payload, gotBody)
	require.Equal(t, "image/jpeg", gotContentType)

	require.NotEmpty(t, ratios)
	require.Equal(t, 1.0, ratios[len(ratios)-1])
	for i := 1; i < len(ratios); i++ {
		require.GreaterOrEqual(t, ratios[i], ratios[i-1], "progress must be monotonic")
	}
}

func TestTransferEngine_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	engine := NewTransferEngine(srv.Client())

	err := engine.Upload(context.Background(), srv.URL, "image/png", []byte("data"), nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusForbidden, transportErr.StatusCode)
}

func TestTransferEngine_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	engine := NewTransferEngine(nil)

	err := engine.Upload(context.Background(), srv.URL, "image/png", []byte("data"), nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}
