package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eireweather/met-warnings-service/internal/observability"
)

func newTestClient(t *testing.T, endpoint string, timeout time.Duration) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(endpoint, timeout, observability.NewMetricsForTesting(), logger)
}

func TestClientFetch(t *testing.T) {
	t.Run("decodes warning batch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `[{"id":"w1","level":"Orange","regions":["EI07"]}]`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 5*time.Second)
		raws, err := client.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, raws, 1)
		assert.Equal(t, "w1", raws[0].ID)
		assert.Equal(t, "Orange", raws[0].Level)
	})

	t.Run("empty array is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `[]`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 5*time.Second)
		raws, err := client.Fetch(context.Background())
		require.NoError(t, err)
		assert.Empty(t, raws)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 5*time.Second)
		_, err := client.Fetch(context.Background())
		require.Error(t, err)

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindBadStatus, fe.Kind)
		assert.Equal(t, http.StatusServiceUnavailable, fe.Status)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"not":"an array"`)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 5*time.Second)
		_, err := client.Fetch(context.Background())
		require.Error(t, err)

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindParse, fe.Kind)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL, 50*time.Millisecond)
		_, err := client.Fetch(context.Background())
		require.Error(t, err)

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindTimeout, fe.Kind)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		client := newTestClient(t, srv.URL, time.Second)
		_, err := client.Fetch(context.Background())
		require.Error(t, err)

		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindConnection, fe.Kind)
	})
}

func TestClientBreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, time.Second)

	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background())
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, KindBadStatus, fe.Kind, "attempt %d should reach upstream", i+1)
	}

	// Third consecutive failure trips the breaker; the next call is
	// rejected without touching the server.
	_, err := client.Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindCircuitOpen, fe.Kind)
}

func TestFetchErrorMessage(t *testing.T) {
	fe := &FetchError{Kind: KindBadStatus, Status: 503}
	assert.Contains(t, fe.Error(), "503")

	wrapped := newFetchError(KindTimeout, context.DeadlineExceeded)
	assert.ErrorIs(t, wrapped, context.DeadlineExceeded)
}
