package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
)

func TestHTTPRateSourceFetchesAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.08}}`))
	}))
	defer srv.Close()

	src := NewHTTPRateSource(srv.URL, time.Second, time.Minute)

	rate, err := src.Rate(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1.08")), "got %s", rate)

	// second lookup of the same pair comes from cache
	rate, err = src.Rate(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("1.08")))
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPRateSourceExpiredCacheRefetches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"base":"EUR","rates":{"USD":1.10}}`))
	}))
	defer srv.Close()

	src := NewHTTPRateSource(srv.URL, time.Second, time.Nanosecond)

	_, err := src.Rate(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = src.Rate(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestHTTPRateSourceErrorPaths(t *testing.T) {
	t.Run("non-200 response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		src := NewHTTPRateSource(srv.URL, time.Second, time.Minute)
		_, err := src.Rate(context.Background(), "EUR", "USD")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrRateUnavailable))
	})

	t.Run("missing pair in response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"base":"EUR","rates":{}}`))
		}))
		defer srv.Close()

		src := NewHTTPRateSource(srv.URL, time.Second, time.Minute)
		_, err := src.Rate(context.Background(), "EUR", "USD")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrRateUnavailable))
	})

	t.Run("unreachable host", func(t *testing.T) {
		src := NewHTTPRateSource("http://127.0.0.1:1", 100*time.Millisecond, time.Minute)
		_, err := src.Rate(context.Background(), "EUR", "USD")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrRateUnavailable))
	})
}
