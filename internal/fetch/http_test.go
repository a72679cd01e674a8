package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumehunt-engine/internal/scrape/types"
)

func TestHTTPFetcher_SendsUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>Привіт</body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: 5 * time.Second})
	body, err := f.Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)
	assert.Contains(t, body, "Привіт")
}

func TestHTTPFetcher_DecodesCharset(t *testing.T) {
	// "Київ" in windows-1251
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1251")
		w.Write([]byte{0xca, 0xe8, 0xbf, 0xe2})
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{})
	body, err := f.Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Київ", body)
}

func TestHTTPFetcher_Non2xx(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		f := NewHTTPFetcher(HTTPOptions{})
		_, err := f.Fetch(context.Background(), srv.URL, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFetchFailed), "status %d", code)
		srv.Close()
	}
}

func TestHTTPFetcher_OversizedBodyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{MaxBody: 63})
	_, err := f.Fetch(context.Background(), srv.URL, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))

	f = NewHTTPFetcher(HTTPOptions{MaxBody: 64})
	body, err := f.Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)
	assert.Len(t, body, 64)
}

func TestHTTPFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewHTTPFetcher(HTTPOptions{Timeout: time.Second})
	_, err := f.Fetch(context.Background(), url, Options{})
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestHTTPFetcher_FixedUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{UserAgent: "test-agent"})
	_, err := f.Fetch(context.Background(), srv.URL, Options{})
	require.NoError(t, err)
}

func TestRandomUserAgent(t *testing.T) {
	for range 50 {
		assert.Contains(t, userAgents, RandomUserAgent())
	}
}

func TestHostLimiter_SeparateHosts(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, hl.WaitURL(ctx, "https://www.work.ua/a"))
	require.NoError(t, hl.WaitURL(ctx, "https://robota.ua/a"))
	// second request to the same host must wait ~1s, past the deadline
	assert.Error(t, hl.WaitURL(ctx, "https://www.work.ua/b"))
}

func TestHostLimiter_Nil(t *testing.T) {
	var hl *HostLimiter
	assert.NoError(t, hl.WaitURL(context.Background(), "https://x"))
}

func TestSetFor(t *testing.T) {
	plain := NewHTTPFetcher(HTTPOptions{})
	s := Set{Plain: plain}

	f, err := s.For(types.FetchPlain)
	require.NoError(t, err)
	assert.Same(t, plain, f)

	_, err = s.For(types.FetchBrowser)
	assert.Error(t, err)
}
