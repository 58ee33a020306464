package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	c2dberrors "c2dbscraper/pkg/errors"
	"c2dbscraper/pkg/logger"
	"c2dbscraper/pkg/models"
	"c2dbscraper/pkg/ratelimit"
)

func newTestClient(t *testing.T, baseURL string, log logger.Logger) *Client {
	t.Helper()
	return NewClient(ClientOptions{
		BaseURL:   baseURL,
		UserAgent: "c2dbscraper-test",
		Timeout:   5 * time.Second,
	}, log)
}

func TestEndpointURLs(t *testing.T) {
	assert.Equal(t, "https://c2db.fysik.dtu.dk/table?sid=1542&page=3", TableURL("https://c2db.fysik.dtu.dk/", 1542, 3))
	assert.Equal(t, "https://c2db.fysik.dtu.dk/material/MoS2-abc/download/json", FileURL("https://c2db.fysik.dtu.dk", "MoS2-abc", models.KindJSON))
	assert.Equal(t, "http://x/material/a%20b/download/cif", FileURL("http://x", "a b", models.KindCIF))
}

func TestFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/table" {
			http.NotFound(w, r)
			return
		}
		// Echo what the server saw so the test can inspect it.
		w.Write([]byte(r.UserAgent() + "|" + r.URL.RawQuery))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, logger.NewNopLogger())
	html, err := client.FetchPage(context.Background(), 1542, 2)
	require.NoError(t, err)

	assert.Equal(t, "c2dbscraper-test|sid=1542&page=2", html)
}

func TestFetchTextStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	log := logger.NewTestLogger()
	client := newTestClient(t, server.URL, log)
	url := client.TableURL(1, 0)

	_, err := client.FetchText(context.Background(), url)
	require.Error(t, err)

	te, ok := c2dberrors.AsTransport(err)
	require.True(t, ok)
	assert.Equal(t, url, te.URL)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.False(t, te.IsNetwork())
	assert.True(t, log.HasError())
}

func TestFetchTextNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL + "/table?sid=1&page=0"
	server.Close()

	client := newTestClient(t, server.URL, logger.NewNopLogger())
	_, err := client.FetchText(context.Background(), url)

	te, ok := c2dberrors.AsTransport(err)
	require.True(t, ok)
	assert.True(t, te.IsNetwork())
	assert.Equal(t, url, te.URL)
}

func TestStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/material/A/download/cif":
			w.Write([]byte("data_A\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, logger.NewNopLogger())

	body, err := client.Stream(context.Background(), client.FileURL("A", models.KindCIF))
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "data_A\n", string(data))

	_, err = client.Stream(context.Background(), client.FileURL("B", models.KindCIF))
	te, ok := c2dberrors.AsTransport(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
}

func TestRequestLimiterCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := NewClient(ClientOptions{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
		Limiter: ratelimit.NewRequestLimiter(1),
	}, logger.NewNopLogger())

	_, err := client.FetchPage(context.Background(), 1, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.FetchPage(ctx, 1, 1)
	assert.True(t, c2dberrors.IsTransport(err))
}
