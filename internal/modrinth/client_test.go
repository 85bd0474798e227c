package modrinth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:   server.URL + "/",
		Token:     token,
		UserAgent: "downloader-test",
		Timeout:   time.Second,
	}, zaptest.NewLogger(t))
}

func TestClientVersion(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/version/AABBCCDD", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "downloader-test", r.Header.Get("User-Agent"))
			assert.Equal(t, "mrp_token", r.Header.Get("Authorization"))
			_, _ = fmt.Fprint(w, versionJSON)
		}, "mrp_token")

		version, err := client.Version(context.Background(), "AABBCCDD")

		require.NoError(t, err)
		assert.Equal(t, "1.2.3", version.MustGet().VersionNumber)
	})
	t.Run("no token sends no authorization", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, present := r.Header["Authorization"]
			assert.False(t, present)
			_, _ = fmt.Fprint(w, versionJSON)
		}, "")

		_, err := client.Version(context.Background(), "AABBCCDD")

		require.NoError(t, err)
	})
	t.Run("not found is absent", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}, "")

		version, err := client.Version(context.Background(), "AABBCCDD")

		require.NoError(t, err)
		assert.True(t, version.IsAbsent())
	})
	t.Run("unexpected status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}, "")

		_, err := client.Version(context.Background(), "AABBCCDD")

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusTooManyRequests, statusErr.Status)
	})
	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, "{")
		}, "")

		_, err := client.Version(context.Background(), "AABBCCDD")

		assert.Error(t, err)
	})
	t.Run("cancelled context", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, versionJSON)
		}, "")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Version(ctx, "AABBCCDD")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClientProjectVersions(t *testing.T) {
	t.Run("filters are sent as json", func(t *testing.T) {
		featured := true
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/project/sodium/version", r.URL.Path)
			assert.Equal(t, `["fabric","quilt"]`, r.URL.Query().Get("loaders"))
			assert.Equal(t, `["1.20.1"]`, r.URL.Query().Get("game_versions"))
			assert.Equal(t, "true", r.URL.Query().Get("featured"))
			_, _ = fmt.Fprintf(w, "[%s]", versionJSON)
		}, "")

		versions, err := client.ProjectVersions(context.Background(), LatestQuery{
			Project:      "sodium",
			Loaders:      []string{"fabric", "quilt"},
			GameVersions: []string{"1.20.1"},
			Featured:     &featured,
		})

		require.NoError(t, err)
		require.Len(t, versions.MustGet(), 1)
		assert.JSONEq(t, versionJSON, string(versions.MustGet()[0].Raw))
	})
	t.Run("no filters", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			_, _ = fmt.Fprintf(w, "[%s]", versionJSON)
		}, "")

		_, err := client.ProjectVersions(context.Background(), LatestQuery{Project: "sodium"})

		require.NoError(t, err)
	})
	t.Run("empty list is absent", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, "[]")
		}, "")

		versions, err := client.ProjectVersions(context.Background(), LatestQuery{Project: "sodium"})

		require.NoError(t, err)
		assert.True(t, versions.IsAbsent())
	})
	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, "")

		_, err := client.ProjectVersions(context.Background(), LatestQuery{Project: "sodium"})

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	})
}
