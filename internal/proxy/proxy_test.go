package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRelayRejectsBadURL(t *testing.T) {
	testCases := []string{
		"",
		"not a url",
		"gitlab.com",
	}

	for _, baseURL := range testCases {
		t.Run(baseURL, func(t *testing.T) {
			_, err := NewRelay(baseURL, "token")
			assert.Error(t, err)
		})
	}
}

func TestRelayForwardsWithToken(t *testing.T) {
	var gotPath, gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"iid":42}]`))
	}))
	defer upstream.Close()

	relay, err := NewRelay(upstream.URL, "glpat-test")
	require.NoError(t, err)

	srv := httptest.NewServer(relay.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/gitlab?path=/projects/1/issues")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/api/v4/projects/1/issues", gotPath)
	assert.Equal(t, "Bearer glpat-test", gotAuth)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"iid":42}]`, string(body))
}

func TestRelayPassesThroughUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"404 Not Found"}`))
	}))
	defer upstream.Close()

	relay, err := NewRelay(upstream.URL, "glpat-test")
	require.NoError(t, err)

	srv := httptest.NewServer(relay.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/gitlab?path=/projects/999")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRelayRequiresPath(t *testing.T) {
	relay, err := NewRelay("https://gitlab.example.com", "glpat-test")
	require.NoError(t, err)

	srv := httptest.NewServer(relay.Handler())
	defer srv.Close()

	testCases := []struct {
		name string
		url  string
	}{
		{name: "missing path", url: "/gitlab"},
		{name: "relative path", url: "/gitlab?path=projects"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.url)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body, "error")
		})
	}
}

func TestRelayRejectsNonGET(t *testing.T) {
	relay, err := NewRelay("https://gitlab.example.com", "glpat-test")
	require.NoError(t, err)

	srv := httptest.NewServer(relay.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/gitlab?path=/projects", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRelayUpstreamUnreachable(t *testing.T) {
	// Point at a server that is already closed.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	relay, err := NewRelay(upstream.URL, "glpat-test")
	require.NoError(t, err)

	srv := httptest.NewServer(relay.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/gitlab?path=/projects")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
