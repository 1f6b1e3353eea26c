// Package proxy relays GET requests to the GitLab REST API, injecting a
// server-held credential so the token never reaches the browser.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/oauth2"

	"github.com/matheus-raidiam/gitlab-issue-tracker/internal/logging"
)

const upstreamTimeout = 30 * time.Second

// Relay forwards /gitlab?path=/... requests to <base>/api/v4<path>.
type Relay struct {
	base   string
	client *http.Client
}

// NewRelay builds a relay for the given GitLab base URL. The upstream
// client carries the token via an oauth2 static token source, so the
// credential lives only on the server side.
func NewRelay(baseURL, token string) (*Relay, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid gitlab base url: %q", baseURL)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = upstreamTimeout

	return &Relay{
		base:   strings.TrimSuffix(u.String(), "/"),
		client: client,
	}, nil
}

// Handler returns the HTTP surface: a GET-only /gitlab endpoint with
// permissive CORS, mirroring the function the dashboard frontend calls.
func (r *Relay) Handler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))
	mux.Get("/gitlab", r.relay)
	return mux
}

func (r *Relay) relay(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Query().Get("path")
	if !strings.HasPrefix(path, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing /path"})
		return
	}

	target := r.base + "/api/v4" + path
	out, err := http.NewRequestWithContext(req.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid path"})
		return
	}
	out.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(out)
	if err != nil {
		logging.Error("upstream request failed", "path", path, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream unreachable"})
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		logging.Warn("failed to copy upstream body", "path", path, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
