package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dovvnloading/Leadz/internal/config"
	"github.com/dovvnloading/Leadz/internal/llm"
	"github.com/dovvnloading/Leadz/internal/search"
	"github.com/dovvnloading/Leadz/internal/server/ratelimit"
	"github.com/dovvnloading/Leadz/internal/websearch"
)

const expansionBroad = `{"queries": ["golang developer jobs site:lever.co", "go engineer careers site:greenhouse.io", "golang hiring site:linkedin.com"]}`
const relevantRecord = `{"is_relevant": true, "jobTitle": "Go Developer", "company": "Acme", "skills": ["Go"], "summary": "A role."}`

type funcClient struct {
	fn func(prompt string) (string, error)
}

func (f *funcClient) GenerateJSON(_ context.Context, prompt string) (string, error) {
	return f.fn(prompt)
}

func (f *funcClient) Close() error { return nil }

type uniformEmbedder struct{}

func (u *uniformEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (u *uniformEmbedder) Close() error { return nil }

type fixedSearcher struct {
	results []websearch.Result
}

func (f *fixedSearcher) Search(context.Context, string, int) ([]websearch.Result, error) {
	return f.results, nil
}

// newTestServer wires a server around a fully faked pipeline that yields
// three job records per search.
func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()

	filler := strings.Repeat("job description details ", 20)
	mux := http.NewServeMux()
	results := make([]websearch.Result, 3)
	for i := 0; i < 3; i++ {
		path := fmt.Sprintf("/job/%d", i)
		mux.HandleFunc(path, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", filler)
		})
	}
	pages := httptest.NewServer(mux)
	t.Cleanup(pages.Close)
	for i := range results {
		results[i].URL = fmt.Sprintf("%s/job/%d", pages.URL, i)
	}

	client := &funcClient{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "search engine queries") {
			return expansionBroad, nil
		}
		return relevantRecord, nil
	}}

	orch := search.NewOrchestrator(config.Default(), client, &fixedSearcher{results: results},
		func(context.Context) (llm.Embedder, error) { return &uniformEmbedder{}, nil })
	return New(orch, opts)
}

func postSearch(handler http.Handler, path, body, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, Options{})
	handler := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestServer_SearchValidation(t *testing.T) {
	s := newTestServer(t, Options{})
	handler := s.routes()

	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{}`},
		{"query too short", `{"query": "go"}`},
		{"malformed json", `{"query":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postSearch(handler, "/search", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestServer_SearchSync(t *testing.T) {
	s := newTestServer(t, Options{})
	handler := s.routes()

	rec := postSearch(handler, "/search", `{"query": "golang developer remote"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "golang developer remote", resp.Query)
	assert.Equal(t, "Search complete!", resp.Status)
	assert.Equal(t, 3, resp.JobCount)
	require.Len(t, resp.Jobs, 3)
	assert.Equal(t, "Go Developer", resp.Jobs[0].JobTitle)
}

func TestServer_SearchStream(t *testing.T) {
	s := newTestServer(t, Options{})
	handler := s.routes()

	rec := postSearch(handler, "/search/stream", `{"query": "golang developer remote"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: status")
	assert.Contains(t, body, "Step 1/5")
	assert.Equal(t, 3, strings.Count(body, "event: job"))
	assert.Contains(t, body, "event: complete")
	assert.Contains(t, body, `"job_count":3`)
}

func TestServer_SecondSearchSameClientConflicts(t *testing.T) {
	gate := make(chan struct{})
	s := newTestServer(t, Options{})
	s.orchestrator = search.NewOrchestrator(config.Default(),
		&funcClient{fn: func(string) (string, error) {
			<-gate
			return `{"queries": []}`, nil
		}},
		&fixedSearcher{},
		func(context.Context) (llm.Embedder, error) { return &uniformEmbedder{}, nil })
	handler := s.routes()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		postSearch(handler, "/search", `{"query": "golang developer"}`, "9.9.9.9:1111")
	}()

	require.Eventually(t, func() bool {
		_, ok := s.registry.Get("9.9.9.9")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	rec := postSearch(handler, "/search", `{"query": "golang developer"}`, "9.9.9.9:2222")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// A different client is unaffected by the in-flight search. Its own run
	// also blocks on the gate, so only check that the slot was granted.
	require.NoError(t, s.registry.Acquire("8.8.8.8", nil))
	s.registry.Release("8.8.8.8")

	close(gate)
	wg.Wait()
}

func TestServer_RateLimit(t *testing.T) {
	s := newTestServer(t, Options{RateLimit: &ratelimit.Config{
		Enabled:          true,
		DefaultPerMinute: 60,
		DefaultBurst:     5,
		Endpoints: []ratelimit.EndpointConfig{
			{Path: "/search", Method: "POST", PerMinute: 6, Burst: 1},
		},
	}})
	handler := s.routes()

	first := postSearch(handler, "/search", `{"query": "golang developer"}`, "7.7.7.7:1111")
	require.Equal(t, http.StatusOK, first.Code)

	second := postSearch(handler, "/search", `{"query": "golang developer"}`, "7.7.7.7:2222")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
}

func TestServer_ExtractClientID(t *testing.T) {
	s := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", s.extractClientID(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", s.extractClientID(req))
}
