package middleware

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"video-editor/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResponseWriterWriteHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	if rw.statusCode != http.StatusOK {
		t.Errorf("default status = %d, want 200", rw.statusCode)
	}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("status = %d, want first WriteHeader to win", rw.statusCode)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("recorder code = %d", rec.Code)
	}
}

func TestResponseWriterWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	if _, err := rw.Write([]byte("hello ")); err != nil {
		t.Fatal(err)
	}
	if _, err := rw.Write([]byte("world")); err != nil {
		t.Fatal(err)
	}
	if rw.bytesWritten != 11 {
		t.Errorf("bytesWritten = %d, want 11", rw.bytesWritten)
	}
	if !rw.wroteHeader {
		t.Error("Write should mark the header as written")
	}
}

func TestResponseWriterHijackUnsupported(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())
	if _, _, err := rw.Hijack(); err == nil {
		t.Error("Hijack on a recorder should fail")
	}
	mrw := newMetricsResponseWriter(httptest.NewRecorder())
	if _, _, err := mrw.Hijack(); err == nil {
		t.Error("Hijack on a recorder should fail")
	}
}

func TestHijackThroughMiddlewareChain(t *testing.T) {
	hijacker := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h, ok := w.(http.Hijacker)
		if !ok {
			http.Error(w, "no hijacker", http.StatusInternalServerError)
			return
		}
		conn, buf, err := h.Hijack()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer conn.Close()
		buf.WriteString("HTTP/1.1 200 OK\r\nContent-Length: 8\r\nConnection: close\r\n\r\nhijacked")
		buf.Flush()
	})

	handler := Logger(DefaultLoggingConfig())(Metrics(DefaultMetricsConfig())(hijacker))
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/projects/x/drag")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	body, _ := bufio.NewReader(resp.Body).ReadString('\n')
	if resp.StatusCode != http.StatusOK || body != "hijacked" {
		t.Errorf("status %d body %q, want raw hijacked response", resp.StatusCode, body)
	}
}

func TestDefaultLoggingConfig(t *testing.T) {
	config := DefaultLoggingConfig()
	if !config.LogHealthChecks {
		t.Error("health checks should be logged by default")
	}
	if len(config.SkipPaths) != 0 {
		t.Errorf("SkipPaths = %v, want empty", config.SkipPaths)
	}
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		config LoggingConfig
		want   bool
	}{
		{name: "API path logged", path: "/api/projects", config: DefaultLoggingConfig(), want: false},
		{name: "health logged by default", path: "/healthz", config: DefaultLoggingConfig(), want: false},
		{name: "health skipped when disabled", path: "/healthz", config: LoggingConfig{}, want: true},
		{name: "skip prefix", path: "/api/projects/1/drag", config: LoggingConfig{SkipPaths: []string{"/api/projects/1"}, LogHealthChecks: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSkip(tt.path, tt.config); got != tt.want {
				t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/projects?x=1", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("User-Agent", "editor test\nforged")

	rw := newResponseWriter(httptest.NewRecorder())
	rw.WriteHeader(http.StatusCreated)
	rw.Write([]byte("{}"))

	l := NewW3CLogger(DefaultLoggingConfig(), "test")
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	line := l.formatLine(now, req, rw, 42*time.Millisecond)

	want := `2026-03-01 12:30:00 10.0.0.1 POST /api/projects x=1 201 2 42 "editor test forged" -`
	if line != want {
		t.Errorf("formatLine =\n%q\nwant\n%q", line, want)
	}
	if strings.Contains(line, "\n") {
		t.Error("log line contains a newline")
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a\nb", "a b"},
		{"a\r\nb", "a  b"},
		{"nul\x00byte", "nulbyte"},
		{"esc\x1b[31mred", "esc[31mred"},
		{"tab\tkept", "tab\tkept"},
	}
	for _, tt := range tests {
		if got := sanitizeLogField(tt.in); got != tt.want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"}, remote: "3.3.3.3:1", want: "1.1.1.1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "4.4.4.4"}, remote: "3.3.3.3:1", want: "4.4.4.4"},
		{name: "remote addr", remote: "5.5.5.5:8080", want: "5.5.5.5"},
		{name: "ipv6 remote addr", remote: "[::1]:8080", want: "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeW3CField(t *testing.T) {
	if got := escapeW3CField("curl/8.0"); got != "curl/8.0" {
		t.Errorf("plain field = %q", got)
	}
	if got := escapeW3CField(`a "b" c`); got != `"a ""b"" c"` {
		t.Errorf("quoted field = %q", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/projects", "/api/projects"},
		{"/api/projects/6ba7b810-9dad-11d1-80b4-00c04fd430c8", "/api/projects/{id}"},
		{"/api/projects/6ba7b810-9dad-11d1-80b4-00c04fd430c8/elements/42", "/api/projects/{id}/elements/{id}"},
		{"/api/projects/abc/lanes/Text-0/drop-time", "/api/projects/abc/lanes/Text-0/drop-time"},
		{"/", "/"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Metrics(DefaultMetricsConfig()))
	router.HandleFunc("/api/projects/{id}/elements/{eid}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodDelete, "/api/projects/{id}/elements/{eid}", "204")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodDelete, "/api/projects/p1/elements/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(counter); got != before+3 {
		t.Errorf("requests counted = %v, want %v", got-before, 3)
	}
}

func TestMetricsMiddlewareSkipPaths(t *testing.T) {
	called := false
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/healthz", "200")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Error("skipped path must still reach the handler")
	}
	if got := testutil.ToFloat64(counter); got != before {
		t.Error("skipped path was recorded")
	}
}

func TestMetricsMiddlewareStatusCode(t *testing.T) {
	handler := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPatch, "/api/projects/{id}", "409")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodPatch, "/api/projects/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("409 count = %v, want %v", got, before+1)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	handler := Logger(LoggingConfig{SkipPaths: []string{"/"}})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func BenchmarkNormalizePath(b *testing.B) {
	for i := 0; i < b.N; i++ {
		normalizePath("/api/projects/6ba7b810-9dad-11d1-80b4-00c04fd430c8/elements/42")
	}
}
