package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	commonerrors "github.com/nickgeorgouses/note-app/internal/common/errors"
	commonhttp "github.com/nickgeorgouses/note-app/internal/common/http"
	"github.com/nickgeorgouses/note-app/internal/common/logger"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "info")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestDecodeBody_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@x.io","password":"pw1234"}`))
	req.Header.Set("Content-Type", "application/json")

	var got credentials
	if err := commonhttp.DecodeBody(req, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Email != "a@x.io" || got.Password != "pw1234" {
		t.Fatalf("unexpected decode result: %+v", got)
	}
}

func TestDecodeBody_Form(t *testing.T) {
	form := url.Values{"email": {"a@x.io"}, "password": {"pw1234"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var got credentials
	if err := commonhttp.DecodeBody(req, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Email != "a@x.io" || got.Password != "pw1234" {
		t.Fatalf("unexpected decode result: %+v", got)
	}
}

func TestDecodeBody_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")

	var got credentials
	if err := commonhttp.DecodeBody(req, &got); err != nil {
		t.Fatalf("empty body should decode to zero value, got %v", err)
	}
	if got != (credentials{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestDecodeBody_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")

	var got credentials
	err := commonhttp.DecodeBody(req, &got)
	if !errors.Is(err, commonhttp.ErrInvalidBody) {
		t.Fatalf("expected ErrInvalidBody, got %v", err)
	}
}

func TestErrorHandler_DomainError(t *testing.T) {
	notFound := commonerrors.NewDomainError("NOTE_NOT_FOUND", commonerrors.CategoryNotFound, http.StatusNotFound, "Note not found")

	h := commonhttp.TraceIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.NewErrorHandler(testLogger(t)).HandleError(w, r, notFound.WithCause(errors.New("no documents")))
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/notes/abc", nil)
	req.Header.Set(commonhttp.TraceIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var env commonhttp.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Code != "NOTE_NOT_FOUND" || env.Message != "Note not found" || env.TraceID != "trace-42" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestErrorHandler_UnknownErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)

	commonhttp.NewErrorHandler(testLogger(t)).HandleError(rec, req, errors.New("connection refused to 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("response leaked internal cause: %s", rec.Body.String())
	}
}

func TestTraceIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	h := commonhttp.TraceIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = commonhttp.TraceIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated trace id in context")
	}
	if rec.Header().Get(commonhttp.TraceIDHeader) != seen {
		t.Fatalf("header trace id %q does not match context %q", rec.Header().Get(commonhttp.TraceIDHeader), seen)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := commonhttp.RecoveryMiddleware(testLogger(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestMaxRequestSizeMiddleware(t *testing.T) {
	h := commonhttp.MaxRequestSizeMiddleware(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		if err := commonhttp.DecodeBody(r, &body); err != nil {
			commonhttp.NewErrorHandler(testLogger(t)).HandleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"someone@example.com"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestStrictRateLimiter_BlocksLoginAfterBurst(t *testing.T) {
	srl := commonhttp.NewStrictRateLimiter(false)
	defer srl.Stop()

	h := srl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	blocked := false
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			blocked = true
			break
		}
	}
	if !blocked {
		t.Fatal("expected login requests to be rate limited")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health must not be rate limited, got %d", rec.Code)
	}
}

func TestRootHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	commonhttp.RootHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "Hello, this is the Note App!" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	log := testLogger(t)

	rec := httptest.NewRecorder()
	commonhttp.HealthHandler(log, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	down := func(ctx context.Context) error { return errors.New("no reachable servers") }
	rec = httptest.NewRecorder()
	commonhttp.HealthHandler(log, down).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"unavailable"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestStrictRateLimiter_IgnoresForwardedForByDefault(t *testing.T) {
	srl := commonhttp.NewStrictRateLimiter(false)
	defer srl.Stop()

	h := srl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	blocked := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.7:4321"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.1.0.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			blocked++
		}
	}
	if blocked == 0 {
		t.Fatal("rotating forwarding headers must not escape the login limit")
	}
}

func TestStrictRateLimiter_TrustedProxyKeysOnForwardedFor(t *testing.T) {
	srl := commonhttp.NewStrictRateLimiter(true)
	defer srl.Stop()

	h := srl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.8:4321"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d, 192.0.2.8", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, distinct clients behind a trusted proxy share no bucket", i, rec.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trust      bool
		want       string
	}{
		{name: "peer address", remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "ipv6 peer", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "no port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{
			name:       "headers ignored when untrusted",
			remoteAddr: "192.0.2.1:1234",
			headers:    map[string]string{"X-Real-IP": "10.0.0.1", "X-Forwarded-For": "10.0.0.2"},
			want:       "192.0.2.1",
		},
		{
			name:       "real ip when trusted",
			remoteAddr: "192.0.2.1:1234",
			headers:    map[string]string{"X-Real-IP": "10.0.0.1", "X-Forwarded-For": "10.0.0.2"},
			trust:      true,
			want:       "10.0.0.1",
		},
		{
			name:       "first forwarded hop when trusted",
			remoteAddr: "192.0.2.1:1234",
			headers:    map[string]string{"X-Forwarded-For": " 10.0.0.2 , 10.0.0.3"},
			trust:      true,
			want:       "10.0.0.2",
		},
		{name: "trusted without headers", remoteAddr: "192.0.2.1:1234", trust: true, want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := commonhttp.ClientIP(req, tt.trust); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrimTrailingSlashMiddleware(t *testing.T) {
	var seen string
	h := commonhttp.TrimTrailingSlashMiddleware("/api/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
	}))

	cases := map[string]string{
		"/api/notes/":       "/api/notes",
		"/api/auth/login//": "/api/auth/login",
		"/api/notes":        "/api/notes",
		"/api/":             "/api/",
		"/css/":             "/css/",
	}
	for in, want := range cases {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, in, nil))
		if seen != want {
			t.Errorf("%s: path = %q, want %q", in, seen, want)
		}
	}
}

func TestBuildBaseHandler_RateLimitedResponseCarriesHeaders(t *testing.T) {
	srl := commonhttp.NewStrictRateLimiter(false)
	defer srl.Stop()

	h := commonhttp.BuildBaseHandler("test", testLogger(t), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), srl)

	var rec *httptest.ResponseRecorder
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login/", nil)
		req.RemoteAddr = "192.0.2.9:1234"
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			break
		}
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}

	traceID := rec.Header().Get("X-Trace-ID")
	if traceID == "" {
		t.Error("429 must carry X-Trace-ID")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", rec.Header().Get("Cache-Control"))
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("missing security headers: %v", rec.Header())
	}

	var env commonhttp.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Code != commonhttp.CodeRateLimited || env.TraceID != traceID {
		t.Errorf("envelope = %+v, header trace id = %q", env, traceID)
	}
}

func TestBuildBaseHandler_Headers(t *testing.T) {
	h := commonhttp.BuildBaseHandler("test", testLogger(t), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("api responses must not be cached")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" || rec.Header().Get("Content-Security-Policy") == "" {
		t.Errorf("missing security headers: %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	if rec.Header().Get("Cache-Control") != "" {
		t.Errorf("static responses should stay cacheable")
	}
}
