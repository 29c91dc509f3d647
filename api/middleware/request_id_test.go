package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/kofimensah/emporium-backend/pkg/logger"
)

func testMiddlewareLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	rec := httptest.NewRecorder()

	RequestID(testMiddlewareLogger())(next).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	got := rec.Header().Get("X-Request-Id")
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected generated uuid, got %q", got)
	}
}

func TestRequestIDEchoesValidInboundID(t *testing.T) {
	inbound := uuid.NewString()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	rec := httptest.NewRecorder()

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-Id", inbound)
	RequestID(testMiddlewareLogger())(next).ServeHTTP(rec, r)

	if got := rec.Header().Get("X-Request-Id"); got != inbound {
		t.Fatalf("expected inbound id %q, got %q", inbound, got)
	}
}

func TestRequestIDReplacesMalformedInboundID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	rec := httptest.NewRecorder()

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-Id", "not-a-uuid; DROP TABLE carts")
	RequestID(testMiddlewareLogger())(next).ServeHTTP(rec, r)

	got := rec.Header().Get("X-Request-Id")
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected replacement uuid, got %q", got)
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()

	Recoverer(testMiddlewareLogger())(next).ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/cart", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRecovererRethrowsAbortHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if recover() != http.ErrAbortHandler {
			t.Fatal("expected ErrAbortHandler to propagate")
		}
	}()
	Recoverer(testMiddlewareLogger())(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}
