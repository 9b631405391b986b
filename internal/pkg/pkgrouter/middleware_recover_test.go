package pkgrouter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareRecovererWritesEnvelope(t *testing.T) {
	h := middlewareRecoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message":"Internal server error"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestMiddlewareRecovererRepanicsOnAbort(t *testing.T) {
	h := middlewareRecoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rvr := recover(); rvr != http.ErrAbortHandler {
			t.Fatalf("expected ErrAbortHandler to propagate, got %v", rvr)
		}
	}()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestInternalFrames(t *testing.T) {
	stack := []byte("goroutine 1 [running]:\n" +
		"main.handler()\n" +
		"\t/src/app/internal/cleaning/inbound/http_endpoint.go:42 +0x1d\n" +
		"net/http.HandlerFunc.ServeHTTP()\n" +
		"\t/usr/local/go/src/net/http/server.go:2136 +0x29\n")

	frames := internalFrames(stack)
	if len(frames) != 1 || frames[0] != "internal/cleaning/inbound/http_endpoint.go:42" {
		t.Fatalf("unexpected frames: %v", frames)
	}
}
