package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func captureSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	handler := Session(SessionOptions{TTL: time.Hour}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestSessionUsesHeaderThenCookie(t *testing.T) {
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, id)
	seen, rec := captureSession(t, req)
	if seen != id {
		t.Fatalf("header session = %q, want %q", seen, id)
	}
	if rec.Header().Get(SessionHeader) != id {
		t.Fatalf("response header = %q", rec.Header().Get(SessionHeader))
	}

	cookieID := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookieID})
	seen, _ = captureSession(t, req)
	if seen != cookieID {
		t.Fatalf("cookie session = %q, want %q", seen, cookieID)
	}
}

func TestSessionGeneratesWhenMissingOrInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "../../etc/passwd")
	seen, rec := captureSession(t, req)

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected generated uuid, got %q", seen)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value != seen {
		t.Fatalf("cookies = %+v", cookies)
	}
	if cookies[0].MaxAge != 3600 || !cookies[0].HttpOnly {
		t.Fatalf("cookie attributes = %+v", cookies[0])
	}
}

func TestRequestIDAndRecoverer(t *testing.T) {
	var seen string
	handler := RequestID(nil)(Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if seen == "" || rec.Header().Get(requestIDHeader) != seen {
		t.Fatalf("request id = %q, header %q", seen, rec.Header().Get(requestIDHeader))
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	handler := Logging(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
}
