package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bhraman/auth"
	"bhraman/globals"

	"github.com/julienschmidt/httprouter"
)

func TestAuthenticate(t *testing.T) {
	p := auth.NewJWTProvider("secret", "")
	var seen *auth.Identity
	h := Authenticate(p)(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		seen = globals.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if rec.Code != http.StatusUnauthorized || seen != nil {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	tok, _ := p.Issue(auth.Identity{ExternalID: "ext_9"}, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h(rec, req, nil)
	if rec.Code != http.StatusNoContent || seen == nil || seen.ExternalID != "ext_9" {
		t.Fatalf("expected identity to pass through, got %d %+v", rec.Code, seen)
	}
}

func TestOptionalAuth(t *testing.T) {
	p := auth.NewJWTProvider("secret", "")
	called := false
	h := OptionalAuth(p)(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if globals.IdentityFrom(r.Context()) != nil {
			t.Error("no identity expected")
		}
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if !called {
		t.Fatal("handler not called")
	}
}

func TestRequestIDAndLogging(t *testing.T) {
	var rid string
	h := RequestID(Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid = globals.RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rid == "" || rec.Header().Get("X-Request-ID") != rid {
		t.Fatalf("request id not propagated: %q vs %q", rid, rec.Header().Get("X-Request-ID"))
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status not preserved: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rid != "given" {
		t.Fatalf("incoming request id should be kept, got %q", rid)
	}
}

func TestPanicHandler(t *testing.T) {
	router := httprouter.New()
	router.PanicHandler = PanicHandler
	router.GET("/boom", func(http.ResponseWriter, *http.Request, httprouter.Params) {
		panic("kaboom")
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatal("panic response should be JSON")
	}
}
