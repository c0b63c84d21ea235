package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueAndIdentify(t *testing.T) {
	p := NewJWTProvider("test-secret", "bhraman-idp")
	tok, err := p.Issue(Identity{ExternalID: "ext_123", Email: "asha@example.com", Name: "Asha"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	id, err := p.Identify(req)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if id.ExternalID != "ext_123" || id.Email != "asha@example.com" || id.Name != "Asha" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestIdentifyFromCookie(t *testing.T) {
	p := NewJWTProvider("test-secret", "")
	tok, _ := p.Issue(Identity{ExternalID: "ext_cookie"}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	id, err := p.Identify(req)
	if err != nil || id.ExternalID != "ext_cookie" {
		t.Fatalf("cookie identity failed: %v %+v", err, id)
	}
}

func TestIdentifyRejects(t *testing.T) {
	p := NewJWTProvider("test-secret", "bhraman-idp")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := p.Identify(req); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	other := NewJWTProvider("other-secret", "bhraman-idp")
	forged, _ := other.Issue(Identity{ExternalID: "ext_1"}, time.Hour)
	if _, err := p.Verify(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature failure, got %v", err)
	}

	expired, _ := p.Issue(Identity{ExternalID: "ext_1"}, -time.Minute)
	if _, err := p.Verify(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expiry failure, got %v", err)
	}

	wrongIssuer, _ := NewJWTProvider("test-secret", "someone-else").Issue(Identity{ExternalID: "ext_1"}, time.Hour)
	if _, err := p.Verify(wrongIssuer); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected issuer failure, got %v", err)
	}

	noSubject, _ := p.Issue(Identity{}, time.Hour)
	if _, err := p.Verify(noSubject); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected missing subject failure, got %v", err)
	}
}

func TestQueryTokenOnlyForWebsocket(t *testing.T) {
	p := NewJWTProvider("test-secret", "")
	tok, _ := p.Issue(Identity{ExternalID: "ext_ws"}, time.Hour)

	plain := httptest.NewRequest(http.MethodGet, "/api/admin/live/bookings?token="+tok, nil)
	if _, err := p.Identify(plain); !errors.Is(err, ErrNoToken) {
		t.Fatalf("query token must be ignored outside websocket upgrades, got %v", err)
	}

	ws := httptest.NewRequest(http.MethodGet, "/api/admin/live/bookings?token="+tok, nil)
	ws.Header.Set("Connection", "Upgrade")
	ws.Header.Set("Upgrade", "websocket")
	id, err := p.Identify(ws)
	if err != nil || id.ExternalID != "ext_ws" {
		t.Fatalf("websocket query token failed: %v", err)
	}
}
