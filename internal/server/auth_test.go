package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	token, expires, err := issueAdminToken("secret")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Error("expected a future expiry")
	}

	if err := verifyAdminToken("secret", token); err != nil {
		t.Errorf("verify: %v", err)
	}
	if err := verifyAdminToken("other-secret", token); err == nil {
		t.Error("expected verification to fail with the wrong secret")
	}
	if err := verifyAdminToken("secret", "garbage"); err == nil {
		t.Error("expected verification to fail for a malformed token")
	}
}

func TestAdminFromRequest(t *testing.T) {
	token, _, err := issueAdminToken("secret")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := adminFromRequest(r, "secret"); err == nil {
		t.Error("expected failure without a cookie")
	}

	r.AddCookie(&http.Cookie{Name: adminCookieName, Value: token})
	if err := adminFromRequest(r, "secret"); err != nil {
		t.Errorf("expected valid session, got %v", err)
	}

	// Auth is disabled entirely when no secret is configured.
	if err := adminFromRequest(r, ""); err == nil {
		t.Error("expected failure with an empty secret")
	}
}

func TestValidConnectorKey(t *testing.T) {
	if !validConnectorKey("k1", "k1") {
		t.Error("expected matching keys to pass")
	}
	if validConnectorKey("k1", "k2") {
		t.Error("expected mismatched keys to fail")
	}
	if validConnectorKey("", "") {
		t.Error("expected empty keys to fail closed")
	}
	if validConnectorKey("k1", "") {
		t.Error("expected unset server key to fail closed")
	}
}
