package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := SignSessionToken("s3cret", "sess-1", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("SignSessionToken returned error: %v", err)
	}
	claims, err := VerifySessionToken("s3cret", tok)
	if err != nil {
		t.Fatalf("VerifySessionToken returned error: %v", err)
	}
	if claims.SessionID != "sess-1" {
		t.Fatalf("SessionID = %q", claims.SessionID)
	}
	if _, err := VerifySessionToken("other", tok); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestSessionTokenExpired(t *testing.T) {
	tok, _ := SignSessionToken("s3cret", "sess-1", time.Minute, time.Now().Add(-time.Hour))
	if _, err := VerifySessionToken("s3cret", tok); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestSessionTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := SessionClaims{SessionID: "sess-1", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    sessionTokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := VerifySessionToken("s3cret", tok); err == nil {
		t.Fatal("unsigned token accepted")
	}
}

func TestAuthSessionMiddleware(t *testing.T) {
	tok, _ := SignSessionToken("s3cret", "sess-9", time.Hour, time.Now())
	var got string
	h := AuthSession("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionIDFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		target string
		status int
		sid    string
	}{
		{name: "bearer header", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, target: "/", status: http.StatusOK, sid: "sess-9"},
		{name: "query token", target: "/?token=" + tok, status: http.StatusOK, sid: "sess-9"},
		{name: "missing", target: "/", status: http.StatusUnauthorized},
		{name: "malformed header", setup: func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, target: "/", status: http.StatusUnauthorized},
		{name: "garbage token", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, target: "/", status: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got = ""
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.setup != nil {
				tc.setup(req)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if got != tc.sid {
				t.Fatalf("session id = %q, want %q", got, tc.sid)
			}
		})
	}
}
