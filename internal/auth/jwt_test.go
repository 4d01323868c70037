package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueParse_RoundTrip(t *testing.T) {
	userID := uuid.NewString()
	token, exp, err := Issue(userID, "officer", "sgov-test", "secret-key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expiry not in the future")
	}

	claims, err := Parse(token, "secret-key", "sgov-test")
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != userID {
		t.Fatalf("subject = %q, want %q", claims.Subject, userID)
	}
	if claims.Role != "officer" {
		t.Fatalf("role = %q, want officer", claims.Role)
	}
}

func TestParse_RejectsWrongKey(t *testing.T) {
	token, _, err := Issue(uuid.NewString(), "student", "sgov-test", "secret-key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token, "other-key", "sgov-test"); err == nil {
		t.Fatal("token accepted with the wrong key")
	}
}

func TestParse_RejectsWrongIssuer(t *testing.T) {
	token, _, err := Issue(uuid.NewString(), "student", "someone-else", "secret-key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token, "secret-key", "sgov-test"); err == nil {
		t.Fatal("token accepted with the wrong issuer")
	}
}

func TestParse_RejectsExpired(t *testing.T) {
	token, _, err := Issue(uuid.NewString(), "student", "sgov-test", "secret-key", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token, "secret-key", "sgov-test"); err == nil {
		t.Fatal("expired token accepted")
	}
}
