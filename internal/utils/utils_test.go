package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Oloap008/Trello-Clone/internal/model"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !IsHashed(hash) {
		t.Fatalf("IsHashed(%q) = false", hash)
	}
	if !VerifyPassword(hash, "password123") {
		t.Fatal("VerifyPassword(hash, correct) = false")
	}
	if VerifyPassword(hash, "password124") {
		t.Fatal("VerifyPassword(hash, wrong) = true")
	}
}

func TestVerifyPlaintextFallback(t *testing.T) {
	if IsHashed("john123") {
		t.Fatal("IsHashed(plaintext) = true")
	}
	if !VerifyPassword("john123", "john123") {
		t.Fatal("plaintext match rejected")
	}
	if VerifyPassword("john123", "john1234") || VerifyPassword("john123", "") {
		t.Fatal("plaintext mismatch accepted")
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	s := model.Session{ID: 2, Name: "John Doe", Email: "john@example.com"}
	tok, err := NewSessionToken("secret", s, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if tok.ID == "" || tok.Exp.Before(time.Now()) {
		t.Fatalf("token = %+v", tok)
	}
	claims, err := ParseSessionToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if claims.ID != tok.ID {
		t.Fatalf("jti = %q, want %q", claims.ID, tok.ID)
	}
	got, err := claims.Session()
	if err != nil || got != s {
		t.Fatalf("Session() = %+v, %v; want %+v", got, err, s)
	}
}

func TestParseSessionTokenRejects(t *testing.T) {
	s := model.Session{ID: 1, Name: "Demo User", Email: "demo@example.com"}
	tok, _ := NewSessionToken("secret", s, time.Hour)
	if _, err := ParseSessionToken("other", tok.Token); err == nil {
		t.Fatal("wrong secret accepted")
	}
	expired, _ := NewSessionToken("secret", s, -time.Minute)
	if _, err := ParseSessionToken("secret", expired.Token); err == nil {
		t.Fatal("expired token accepted")
	}
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := ParseSessionToken("secret", none); err == nil {
		t.Fatal("unsigned token accepted")
	}
	if _, err := ParseSessionToken("secret", strings.Repeat("x", 10)); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestClaimsSessionBadSubject(t *testing.T) {
	c := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	if _, err := c.Session(); err == nil {
		t.Fatal("Session() with non-numeric subject succeeded")
	}
}
