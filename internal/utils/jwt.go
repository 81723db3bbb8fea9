package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"

	"github.com/Oloap008/Trello-Clone/internal/model"
)

// SessionToken is a signed HS256 JWT together with its expiry. Clients
// send it in the Authorization header when calling protected endpoints.
type SessionToken struct {
	Token string    // the serialized JWT string
	ID    string    // jti claim, used to revoke the token
	Exp   time.Time // the UTC expiration time
}

// SessionClaims carries the session fields next to the registered
// claims. The subject is the user id.
type SessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Session rebuilds the session the token was issued for.
func (c SessionClaims) Session() (model.Session, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return model.Session{}, errors.New("token subject is not a user id")
	}
	return model.Session{ID: id, Name: c.Name, Email: c.Email}, nil
}

// NewSessionToken builds and signs a token for s that expires after ttl.
func NewSessionToken(secret string, s model.Session, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	jti := uuid.NewString()
	claims := SessionClaims{
		Name:  s.Name,
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(s.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ID: jti, Exp: exp}, nil
}

// ParseSessionToken verifies raw with secret and returns its claims.
// Tokens signed with anything other than HMAC are rejected.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	var claims SessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return SessionClaims{}, err
	}
	if !tok.Valid {
		return SessionClaims{}, errors.New("invalid token")
	}
	return claims, nil
}
