package middleware

// identity.go holds the context accessors shared by the middleware and
// the handlers.

import (
	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/utils"
)

const (
	sessionKey    = "session"
	claimsKey     = "claims"
	membershipKey = "board_membership"
)

// SessionFrom returns the session JWTAuth stored in c.
func SessionFrom(c echo.Context) (model.Session, bool) {
	s, ok := c.Get(sessionKey).(model.Session)
	return s, ok
}

// ClaimsFrom returns the verified token claims of the request.
func ClaimsFrom(c echo.Context) (utils.SessionClaims, bool) {
	cl, ok := c.Get(claimsKey).(utils.SessionClaims)
	return cl, ok
}

// MembershipFrom returns the board membership RequireBoardMember found.
func MembershipFrom(c echo.Context) (model.BoardMembership, bool) {
	m, ok := c.Get(membershipKey).(model.BoardMembership)
	return m, ok
}

// userID returns the authenticated user's id, or "anon".
func userID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "anon"
}
