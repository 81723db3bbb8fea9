package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/utils"
)

// Page paths of the browser front end.
const (
	SignInPath = "/sign-in"
	SignUpPath = "/sign-up"
)

var guestOnly = map[string]bool{"/": true, SignInPath: true, SignUpPath: true}

var protectedPrefixes = []string{"/user/", "/board/", "/workspaces/"}

// UserBoardsPath is the landing page of a signed-in user.
func UserBoardsPath(email string) string {
	return "/user/" + url.PathEscape(email) + "/boards"
}

// Guard decides whether a page request may proceed. Signed-in users are
// sent from the guest pages to their boards; anonymous users are sent
// from the protected pages to the sign-in page. When ok is false,
// redirect holds the target.
func Guard(path string, signedIn bool, email string) (redirect string, ok bool) {
	if guestOnly[path] {
		if signedIn {
			return UserBoardsPath(email), false
		}
		return "", true
	}
	if !signedIn && protected(path) {
		return SignInPath, false
	}
	return "", true
}

func protected(path string) bool {
	for _, p := range protectedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// SessionCookie carries the session token for page requests.
const SessionCookie = "taskify_token"

// Pages returns the handler for front-end page paths. It answers with a
// redirect when Guard refuses the path and with the resolved path
// otherwise. A revoked token, or one whose revocation cannot be checked,
// counts as signed out.
func Pages(secret string, revoked repository.TokenRepo) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		signedIn, email := false, ""
		if ck, err := c.Cookie(SessionCookie); err == nil {
			if claims, err := utils.ParseSessionToken(secret, ck.Value); err == nil && live(c, revoked, claims.ID) {
				signedIn, email = true, claims.Email
			}
		}
		if to, ok := Guard(path, signedIn, email); !ok {
			return c.Redirect(http.StatusFound, to)
		}
		return c.JSON(http.StatusOK, echo.Map{"path": path, "signedIn": signedIn})
	}
}

func live(c echo.Context, revoked repository.TokenRepo, jti string) bool {
	if revoked == nil || jti == "" {
		return true
	}
	gone, err := revoked.IsRevoked(c.Request().Context(), jti)
	return err == nil && !gone
}
