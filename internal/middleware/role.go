package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/repository"
)

// RequireBoardMember returns a middleware that only lets members of the
// board named by the path parameter param through. It must run after
// JWTAuth. The membership is stored for MembershipFrom. When writers is
// set, members without edit rights are refused as well.
func RequireBoardMember(store *repository.Store, param string, writers bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := SessionFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			boardID, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil || boardID <= 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid board id"})
			}
			b, ok := store.Boards.ByID(boardID)
			if !ok || !b.Status.Active() {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "board not found"})
			}
			m, ok := store.BoardMembership(s.ID, boardID)
			if !ok || (writers && !m.CanEdit) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			c.Set(membershipKey, m)
			return next(c)
		}
	}
}

// RequireAdmin returns a middleware that only lets the listed operator
// accounts through, matched by email without regard to case. It must run
// after JWTAuth. An empty list refuses everyone.
func RequireAdmin(emails ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = true
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := SessionFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			if !allowed[strings.ToLower(s.Email)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
