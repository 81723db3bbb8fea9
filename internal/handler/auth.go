package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/config"
	"github.com/Oloap008/Trello-Clone/internal/middleware"
	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/service"
	"github.com/Oloap008/Trello-Clone/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints. The HTTP surface
// is stateless: a successful sign-in returns a session token instead of
// changing shared auth state.
type AuthHandler struct {
	Cfg    config.AuthConfig
	Auth   *service.Auth
	Store  *repository.Store
	Tokens repository.TokenRepo
}

func NewAuthHandler(cfg config.AuthConfig, auth *service.Auth, store *repository.Store, tokens repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: auth, Store: store, Tokens: tokens}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User   model.Session `json:"user"`
	Access tokenPart     `json:"access"`
}

func (h *AuthHandler) issue(c echo.Context, status int, u model.User) error {
	s := model.SessionFor(u)
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, s, h.Cfg.SessionTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(status, authResp{User: s, Access: tokenPart{Token: tok.Token, Expires: tok.Exp}})
}

// Register creates an account and returns a token for it.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	u, err := h.Auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, http.StatusCreated, u)
}

// Login checks credentials and returns a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "email/password required")
	}
	u, err := h.Auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(c, http.StatusOK, u)
}

// Me returns the caller's session together with the boards and
// workspaces they belong to.
func (h *AuthHandler) Me(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":       s,
		"boards":     nonNil(h.Store.BoardsForUser(s.ID)),
		"workspaces": nonNil(h.Store.WorkspacesForUser(s.ID)),
	})
}

// Logout revokes the caller's token.
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return fail(c, service.ErrNotAuthenticated)
	}
	if h.Tokens != nil && claims.ExpiresAt != nil {
		if err := h.Tokens.Revoke(c.Request().Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
