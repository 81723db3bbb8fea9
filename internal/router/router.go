// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/handler"
	"github.com/Oloap008/Trello-Clone/internal/middleware"
	"github.com/Oloap008/Trello-Clone/internal/queue"
	"github.com/Oloap008/Trello-Clone/internal/repository"
)

// Deps carries everything the routes need.
type Deps struct {
	Store      *repository.Store
	Auth       *handler.AuthHandler
	Boards     *handler.BoardHandler
	Workspaces *handler.WorkspaceHandler
	Data       *handler.DataHandler
	Bus        *queue.Bus
	JWTSecret  string
	Revoked    repository.TokenRepo
	// Admins may export, import and reset the whole document.
	Admins []string
	// RateLimit guards the credential endpoints. Nil disables it.
	RateLimit echo.MiddlewareFunc
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the sign-in endpoints under /v1/auth and the
// session endpoints that need a valid token.
func RegisterAuth(e *echo.Echo, d Deps) {
	g := e.Group("/v1/auth")
	if d.RateLimit != nil {
		g.Use(d.RateLimit)
	}
	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login)

	auth := e.Group("/v1", middleware.JWTAuth(d.JWTSecret, d.Revoked))
	auth.GET("/me", d.Auth.Me)
	auth.POST("/logout", d.Auth.Logout)
}

// RegisterKanban registers the workspace, board, list, card and data
// endpoints. Board reads sit behind RequireBoardMember; writes check edit
// rights inside the handlers since the board is often only known after
// resolving a list or card. The data endpoints are for admins only.
func RegisterKanban(e *echo.Echo, d Deps) {
	v1 := e.Group("/v1", middleware.JWTAuth(d.JWTSecret, d.Revoked))

	ws := v1.Group("/workspaces")
	ws.GET("", d.Workspaces.ListWorkspaces)
	ws.POST("", d.Workspaces.CreateWorkspace)
	ws.GET("/:id/boards", d.Workspaces.WorkspaceBoards)
	ws.POST("/:id/boards", d.Workspaces.CreateBoard)
	ws.GET("/:id/members", d.Workspaces.WorkspaceMembers)

	member := middleware.RequireBoardMember(d.Store, "id", false)
	b := v1.Group("/boards")
	b.GET("", d.Boards.ListBoards)
	b.GET("/:id", d.Boards.GetBoard, member)
	b.GET("/:id/kanban", d.Boards.Kanban, member)
	b.GET("/:id/archived", d.Boards.Archived, member)
	b.GET("/:id/events", handler.Events(d.Bus), member)
	b.DELETE("/:id", d.Boards.CloseBoard)
	b.POST("/:id/lists", d.Boards.CreateList)
	b.POST("/:id/lists/reorder", d.Boards.ReorderLists)
	b.POST("/:id/labels", d.Boards.CreateLabel)
	b.POST("/:id/members", d.Workspaces.InviteMember)

	l := v1.Group("/lists")
	l.PATCH("/:id", d.Boards.UpdateList)
	l.DELETE("/:id", d.Boards.DeleteList)
	l.POST("/:id/archive", d.Boards.ArchiveList)
	l.POST("/:id/restore", d.Boards.RestoreList)
	l.POST("/:id/cards", d.Boards.CreateCard)

	c := v1.Group("/cards")
	c.GET("/:id", d.Boards.GetCard)
	c.GET("/:id/activities", d.Boards.Activities)
	c.PATCH("/:id", d.Boards.UpdateCard)
	c.DELETE("/:id", d.Boards.DeleteCard)
	c.POST("/:id/move", d.Boards.MoveCard)
	c.POST("/:id/toggle", d.Boards.ToggleCard)
	c.POST("/:id/archive", d.Boards.ArchiveCard)
	c.POST("/:id/restore", d.Boards.RestoreCard)
	c.POST("/:id/comments", d.Boards.AddComment)
	c.POST("/:id/members", d.Boards.AssignMember)
	c.DELETE("/:id/members/:userId", d.Boards.UnassignMember)
	c.POST("/:id/checklist", d.Boards.AddChecklistItem)
	c.POST("/:id/checklist/:itemId/toggle", d.Boards.ToggleChecklistItem)
	c.POST("/:id/labels", d.Boards.AttachLabel)
	c.DELETE("/:id/labels/:labelId", d.Boards.DetachLabel)
	c.PUT("/:id/due", d.Boards.SetDueDate)

	data := v1.Group("/data", middleware.RequireAdmin(d.Admins...))
	data.GET("/export", d.Data.Export)
	data.POST("/import", d.Data.Import)
	data.POST("/reset", d.Data.Reset)
	data.GET("/info", d.Data.Info)
}

// Register wires every route group on e.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e)
	RegisterAuth(e, d)
	RegisterKanban(e, d)

	pages := Pages(d.JWTSecret, d.Revoked)
	for path := range guestOnly {
		e.GET(path, pages)
	}
	for _, p := range protectedPrefixes {
		e.GET(p+"*", pages)
	}
}
