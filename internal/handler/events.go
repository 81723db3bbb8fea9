package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/queue"
)

// Events streams live board changes as server-sent events. The route is
// expected to sit behind RequireBoardMember.
func Events(bus *queue.Bus) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return badRequest(c, "invalid board id")
		}
		bus.ServeSSE(c.Response(), c.Request(), id)
		return nil
	}
}
