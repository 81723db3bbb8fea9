package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/repository"
)

// maxImportBytes bounds the size of an imported document.
const maxImportBytes = 16 << 20

// DataHandler exposes whole-document maintenance.
type DataHandler struct {
	Store *repository.Store
}

func NewDataHandler(store *repository.Store) *DataHandler { return &DataHandler{Store: store} }

// Export returns the document as JSON, or as YAML with ?format=yaml.
func (h *DataHandler) Export(c echo.Context) error {
	if c.QueryParam("format") == "yaml" {
		out, err := h.Store.ExportYAML()
		if err != nil {
			return fail(c, err)
		}
		return c.Blob(http.StatusOK, "application/yaml", []byte(out))
	}
	out, err := h.Store.Export()
	if err != nil {
		return fail(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(out))
}

// Import replaces the document with the JSON request body.
func (h *DataHandler) Import(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxImportBytes))
	if err != nil {
		return badRequest(c, "unreadable body")
	}
	if !h.Store.Import(c.Request().Context(), string(body)) {
		return badRequest(c, "malformed document")
	}
	return c.NoContent(http.StatusNoContent)
}

// Reset restores the seed data.
func (h *DataHandler) Reset(c echo.Context) error {
	h.Store.Reset(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

func (h *DataHandler) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.StorageInfo())
}
