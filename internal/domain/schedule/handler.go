package schedule

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orbook/orbook/internal/platform/apperr"
	"github.com/orbook/orbook/internal/platform/auth"
)

type Handler struct {
	svc     *Service
	backlog BacklogReader
}

func NewHandler(svc *Service, backlog BacklogReader) *Handler {
	return &Handler{svc: svc, backlog: backlog}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleViewer))
	read.GET("/schedule", h.List)
	read.GET("/exports/schedule", h.Export)
	read.GET("/exports/schedule.xlsx", h.ExportWorkbook)
	read.GET("/legend", h.Legend)

	write := api.Group("", auth.RequireRole(auth.RoleScheduler))
	write.POST("/schedule", h.Create)
	write.PATCH("/schedule/:id", h.Update)
	write.DELETE("/schedule/:id", h.Cancel)
}

func (h *Handler) List(c echo.Context) error {
	entries, err := h.svc.List(c.Request().Context(), ListParams{Date: c.QueryParam("date")})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Invalid("invalid request body")
	}
	entry, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

// Update applies a partial patch. A body without a version is accepted by
// reading the current version server-side (last-writer-wins); that escape
// hatch is for trusted internal callers, not the general client contract.
func (h *Handler) Update(c echo.Context) error {
	var patch UpdatePatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Invalid("invalid request body")
	}
	entry, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

// Cancel is idempotent: a missing id is still a 204.
func (h *Handler) Cancel(c echo.Context) error {
	if err := h.svc.Cancel(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Export(c echo.Context) error {
	rows, err := h.svc.Export(c.Request().Context(), c.QueryParam("date"), h.backlog)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) ExportWorkbook(c echo.Context) error {
	rows, err := h.svc.Export(c.Request().Context(), c.QueryParam("date"), h.backlog)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="schedule.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)
	return WriteWorkbook(c.Response(), rows)
}

func (h *Handler) Legend(c echo.Context) error {
	return c.JSON(http.StatusOK, Legend(c.QueryParam("theme")))
}
