package backlog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orbook/orbook/internal/platform/apperr"
	"github.com/orbook/orbook/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleViewer))
	read.GET("/backlog", h.List)
	read.GET("/backlog/:id", h.Get)

	write := api.Group("", auth.RequireRole(auth.RoleScheduler))
	write.POST("/backlog", h.Create)
	write.PATCH("/backlog/:id", h.Update)
	write.DELETE("/backlog/:id", h.Remove)
}

func (h *Handler) List(c echo.Context) error {
	params := ListParams{
		CaseTypeID: c.QueryParam("caseTypeId"),
		SurgeonID:  c.QueryParam("surgeonId"),
		Search:     c.QueryParam("search"),
	}
	items, err := h.svc.List(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	item, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) Create(c echo.Context) error {
	var in ItemInput
	if err := c.Bind(&in); err != nil {
		return apperr.Invalid("invalid request body")
	}
	item, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) Update(c echo.Context) error {
	var patch ItemPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if patch.IsEmpty() {
		return apperr.Invalid("empty patch")
	}
	item, err := h.svc.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) Remove(c echo.Context) error {
	existed, err := h.svc.SoftRemove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !existed {
		return apperr.NotFound("waiting list item not found")
	}
	return c.NoContent(http.StatusNoContent)
}
