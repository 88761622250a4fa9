package importer

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
	read.GET("/imports", h.ListBatches)
	read.GET("/imports/:id", h.GetBatch)
	read.GET("/mapping-profiles", h.ListProfiles)

	write := api.Group("", auth.RequireRole(auth.RoleScheduler))
	write.POST("/imports/excel", h.ImportRows)
	write.POST("/imports/excel/file", h.ImportWorkbook)
	write.POST("/mapping-profiles", h.CreateProfile)
}

type importRequest struct {
	FileName         string `json:"fileName"`
	Rows             []Row  `json:"rows"`
	MappingProfileID string `json:"mappingProfileId"`
}

func (h *Handler) ImportRows(c echo.Context) error {
	var req importRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	batch, err := h.svc.ImportRows(c.Request().Context(), req.FileName, req.Rows, req.MappingProfileID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, batch)
}

// ImportWorkbook accepts a multipart xlsx upload under the "file" field.
func (h *Handler) ImportWorkbook(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Invalid("file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return apperr.Invalid("could not read uploaded file")
	}
	defer src.Close()

	rows, err := ParseWorkbook(src)
	if err != nil {
		return err
	}
	batch, err := h.svc.ImportRows(c.Request().Context(), fh.Filename, rows, c.FormValue("mappingProfileId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, batch)
}

func (h *Handler) ListBatches(c echo.Context) error {
	batches, err := h.svc.ListBatches(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batches)
}

func (h *Handler) GetBatch(c echo.Context) error {
	batch, err := h.svc.GetBatch(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batch)
}

type profileRequest struct {
	Name    string            `json:"name"`
	Columns map[string]string `json:"columns"`
}

func (h *Handler) CreateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	profile, err := h.svc.CreateProfile(c.Request().Context(), req.Name, req.Columns)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profile)
}

func (h *Handler) ListProfiles(c echo.Context) error {
	profiles, err := h.svc.ListProfiles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}
