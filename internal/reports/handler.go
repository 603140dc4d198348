package reports

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/actions"
	"tool-advisor/internal/advisor"
	"tool-advisor/internal/shared/server/middleware"
	"tool-advisor/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/reports", h.create)
	rg.GET("/reports", h.list)
	rg.GET("/reports/:id", h.get)
	rg.GET("/reports/:id/export.csv", h.export)
}

func (h *Handler) create(c *gin.Context) {
	var req advisor.Criteria
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	report, err := h.Svc.Create(c.Request.Context(), middleware.SessionIDFromContext(c), req)
	if err != nil {
		actions.RespondError(c, err)
		return
	}
	c.Set("reportId", report.ID)
	respond.Created(c, c.FullPath()+"/"+report.ID, report)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	reports, err := h.Svc.List(c.Request.Context(), middleware.SessionIDFromContext(c), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}
	respond.OK(c, gin.H{"reports": reports})
}

func (h *Handler) get(c *gin.Context) {
	report, err := h.Svc.Get(c.Request.Context(), middleware.SessionIDFromContext(c), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	respond.OK(c, report)
}

func (h *Handler) export(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	report, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	reader, err := h.Svc.Export(c.Request.Context(), sessionID, report.ID)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", csvContentType)
	c.Header("Content-Disposition", "attachment; filename=\""+ExportFileName(report)+"\"")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load report", nil)
	}
}
