package actions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/advisor"
	"tool-advisor/internal/shared/server/middleware"
	"tool-advisor/internal/shared/server/respond"
)

// Handler exposes the action layer over HTTP.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the model-backed routes to rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
	rg.POST("/comparisons", h.compare)
	rg.POST("/estimates", h.estimate)
	rg.GET("/tools/:name/details", h.details)
	rg.POST("/tools/:name/analysis", h.analyze)
}

type compareRequest struct {
	Tools    []string          `json:"tools"`
	Criteria []string          `json:"criteria"`
	Filter   *advisor.Criteria `json:"filter"`
}

type estimateRequest struct {
	Tool     string           `json:"tool"`
	Criteria advisor.Criteria `json:"criteria"`
}

func (h *Handler) recommend(c *gin.Context) {
	c.Set(middleware.OperationKey, advisor.OpRecommendTools)
	var req advisor.Criteria
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	res, err := h.Svc.Recommend(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) compare(c *gin.Context) {
	c.Set(middleware.OperationKey, advisor.OpCompareTools)
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	res, err := h.Svc.Compare(c.Request.Context(), req.Tools, req.Criteria, req.Filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) estimate(c *gin.Context) {
	c.Set(middleware.OperationKey, advisor.OpEstimateEffort)
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	res, err := h.Svc.Estimate(c.Request.Context(), req.Criteria, req.Tool)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) details(c *gin.Context) {
	c.Set(middleware.OperationKey, advisor.OpGetToolDetails)
	res, err := h.Svc.Details(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Set(middleware.OperationKey, advisor.OpAnalyzeTool)
	var req advisor.Criteria
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	res, err := h.Svc.Analyze(c.Request.Context(), c.Param("name"), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	respond.OK(c, res)
}

// RespondError maps action errors to the standard error envelope.
func RespondError(c *gin.Context, err error) {
	var verr *advisor.ValidationError
	if errors.As(err, &verr) {
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Error(), verr.Fields)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
}
