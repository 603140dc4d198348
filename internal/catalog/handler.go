package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/shared/server/respond"
)

type Handler struct {
	Catalog *Catalog
}

func NewHandler(cat *Catalog) *Handler {
	return &Handler{Catalog: cat}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tools", h.list)
	rg.GET("/tools/:name", h.get)
	rg.GET("/tools/:name/release-notes", h.releaseNotes)
	rg.GET("/trends", h.trends)
}

func (h *Handler) list(c *gin.Context) {
	tools := h.Catalog.Search(c.Query("q"))
	respond.OK(c, gin.H{"tools": tools})
}

func (h *Handler) get(c *gin.Context) {
	tool, ok := h.Catalog.Lookup(c.Param("name"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "tool not found", nil)
		return
	}
	respond.OK(c, tool)
}

func (h *Handler) releaseNotes(c *gin.Context) {
	tool, ok := h.Catalog.Lookup(c.Param("name"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "tool not found", nil)
		return
	}
	notes := tool.ReleaseNotes
	if notes == nil {
		notes = []ReleaseNote{}
	}
	respond.OK(c, gin.H{"toolName": tool.Name, "releaseNotes": notes})
}

func (h *Handler) trends(c *gin.Context) {
	respond.OK(c, gin.H{"trends": h.Catalog.Trends()})
}
