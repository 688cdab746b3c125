package handlers

import (
	"errors"
	"net/http"

	"clinicbooking/services/catalog"
	"clinicbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogHandler serves the read-only expert and service lists.
type CatalogHandler struct {
	CatalogSvc catalog.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{CatalogSvc: svc}
}

// ListServices handles GET /api/catalog/services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.CatalogSvc.Services(c.Request.Context())
	if err != nil {
		getLogger(c).Error("ListServices: failed to fetch services", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch services", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// GetService handles GET /api/catalog/services/:slug.
func (h *CatalogHandler) GetService(c *gin.Context) {
	slug := c.Param("slug")
	service, err := h.CatalogSvc.ServiceBySlug(c.Request.Context(), slug)
	if err != nil {
		h.lookupFailed(c, "service", slug, err)
		return
	}
	c.JSON(http.StatusOK, service)
}

// ListExperts handles GET /api/catalog/experts.
func (h *CatalogHandler) ListExperts(c *gin.Context) {
	experts, err := h.CatalogSvc.Experts(c.Request.Context())
	if err != nil {
		getLogger(c).Error("ListExperts: failed to fetch experts", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch experts", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"experts": experts})
}

// GetExpert handles GET /api/catalog/experts/:slug.
func (h *CatalogHandler) GetExpert(c *gin.Context) {
	slug := c.Param("slug")
	expert, err := h.CatalogSvc.ExpertBySlug(c.Request.Context(), slug)
	if err != nil {
		h.lookupFailed(c, "expert", slug, err)
		return
	}
	c.JSON(http.StatusOK, expert)
}

func (h *CatalogHandler) lookupFailed(c *gin.Context, kind, slug string, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, kind+" not found", err.Error())
		return
	}
	getLogger(c).Error("catalog lookup failed", zap.String("kind", kind), zap.String("slug", slug), zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "failed to fetch "+kind, err.Error())
}
