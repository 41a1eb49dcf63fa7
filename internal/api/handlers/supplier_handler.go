package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	service *service.AnalyticsService
}

func NewSupplierHandler(service *service.AnalyticsService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

func (h *SupplierHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.service.Suppliers(c.Request.Context())
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to fetch suppliers", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": suppliers, "total": len(suppliers)})
}

func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "supplier name is required"})
		return
	}

	supplier, err := h.service.Supplier(c.Request.Context(), name)
	if errors.Is(err, service.ErrSupplierNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to fetch supplier", err)
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// GetCatalog returns the values each filter dimension accepts.
func (h *SupplierHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog())
}
