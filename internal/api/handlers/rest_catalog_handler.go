package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/services"
)

// RestCatalogHandler handles REST requests for cottages and packages.
type RestCatalogHandler struct {
	catalog      services.ICatalogService
	availability services.IAvailabilityService
}

// NewRestCatalogHandler creates a new RestCatalogHandler.
func NewRestCatalogHandler(catalog services.ICatalogService, availability services.IAvailabilityService) *RestCatalogHandler {
	return &RestCatalogHandler{
		catalog:      catalog,
		availability: availability,
	}
}

// ListCottages handles GET /v1/cottage
func (h *RestCatalogHandler) ListCottages(c *gin.Context) {
	cottages, err := h.catalog.ListActiveCottages(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cottages"})
		return
	}
	c.JSON(http.StatusOK, cottages)
}

// GetCottageByID handles GET /v1/cottage/:id
func (h *RestCatalogHandler) GetCottageByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cottage ID format"})
		return
	}

	cottage, err := h.catalog.GetCottage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cottage not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cottage"})
		}
		return
	}
	c.JSON(http.StatusOK, cottage)
}

// GetCottageAvailability handles GET /v1/cottage/:id/availability?check_in=...&check_out=...
func (h *RestCatalogHandler) GetCottageAvailability(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cottage ID format"})
		return
	}

	checkIn, apiErr := parseDate(c.Query("check_in"), "check_in")
	if apiErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apiErr.Message})
		return
	}
	checkOut, apiErr := parseDate(c.Query("check_out"), "check_out")
	if apiErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apiErr.Message})
		return
	}
	if services.Nights(checkIn, checkOut) < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be after check_in"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.catalog.GetCottage(ctx, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cottage not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cottage"})
		}
		return
	}

	available, err := h.availability.IsRangeAvailable(ctx, id, checkIn, checkOut)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAvailable": available})
}

// ListPackages handles GET /v1/package
func (h *RestCatalogHandler) ListPackages(c *gin.Context) {
	packages, err := h.catalog.ListActivePackages(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve packages"})
		return
	}
	c.JSON(http.StatusOK, packages)
}

// GetPackageByID handles GET /v1/package/:id
func (h *RestCatalogHandler) GetPackageByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package ID format"})
		return
	}

	pkg, err := h.catalog.GetPackage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Package not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve package"})
		}
		return
	}
	c.JSON(http.StatusOK, pkg)
}
