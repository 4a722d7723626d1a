package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/api/handlers"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/services"
)

func setupRestRouter(catalog services.ICatalogService, availability services.IAvailabilityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRestCatalogHandler(catalog, availability)
	r := gin.New()
	r.GET("/v1/cottage", handler.ListCottages)
	r.GET("/v1/cottage/:id", handler.GetCottageByID)
	r.GET("/v1/cottage/:id/availability", handler.GetCottageAvailability)
	r.GET("/v1/package", handler.ListPackages)
	r.GET("/v1/package/:id", handler.GetPackageByID)
	return r
}

func TestRestCatalogHandler_ListCottages(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	router := setupRestRouter(mockCatalog, new(MockAvailabilityService))

	mockCatalog.On("ListActiveCottages", mock.Anything).Return([]models.Cottage{
		{ID: primitive.NewObjectID(), Name: "Glass Cottage", IsActive: true},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/cottage", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Glass Cottage")
	mockCatalog.AssertExpectations(t)
}

func TestRestCatalogHandler_GetCottageByID_InvalidID(t *testing.T) {
	router := setupRestRouter(new(MockCatalogService), new(MockAvailabilityService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/cottage/not-an-id", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid cottage ID")
}

func TestRestCatalogHandler_GetCottageByID_NotFound(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	router := setupRestRouter(mockCatalog, new(MockAvailabilityService))

	id := primitive.NewObjectID()
	mockCatalog.On("GetCottage", mock.Anything, id).Return(nil, fmt.Errorf("cottage %s: %w", id.Hex(), services.ErrNotFound))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/cottage/"+id.Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockCatalog.AssertExpectations(t)
}

func TestRestCatalogHandler_GetCottageAvailability(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	mockAvail := new(MockAvailabilityService)
	router := setupRestRouter(mockCatalog, mockAvail)

	id := primitive.NewObjectID()
	mockCatalog.On("GetCottage", mock.Anything, id).Return(&models.Cottage{ID: id}, nil)
	mockAvail.On("IsRangeAvailable", mock.Anything, id,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)).Return(false, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/cottage/"+id.Hex()+"/availability?check_in=2026-09-01&check_out=2026-09-03", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isAvailable":false`)
	mockAvail.AssertExpectations(t)
}

func TestRestCatalogHandler_GetCottageAvailability_MissingDates(t *testing.T) {
	router := setupRestRouter(new(MockCatalogService), new(MockAvailabilityService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/cottage/"+primitive.NewObjectID().Hex()+"/availability", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestCatalogHandler_GetPackageByID(t *testing.T) {
	mockCatalog := new(MockCatalogService)
	router := setupRestRouter(mockCatalog, new(MockAvailabilityService))

	id := primitive.NewObjectID()
	mockCatalog.On("GetPackage", mock.Anything, id).Return(&models.Package{ID: id, Name: "Safari Retreat", Price: 2500}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/package/"+id.Hex(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Safari Retreat")
	mockCatalog.AssertExpectations(t)
}
