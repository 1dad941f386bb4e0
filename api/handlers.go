// Package api exposes the service over HTTP: search, catalog browsing and
// the DTS-style collection, navigation and document views.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cllg-project/TexTile-Backend/services"
)

// API holds dependencies for the HTTP handlers.
type API struct {
	backend services.Backend
}

// NewAPI creates a new API handler structure.
func NewAPI(backend services.Backend) *API {
	return &API{backend: backend}
}

// SetupRoutes defines all the API routes.
func SetupRoutes(router *gin.Engine, backend services.Backend) {
	apiHandler := NewAPI(backend)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Full-text search routes
	searchRoutes := router.Group("/search")
	{
		searchRoutes.GET("/", apiHandler.SearchHandler)              // Lexical search
		searchRoutes.GET("/hybrid/", apiHandler.HybridSearchHandler) // Merged lexical + vector search
	}

	// Catalog routes
	manuscriptRoutes := router.Group("/manuscripts")
	{
		manuscriptRoutes.GET("/", apiHandler.ListManuscriptsHandler)                  // List/filter manuscripts
		manuscriptRoutes.GET("/count/", apiHandler.CountManuscriptsHandler)           // Catalog size
		manuscriptRoutes.GET("/language/:language", apiHandler.ManuscriptsByLanguage) // Filter by language code
		manuscriptRoutes.GET("/range/", apiHandler.ManuscriptsByRangeHandler)         // Filter by date overlap
		manuscriptRoutes.GET("/date/", apiHandler.ManuscriptsByDateHandler)           // Filter by dating bounds
	}
	router.GET("/manuscript/", apiHandler.GetManuscriptHandler) // Single record by id

	// DTS-style views
	router.GET("/collections/list/", apiHandler.ListCollectionsHandler)
	router.GET("/collection/", apiHandler.CollectionHandler)
	router.GET("/navigation/", apiHandler.NavigationHandler)
	router.GET("/document/", apiHandler.DocumentHandler)
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "textile-backend",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// intQuery parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
