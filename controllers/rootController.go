package controllers

import (
	"ClinicRecords/handlers"
	"net/http"

	"github.com/gin-gonic/gin"
)

func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "clinic-records"})
}

// SetupRootRoute registers the root and health routes.
func SetupRootRoute(router gin.IRouter, health *handlers.HealthHandler) {
	router.GET("/", rootHandler)
	router.GET("/healthz", health.Health)
}
