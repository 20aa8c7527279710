package handlers

import (
	"ClinicRecords/middlewares"
	"ClinicRecords/repositories"
	"ClinicRecords/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

const msgNotFound = "Not found."

// writeError maps a service error onto its status code and body.
func writeError(c *gin.Context, err error) {
	var fieldErrs validation.Errors
	var refErr *services.ReferenceNotFoundError

	switch {
	case errors.As(err, &fieldErrs):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
	case errors.As(err, &refErr):
		middlewares.HttpError(c, refErr.Error(), http.StatusNotFound, err)
	case errors.Is(err, repositories.ErrNotFound):
		middlewares.HttpError(c, msgNotFound, http.StatusNotFound, err)
	case errors.Is(err, services.ErrTokenNotOwned):
		middlewares.HttpError(c, "You do not have permission to perform this action.", http.StatusForbidden, err)
	case services.IsAuthenticationError(err):
		middlewares.HttpError(c, "No active account found with the given credentials", http.StatusUnauthorized, err)
	default:
		middlewares.HttpError(c, "internal server error", http.StatusInternalServerError, err)
	}
}

// parseID reads the :id path parameter. A malformed id cannot name any row,
// so it is reported as not found.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		middlewares.HttpError(c, msgNotFound, http.StatusNotFound, err)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body into dest, writing a 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": "invalid JSON body: " + err.Error()}})
		return false
	}
	return true
}

// isPartial reports whether the request is a PATCH.
func isPartial(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}
