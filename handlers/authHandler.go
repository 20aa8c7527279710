package handlers

import (
	"ClinicRecords/dtos"
	"ClinicRecords/middlewares"
	"ClinicRecords/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service services.AuthService
}

func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles new user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dtos.NewIdentityResponse(user))
}

// Login exchanges username and password for an access and refresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	pair, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// RefreshToken issues a new access token from a refresh token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dtos.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	access, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, access)
}

// Logout revokes the caller's refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(c)
	if !ok {
		middlewares.HttpError(c, "Authentication credentials were not provided.", http.StatusUnauthorized, nil)
		return
	}
	var req dtos.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.Logout(c.Request.Context(), identity.ID, req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated identity and its role.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(c)
	if !ok {
		middlewares.HttpError(c, "Authentication credentials were not provided.", http.StatusUnauthorized, nil)
		return
	}
	c.JSON(http.StatusOK, dtos.NewIdentityResponse(identity))
}
