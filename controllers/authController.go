package controllers

import (
	"ClinicRecords/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes initializes all authentication routes. auth resolves the
// bearer token for the protected ones.
func (ac *AuthController) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	// Public routes: No authentication required
	public := router.Group("/auth")
	{
		public.POST("/register/", ac.Handler.Register)
		public.POST("/token/", ac.Handler.Login)
		public.POST("/token/refresh/", ac.Handler.RefreshToken)
	}

	// Protected routes: Requires a valid token
	protected := router.Group("/auth", auth)
	{
		protected.POST("/logout/", ac.Handler.Logout)
		protected.GET("/me/", ac.Handler.Me)
	}
}
