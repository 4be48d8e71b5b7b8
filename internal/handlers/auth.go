// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/driprats/storefront-admin/internal/i18n"
	"github.com/driprats/storefront-admin/internal/middleware"
	"github.com/driprats/storefront-admin/internal/services"
	"github.com/driprats/storefront-admin/internal/utils"
)

// CookieConfig holds the session cookie attributes that vary by deployment.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	authService *services.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService *services.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), nil)
		return
	}

	result, err := h.authService.Login(&req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLoginLocked):
			utils.TooManyRequestsResponse(c, i18n.T(lang, i18n.KeyAuthLocked))
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
		default:
			logrus.WithError(err).Error("Login failed")
			utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyAuthLoginFailed))
		}
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresIn)
	utils.SuccessResponse(c, gin.H{
		"success": true,
		"user":    result.User,
	})
}

// DELETE /api/auth/login
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	utils.OKResponse(c)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	utils.SuccessResponse(c, gin.H{"user": user})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
