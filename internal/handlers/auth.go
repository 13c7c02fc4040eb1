// auth.go handles logging in and out: the HTML form backed by a session
// cookie, and the JSON API which hands out JWTs.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HackNC/resume-parser/internal/middleware"
	"github.com/HackNC/resume-parser/internal/models"
	"github.com/HackNC/resume-parser/internal/services/accounts"
)

// LoginForm renders the login page.
// GET /login
func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", page(c, "Log in"))
}

// Login checks the submitted credentials and starts a session.
// POST /login
//
// Both success and failure answer with a redirect: to the index on success,
// back to the login form (without a session) on failure.
func (h *Handler) Login(c *gin.Context) {
	name := c.PostForm("name")
	password := c.PostForm("password")

	user, err := h.Accounts.VerifyUser(c.Request.Context(), name, password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		h.Log.WithField("name", name).Warn("🔒 login failed")
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if err := middleware.StartSession(c, h.Sessions, user); err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	h.Log.WithField("user_id", user.ID).Info("🔓 user logged in")
	c.Redirect(http.StatusFound, "/")
}

// LoginThrottled answers a rate-limited login attempt.
func (h *Handler) LoginThrottled(c *gin.Context) {
	data := page(c, "Log in")
	data["Error"] = "Too many login attempts. Try again later."
	c.HTML(http.StatusTooManyRequests, "login.html", data)
}

// Logout ends the session.
// GET /logout
func (h *Handler) Logout(c *gin.Context) {
	if err := middleware.EndSession(c, h.Sessions); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// APILogin authenticates a user and returns a JWT token.
// POST /api/v1/auth/login
func (h *Handler) APILogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Name and password are required",
			Code:    http.StatusBadRequest,
		})
		return
	}

	user, err := h.Accounts.VerifyUser(c.Request.Context(), req.Name, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid name or password",
			Code:    http.StatusUnauthorized,
		})
		return
	}
	if err != nil {
		h.Log.WithError(err).Error("❌ Failed to verify user")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to log in",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	h.respondWithToken(c, user)
}

// GetMe returns the current authenticated user.
// GET /api/v1/auth/me
func (h *Handler) GetMe(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Not authenticated",
			Code:    http.StatusUnauthorized,
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// RefreshToken issues a new JWT token for an authenticated user.
// POST /api/v1/auth/refresh
func (h *Handler) RefreshToken(c *gin.Context) {
	user := middleware.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "unauthorized",
			Message: "Not authenticated",
			Code:    http.StatusUnauthorized,
		})
		return
	}
	h.respondWithToken(c, user)
}

func (h *Handler) respondWithToken(c *gin.Context, user *models.User) {
	token, err := middleware.GenerateJWT(user, h.JWTSecret)
	if err != nil {
		h.Log.WithError(err).Error("❌ Failed to generate token")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "token_error",
			Message: "Failed to generate token",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token: token,
		User:  *user,
	})
}
