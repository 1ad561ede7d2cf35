// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"net/http"
	"time"

	"msgboard/internal/domain/session"
	"msgboard/internal/middleware"
	"msgboard/internal/services"
	"msgboard/internal/transport/cookie"
	"msgboard/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP endpoints.
type AuthHandler struct {
	service *services.AuthService
	codec   *cookie.Codec
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *services.AuthService, codec *cookie.Codec) *AuthHandler {
	return &AuthHandler{service: service, codec: codec}
}

// Register handles user registration. The new user is logged in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	sess, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusCreated, sess)
}

// Login handles user authentication.
func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	sess, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.respondWithSession(c, http.StatusOK, sess)
}

// Logout destroys the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
		writeError(c, err)
		return
	}

	h.codec.Clear(c.Writer)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *AuthHandler) respondWithSession(c *gin.Context, status int, sess session.Session) {
	if err := h.codec.Write(c.Writer, sess); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(status, httpdto.NewSuccessResponse(httpdto.AuthResponse{
		User:      httpdto.SessionUserDTO{ID: sess.UserID, Username: sess.Username},
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	}))
}

// writeError answers with the status mapped from err. Infrastructure errors
// are recorded on the context for logging and hidden from the client.
func writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal error"
	}
	c.JSON(status, httpdto.NewErrorResponse(message, httpdto.ErrorCode(status)))
}
