package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scit-dev/registrar/internal/service"
	appErrors "github.com/scit-dev/registrar/pkg/errors"
	"github.com/scit-dev/registrar/pkg/response"
)

// AuthHandler exposes login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin verifies the admin credential and issues a bearer token.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.auth.AdminLogin(req.Password); err != nil {
		response.Error(c, err)
		return
	}
	token, err := h.auth.IssueAdminToken(time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"token": token})
}

// StudentLogin resolves a student by ID.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	student, err := h.auth.StudentLogin(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}
