package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"amply-reservation-client/internal/auth"
	"amply-reservation-client/internal/gateway"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PostLogin authenticates against the remote service and starts the sync
// loop for the logged-in user's NIC.
func (h *Handler) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		case errors.Is(err, auth.ErrAccountDeactivated):
			c.JSON(http.StatusForbidden, gin.H{"error": "account is deactivated"})
		case gateway.IsTransport(err):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server unreachable, try again"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	h.sync.Start(profile.NIC)

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"email":    profile.Email,
		"fullName": profile.FullName,
		"nic":      profile.NIC,
		"role":     profile.Role,
		"status":   profile.Status,
	})
}

// PostLogout stops the sync loop and clears the cached profile and
// reservations.
func (h *Handler) PostLogout(c *gin.Context) {
	h.sync.Stop()

	if err := h.auth.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
