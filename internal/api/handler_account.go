package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"amply-reservation-client/internal/auth"
	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/model"
)

// GetAccount returns the cached logged-in profile. The password never leaves
// the auth boundary.
func (h *Handler) GetAccount(c *gin.Context) {
	profile, err := h.auth.CurrentUser(c.Request.Context())
	if err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no logged-in user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":         profile.Email,
		"role":          profile.Role,
		"fullName":      profile.FullName,
		"nic":           profile.NIC,
		"phone":         profile.Phone,
		"addressNo":     profile.AddressNo,
		"addressStreet": profile.AddressStreet,
		"addressCity":   profile.AddressCity,
		"status":        profile.Status,
	})
}

type updateAccountRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	AddressNo     string `json:"addressNo"`
	AddressStreet string `json:"addressStreet"`
	AddressCity   string `json:"addressCity"`
}

// PutAccount updates the logged-in profile on the server. NIC, role and
// account status are not editable here.
func (h *Handler) PutAccount(c *gin.Context) {
	profile, err := h.auth.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no logged-in user"})
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated := *profile
	if req.Email != "" {
		updated.Email = req.Email
	}
	if req.Password != "" {
		updated.Password = req.Password
	}
	if req.FullName != "" {
		updated.FullName = req.FullName
	}
	if req.Phone != "" {
		updated.Phone = req.Phone
	}
	if req.AddressNo != "" {
		updated.AddressNo = req.AddressNo
	}
	if req.AddressStreet != "" {
		updated.AddressStreet = req.AddressStreet
	}
	if req.AddressCity != "" {
		updated.AddressCity = req.AddressCity
	}

	if err := h.auth.UpdateAccount(c.Request.Context(), updated); err != nil {
		h.writeAccountError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type accountStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PatchAccountStatus handles deactivation and reactivation requests.
func (h *Handler) PatchAccountStatus(c *gin.Context) {
	var req accountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch req.Status {
	case model.AccountDeactive:
		err = h.auth.Deactivate(c.Request.Context())
	case model.AccountRequestedToReactivate:
		err = h.auth.RequestReactivation(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported status transition"})
		return
	}

	if err != nil {
		h.writeAccountError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no logged-in user"})
	case gateway.IsTransport(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server unreachable, try again"})
	default:
		if rejection, ok := gateway.AsRejection(err); ok {
			c.JSON(http.StatusBadGateway, gin.H{"error": rejection.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
