package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/model"
	"amply-reservation-client/internal/offline"
	"amply-reservation-client/internal/policy"
)

// GetReservations returns the user's reservations, optionally filtered by
// status. Served from the synchronizer's snapshot so a dead network never
// blanks the view; the cache backs it up across restarts.
func (h *Handler) GetReservations(c *gin.Context) {
	status := c.Query("status")

	var list []model.Reservation
	if status == "" {
		list = h.sync.Snapshot()
	} else {
		list = h.sync.FilterByStatus(status)
	}

	if len(list) == 0 {
		cached, err := h.cachedReservations(c, status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read cached reservations"})
			return
		}
		list = cached
	}

	c.JSON(http.StatusOK, list)
}

// cachedReservations loads reservations from the local cache, filtered by
// status when one is given.
func (h *Handler) cachedReservations(c *gin.Context, status string) ([]model.Reservation, error) {
	if status != "" {
		return h.store.QueryByStatus(c.Request.Context(), status)
	}
	var rows []model.Reservation
	if err := h.store.DB().WithContext(c.Request.Context()).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type createReservationRequest struct {
	VehicleNumber   string `json:"vehicleNumber" binding:"required"`
	StationID       string `json:"stationId" binding:"required"`
	StationName     string `json:"stationName" binding:"required"`
	SlotNo          int    `json:"slotNo"`
	ReservationDate string `json:"reservationDate" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	EndTime         string `json:"endTime" binding:"required"`
}

// PostReservation submits a new reservation through the offline fallback
// writer. Identity fields come from the logged-in profile, not the request.
func (h *Handler) PostReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.auth.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no logged-in user"})
		return
	}

	outcome, err := h.writer.Submit(c.Request.Context(), model.ReservationCreateRequest{
		NIC:             profile.NIC,
		FullName:        profile.FullName,
		VehicleNumber:   req.VehicleNumber,
		StationID:       req.StationID,
		StationName:     req.StationName,
		SlotNo:          req.SlotNo,
		ReservationDate: req.ReservationDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	h.writeOutcome(c, outcome, err)
}

// PutReservation updates an existing reservation, gated by the edit-window
// policy.
func (h *Handler) PutReservation(c *gin.Context) {
	code := c.Param("code")

	existing, ok := h.findByCode(c, code)
	if !ok {
		return
	}

	allowed, err := policy.CanMutate(existing, time.Now())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusConflict, gin.H{"error": "reservations can only be updated at least 12 hours before the start time"})
		return
	}

	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.writer.Submit(c.Request.Context(), model.ReservationCreateRequest{
		RemoteID:        existing.RemoteID,
		NIC:             existing.NIC,
		FullName:        existing.FullName,
		VehicleNumber:   req.VehicleNumber,
		StationID:       req.StationID,
		StationName:     req.StationName,
		SlotNo:          req.SlotNo,
		ReservationDate: req.ReservationDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	h.writeOutcome(c, outcome, err)
}

// DeleteReservation removes a reservation remotely, gated by the edit-window
// policy. Deletes are not queued offline: the record would linger locally as
// if still booked.
func (h *Handler) DeleteReservation(c *gin.Context) {
	code := c.Param("code")

	existing, ok := h.findByCode(c, code)
	if !ok {
		return
	}

	allowed, err := policy.CanMutate(existing, time.Now())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !allowed {
		c.JSON(http.StatusConflict, gin.H{"error": "reservations can only be deleted at least 12 hours before the start time"})
		return
	}

	if err := h.gw.DeleteReservation(c.Request.Context(), existing.RemoteID); err != nil {
		if rejection, ok := gateway.AsRejection(err); ok {
			c.JSON(http.StatusBadGateway, gin.H{"error": rejection.Message})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server unreachable, try again"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) findByCode(c *gin.Context, code string) (model.Reservation, bool) {
	for _, r := range h.sync.Snapshot() {
		if strings.EqualFold(r.ReservationCode, code) {
			return r, true
		}
	}

	var row model.Reservation
	if err := h.store.DB().WithContext(c.Request.Context()).
		First(&row, "reservation_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
		return model.Reservation{}, false
	}
	return row, true
}

func (h *Handler) writeOutcome(c *gin.Context, outcome offline.Outcome, err error) {
	switch outcome {
	case offline.Created:
		c.JSON(http.StatusCreated, gin.H{"result": outcome.String()})
	case offline.Updated:
		c.JSON(http.StatusOK, gin.H{"result": outcome.String()})
	case offline.SavedOffline:
		c.JSON(http.StatusAccepted, gin.H{"result": outcome.String()})
	case offline.Rejected:
		msg := "reservation rejected"
		if err != nil {
			msg = err.Error()
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected submission outcome"})
	}
}
