package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/schedule"
)

// GetStations returns the active stations with their schedules, falling back
// to the cached snapshot when the server is unreachable.
func (h *Handler) GetStations(c *gin.Context) {
	stations, err := h.sync.Stations(c.Request.Context())
	if err != nil {
		if rejection, ok := gateway.AsRejection(err); ok {
			c.JSON(http.StatusBadGateway, gin.H{"error": rejection.Message})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stations unavailable"})
		return
	}
	c.JSON(http.StatusOK, stations)
}

// GetStationSlot suggests the first available slot for a station on a date.
func (h *Handler) GetStationSlot(c *gin.Context) {
	stationID := c.Param("station_id")

	dateParam := c.Query("date")
	targetDate, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing date, expected YYYY-MM-DD"})
		return
	}

	stations, err := h.sync.Stations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stations unavailable"})
		return
	}

	for _, station := range stations {
		if station.StationID != stationID {
			continue
		}
		slot, err := schedule.FindAvailableSlot(station, targetDate)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, slot)
		case errors.Is(err, schedule.ErrNoAvailableSlots):
			c.JSON(http.StatusNotFound, gin.H{"error": "no available slots for this date"})
		case errors.Is(err, schedule.ErrNoScheduleForDate):
			c.JSON(http.StatusNotFound, gin.H{"error": "no schedule for this date"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
}
