package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"amply-reservation-client/config"
	"amply-reservation-client/internal/auth"
	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/mw"
	"amply-reservation-client/internal/offline"
	"amply-reservation-client/internal/store"
	"amply-reservation-client/internal/sync"
)

// NewRouter creates and configures a new Gin router for the local API.
func NewRouter(cfg *config.Config, s store.Store, syncer *sync.Synchronizer, writer *offline.Writer, authSvc *auth.Service, gw *gateway.Client) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, syncer, writer, authSvc, gw)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	// Short-lived response cache for station reads; reservation views come
	// straight from the snapshot and are not cached.
	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 10*time.Minute)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/login", handler.PostLogin)

		authed := api.Group("")
		authed.Use(mw.RequireSession(authSvc))
		{
			authed.POST("/logout", handler.PostLogout)

			authed.GET("/reservations", handler.GetReservations)
			authed.POST("/reservations", handler.PostReservation)
			authed.PUT("/reservations/:code", handler.PutReservation)
			authed.DELETE("/reservations/:code", handler.DeleteReservation)

			authed.GET("/stations", caching, handler.GetStations)
			authed.GET("/stations/:station_id/slot", handler.GetStationSlot)

			authed.GET("/account", handler.GetAccount)
			authed.PUT("/account", handler.PutAccount)
			authed.PATCH("/account/status", handler.PatchAccountStatus)
		}
	}

	return r
}
