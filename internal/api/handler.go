package api

import (
	"amply-reservation-client/internal/auth"
	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/offline"
	"amply-reservation-client/internal/store"
	"amply-reservation-client/internal/sync"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	sync   *sync.Synchronizer
	writer *offline.Writer
	auth   *auth.Service
	gw     *gateway.Client
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, syncer *sync.Synchronizer, writer *offline.Writer, authSvc *auth.Service, gw *gateway.Client) *Handler {
	return &Handler{
		store:  s,
		sync:   syncer,
		writer: writer,
		auth:   authSvc,
		gw:     gw,
	}
}
