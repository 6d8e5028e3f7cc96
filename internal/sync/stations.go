package sync

import (
	"context"
	"log"

	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/model"
)

// Stations returns the active station list with schedules. The fresh server
// copy is cached for offline use; when the server is unreachable the last
// cached snapshot is served instead. A server rejection is surfaced as-is.
func (s *Synchronizer) Stations(ctx context.Context) ([]model.ChargingStation, error) {
	stations, err := s.gw.ListActiveStations(ctx)
	if err == nil {
		if saveErr := s.store.SaveStations(ctx, stations); saveErr != nil {
			log.Printf("Warning: could not cache station list: %v", saveErr)
		}
		return stations, nil
	}

	if gateway.IsTransport(err) {
		cached, cacheErr := s.store.GetStations(ctx)
		if cacheErr == nil && len(cached) > 0 {
			log.Printf("Server unreachable; serving %d cached stations", len(cached))
			return cached, nil
		}
	}
	return nil, err
}
