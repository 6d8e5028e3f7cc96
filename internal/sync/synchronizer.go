package sync

import (
	"context"
	"fmt"
	"log"
	"strings"
	stdsync "sync"
	"time"

	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/model"
)

// Gateway is the slice of the remote API the synchronizer consumes.
type Gateway interface {
	ListReservations(ctx context.Context) ([]model.Reservation, error)
	CreateReservation(ctx context.Context, req model.ReservationCreateRequest) error
	UpdateReservation(ctx context.Context, id string, req model.ReservationCreateRequest) error
	ListActiveStations(ctx context.Context) ([]model.ChargingStation, error)
}

// Cache is the slice of the local cache store the synchronizer consumes.
type Cache interface {
	ReplaceReservations(ctx context.Context, list []model.Reservation) error
	GetPending(ctx context.Context) ([]model.Reservation, error)
	MarkSynced(ctx context.Context, reservationCode string) error
	SaveStations(ctx context.Context, stations []model.ChargingStation) error
	GetStations(ctx context.Context) ([]model.ChargingStation, error)
}

// Synchronizer keeps the local reservation cache reconciled with the server.
// It pulls the full reservation list, filters it to one user's NIC, merges
// the confirmed set into the cache (preserving pending local writes), and
// exposes status-filtered views over the last-fetched snapshot.
type Synchronizer struct {
	gw       Gateway
	store    Cache
	interval time.Duration

	mu       stdsync.Mutex
	snapshot []model.Reservation

	// inflight coalesces overlapping refreshes: a tick that fires while a
	// refresh is still running is skipped, not queued.
	inflight chan struct{}

	loopMu stdsync.Mutex
	cancel context.CancelFunc
	nic    string
}

// NewSynchronizer creates a synchronizer polling at the given interval.
func NewSynchronizer(gw Gateway, s Cache, interval time.Duration) *Synchronizer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Synchronizer{
		gw:       gw,
		store:    s,
		interval: interval,
		inflight: make(chan struct{}, 1),
	}
}

// Refresh performs one synchronization cycle for the given NIC: retry queued
// offline writes, fetch the authoritative list, filter, and merge it into
// the cache. On failure the previous snapshot and cache contents are left
// untouched.
func (s *Synchronizer) Refresh(ctx context.Context, nic string) ([]model.Reservation, error) {
	select {
	case s.inflight <- struct{}{}:
		defer func() { <-s.inflight }()
	default:
		return s.Snapshot(), nil
	}

	s.retryPending(ctx)

	all, err := s.gw.ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("reservation list fetch failed: %w", err)
	}

	mine := make([]model.Reservation, 0, len(all))
	for _, r := range all {
		if strings.EqualFold(r.NIC, nic) {
			if r.Status == "" {
				r.Status = "Unknown"
			}
			mine = append(mine, r)
		}
	}

	// A cycle cancelled mid-flight (Stop, or a user switch) must not write a
	// stale result into the cache or the snapshot.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceReservations(ctx, mine); err != nil {
		return nil, fmt.Errorf("cache reconcile failed: %w", err)
	}

	s.mu.Lock()
	s.snapshot = mine
	s.mu.Unlock()

	return mine, nil
}

// retryPending resubmits locally queued reservations. A record accepted by
// the server is marked Synced and superseded by its canonical counterpart on
// the merge that follows; a transport failure leaves it queued for the next
// cycle; a server rejection is logged and the record stays pending for the
// user to resolve.
func (s *Synchronizer) retryPending(ctx context.Context) {
	pending, err := s.store.GetPending(ctx)
	if err != nil {
		log.Printf("Error enumerating pending reservations: %v", err)
		return
	}

	for _, r := range pending {
		req := r.CreateRequest()
		var err error
		if req.RemoteID != "" {
			// A queued update still targets its server-side record.
			err = s.gw.UpdateReservation(ctx, req.RemoteID, req)
		} else {
			err = s.gw.CreateReservation(ctx, req)
		}
		if err != nil {
			if gateway.IsTransport(err) {
				return // still offline, try again next cycle
			}
			if rejection, ok := gateway.AsRejection(err); ok {
				log.Printf("Pending reservation %s rejected on retry: %s", r.ReservationCode, rejection.Message)
				continue
			}
			log.Printf("Error retrying pending reservation %s: %v", r.ReservationCode, err)
			continue
		}
		if err := s.store.MarkSynced(ctx, r.ReservationCode); err != nil {
			log.Printf("Error marking reservation %s synced: %v", r.ReservationCode, err)
			continue
		}
		log.Printf("Pending reservation %s synced to server", r.ReservationCode)
	}
}

// FilterByStatus returns the subset of the last-fetched snapshot whose
// status equals the given one case-insensitively. No network access.
func (s *Synchronizer) FilterByStatus(status string) []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]model.Reservation, 0, len(s.snapshot))
	for _, r := range s.snapshot {
		if strings.EqualFold(r.Status, status) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Snapshot returns the last-fetched reservation set.
func (s *Synchronizer) Snapshot() []model.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Reservation, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}
