package sync

import (
	"context"
	"log"
	"strings"
	"time"
)

// Start begins the polling loop for the given NIC: an immediate refresh,
// then one refresh per interval until Stop is called. Starting again for the
// same NIC is a no-op; starting for a different NIC tears down the old loop,
// discards the previous user's snapshot, and begins polling for the new one.
// The consumer calls Start when its view becomes active and Stop when it
// deactivates; results of a refresh in flight at Stop time are abandoned.
func (s *Synchronizer) Start(nic string) {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()

	if s.cancel != nil {
		if strings.EqualFold(s.nic, nic) {
			return // already running for this user
		}
		log.Printf("Switching reservation sync loop from NIC %s to %s", s.nic, nic)
		s.cancel()
		s.cancel = nil

		// The old user's snapshot must never be served to the new one.
		s.mu.Lock()
		s.snapshot = nil
		s.mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.nic = nic

	go s.run(ctx, nic)
}

// Stop halts the polling loop and cancels any in-flight refresh. Safe to
// call when the loop is not running.
func (s *Synchronizer) Stop() {
	s.loopMu.Lock()
	defer s.loopMu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Synchronizer) run(ctx context.Context, nic string) {
	log.Printf("Starting reservation sync loop for NIC %s (every %s)", nic, s.interval)

	s.refreshOnce(ctx, nic)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reservation sync loop stopped.")
			return
		case <-timer.C:
			s.refreshOnce(ctx, nic)
			timer.Reset(s.interval)
		}
	}
}

func (s *Synchronizer) refreshOnce(ctx context.Context, nic string) {
	if _, err := s.Refresh(ctx, nic); err != nil {
		if ctx.Err() != nil {
			return // torn down mid-request, discard the result
		}
		log.Printf("Refresh cycle failed: %v", err)
	}
}
