package offline

import (
	"context"
	"fmt"
	"log"
	"time"

	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/model"
)

// Outcome describes how a reservation submission ended up.
type Outcome int

const (
	// Created means the server accepted a new reservation.
	Created Outcome = iota
	// Updated means the server accepted the updated reservation.
	Updated
	// SavedOffline means the server was unreachable and the reservation was
	// queued locally with status "Pending Sync".
	SavedOffline
	// Rejected means the server understood the request and refused it; the
	// reservation was not queued.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case SavedOffline:
		return "saved offline"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Submitter is the slice of the gateway the writer needs.
type Submitter interface {
	CreateReservation(ctx context.Context, req model.ReservationCreateRequest) error
	UpdateReservation(ctx context.Context, id string, req model.ReservationCreateRequest) error
}

// Saver is the slice of the local cache the writer needs.
type Saver interface {
	UpsertReservation(ctx context.Context, r model.Reservation) error
}

// Writer attempts reservation writes against the remote service and falls
// back to the local cache when the server cannot be reached. A well-formed
// server refusal is surfaced, never queued: it would only fail again.
type Writer struct {
	gw    Submitter
	store Saver
	now   func() time.Time
}

// NewWriter creates an offline fallback writer.
func NewWriter(gw Submitter, s Saver) *Writer {
	return &Writer{gw: gw, store: s, now: time.Now}
}

// Submit sends the reservation to the server, creating or updating depending
// on whether a remote ID is set. On transport failure the reservation is
// persisted locally for a later retry and the outcome is SavedOffline. On a
// server rejection the outcome is Rejected and the returned error carries
// the server's message.
func (w *Writer) Submit(ctx context.Context, req model.ReservationCreateRequest) (Outcome, error) {
	var err error
	success := Created
	if req.RemoteID != "" {
		success = Updated
		err = w.gw.UpdateReservation(ctx, req.RemoteID, req)
	} else {
		err = w.gw.CreateReservation(ctx, req)
	}

	if err == nil {
		return success, nil
	}

	if rejection, ok := gateway.AsRejection(err); ok {
		return Rejected, fmt.Errorf("reservation rejected: %s", rejection.Message)
	}

	if gateway.IsTransport(err) {
		code := OfflineCode(w.now())
		record := model.NewOfflineReservation(req, code, w.now())
		if saveErr := w.store.UpsertReservation(ctx, record); saveErr != nil {
			return Rejected, fmt.Errorf("offline save failed after transport error: %w", saveErr)
		}
		log.Printf("Server unreachable; reservation queued locally as %s", code)
		return SavedOffline, nil
	}

	// Anything else (request construction, body decoding) is a local fault.
	return Rejected, err
}

// OfflineCode generates the provisional reservation code for a locally
// queued record. The server assigns a canonical code on sync.
func OfflineCode(now time.Time) string {
	return fmt.Sprintf("OFFLINE-%d", now.UnixMilli())
}
