package offline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amply-reservation-client/internal/gateway"
	"amply-reservation-client/internal/model"
)

// mockSubmitter is a scripted implementation of the Submitter interface.
type mockSubmitter struct {
	createErr error
	updateErr error
	created   []model.ReservationCreateRequest
	updated   []string
}

func (m *mockSubmitter) CreateReservation(ctx context.Context, req model.ReservationCreateRequest) error {
	m.created = append(m.created, req)
	return m.createErr
}

func (m *mockSubmitter) UpdateReservation(ctx context.Context, id string, req model.ReservationCreateRequest) error {
	m.updated = append(m.updated, id)
	return m.updateErr
}

// mockSaver records upserted reservations.
type mockSaver struct {
	saved   []model.Reservation
	saveErr error
}

func (m *mockSaver) UpsertReservation(ctx context.Context, r model.Reservation) error {
	m.saved = append(m.saved, r)
	return m.saveErr
}

func newTestWriter(sub *mockSubmitter, saver *mockSaver) *Writer {
	w := NewWriter(sub, saver)
	w.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	return w
}

func TestSubmit_CreateSuccess(t *testing.T) {
	sub := &mockSubmitter{}
	saver := &mockSaver{}
	w := newTestWriter(sub, saver)

	outcome, err := w.Submit(context.Background(), model.ReservationCreateRequest{NIC: "991234567V"})
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.Len(t, sub.created, 1)
	assert.Empty(t, saver.saved, "no local record on a successful create")
}

func TestSubmit_UpdateSuccess(t *testing.T) {
	sub := &mockSubmitter{}
	saver := &mockSaver{}
	w := newTestWriter(sub, saver)

	outcome, err := w.Submit(context.Background(), model.ReservationCreateRequest{RemoteID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)
	assert.Equal(t, []string{"abc"}, sub.updated)
}

func TestSubmit_TransportFailureQueuesOffline(t *testing.T) {
	sub := &mockSubmitter{createErr: &gateway.TransportError{Err: errors.New("connection refused")}}
	saver := &mockSaver{}
	w := newTestWriter(sub, saver)

	req := model.ReservationCreateRequest{
		NIC:             "991234567V",
		FullName:        "A. Perera",
		StationID:       "ST-001",
		ReservationDate: "2025-06-10",
		StartTime:       "09:00:00",
		EndTime:         "10:00:00",
	}
	outcome, err := w.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, SavedOffline, outcome)

	require.Len(t, saver.saved, 1)
	saved := saver.saved[0]
	assert.Equal(t, model.StatusPendingSync, saved.Status)
	assert.Regexp(t, regexp.MustCompile(`^OFFLINE-\d+$`), saved.ReservationCode)
	assert.Equal(t, "991234567V", saved.NIC)
	assert.Equal(t, "2025-06-01 10:00:00", saved.BookingDate)
}

func TestSubmit_ServerRejectionIsNotQueued(t *testing.T) {
	sub := &mockSubmitter{createErr: &gateway.ServerRejection{StatusCode: http.StatusUnprocessableEntity, Message: "slot taken"}}
	saver := &mockSaver{}
	w := newTestWriter(sub, saver)

	outcome, err := w.Submit(context.Background(), model.ReservationCreateRequest{})
	require.Error(t, err)
	assert.Equal(t, Rejected, outcome)
	assert.Contains(t, err.Error(), "slot taken")
	assert.Empty(t, saver.saved, "a server rejection must not be queued offline")
}

func TestSubmit_OfflineSaveFailureSurfaces(t *testing.T) {
	sub := &mockSubmitter{createErr: &gateway.TransportError{Err: errors.New("timeout")}}
	saver := &mockSaver{saveErr: fmt.Errorf("disk full")}
	w := newTestWriter(sub, saver)

	outcome, err := w.Submit(context.Background(), model.ReservationCreateRequest{})
	require.Error(t, err)
	assert.Equal(t, Rejected, outcome)
}

func TestOfflineCode(t *testing.T) {
	now := time.UnixMilli(1748772000000)
	assert.Equal(t, "OFFLINE-1748772000000", OfflineCode(now))
}
