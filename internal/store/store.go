package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amply-reservation-client/internal/model"
)

// Store defines the local cache operations. All operations are synchronous
// and local; no network access.
type Store interface {
	ReplaceReservations(ctx context.Context, list []model.Reservation) error
	UpsertReservation(ctx context.Context, r model.Reservation) error
	ClearReservations(ctx context.Context) error
	QueryByStatus(ctx context.Context, status string) ([]model.Reservation, error)
	GetPending(ctx context.Context) ([]model.Reservation, error)
	MarkSynced(ctx context.Context, reservationCode string) error

	SaveStations(ctx context.Context, stations []model.ChargingStation) error
	GetStations(ctx context.Context) ([]model.ChargingStation, error)

	GetLoggedInUser(ctx context.Context) (*model.UserProfile, error)
	SaveProfile(ctx context.Context, p model.UserProfile) error
	ClearProfile(ctx context.Context) error

	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying GORM handle.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ReplaceReservations reconciles the server-confirmed reservation set into
// the cache. Rows with status "Pending Sync" are local-only writes awaiting
// retry and survive the reload; everything else is replaced wholesale.
func (s *gormStore) ReplaceReservations(ctx context.Context, list []model.Reservation) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("LOWER(status) <> LOWER(?)", model.StatusPendingSync).
			Delete(&model.Reservation{}).Error; err != nil {
			return fmt.Errorf("failed to clear confirmed reservations: %w", err)
		}

		if len(list) == 0 {
			return nil
		}

		rows := make([]model.Reservation, len(list))
		copy(rows, list)
		for i := range rows {
			rows[i].ID = 0
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "reservation_code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"remote_id", "full_name", "nic", "vehicle_number", "station_id",
				"station_name", "slot_no", "booking_date", "reservation_date",
				"start_time", "end_time", "status", "qr_code", "created_at", "updated_at",
			}),
		}).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert server reservations: %w", err)
		}
		return nil
	})
}

// UpsertReservation inserts or replaces a single reservation keyed by its
// reservation code.
func (s *gormStore) UpsertReservation(ctx context.Context, r model.Reservation) error {
	r.ID = 0
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reservation_code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"remote_id", "full_name", "nic", "vehicle_number", "station_id",
			"station_name", "slot_no", "booking_date", "reservation_date",
			"start_time", "end_time", "status", "qr_code", "created_at", "updated_at",
		}),
	}).Create(&r).Error
	if err != nil {
		return fmt.Errorf("failed to upsert reservation %s: %w", r.ReservationCode, err)
	}
	return nil
}

// ClearReservations removes every cached reservation, including pending
// ones. Used on logout.
func (s *gormStore) ClearReservations(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.Reservation{}).Error; err != nil {
		return fmt.Errorf("failed to clear reservations: %w", err)
	}
	return nil
}

// QueryByStatus returns cached reservations whose status equals the given
// one, case-insensitively.
func (s *gormStore) QueryByStatus(ctx context.Context, status string) ([]model.Reservation, error) {
	var rows []model.Reservation
	if err := s.db.WithContext(ctx).
		Where("LOWER(status) = LOWER(?)", status).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query reservations by status: %w", err)
	}
	return rows, nil
}

// GetPending returns the locally queued reservations awaiting sync.
func (s *gormStore) GetPending(ctx context.Context) ([]model.Reservation, error) {
	return s.QueryByStatus(ctx, model.StatusPendingSync)
}

// MarkSynced flips a pending reservation to Synced after a successful retry.
func (s *gormStore) MarkSynced(ctx context.Context, reservationCode string) error {
	res := s.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("reservation_code = ?", reservationCode).
		Updates(map[string]any{
			"status":     model.StatusSynced,
			"updated_at": time.Now().Format(model.LocalTimestampLayout),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to mark reservation %s synced: %w", reservationCode, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveStations replaces the cached station snapshot. Schedules are stored
// serialized, matching the read-only nature of station data.
func (s *gormStore) SaveStations(ctx context.Context, stations []model.ChargingStation) error {
	if len(stations) == 0 {
		return nil
	}
	rows := make([]model.CachedStation, 0, len(stations))
	for _, st := range stations {
		scheduleJSON, err := json.Marshal(st.ScheduleByDate)
		if err != nil {
			return fmt.Errorf("failed to serialize schedule for station %s: %w", st.StationID, err)
		}
		rows = append(rows, model.CachedStation{
			StationID:    st.StationID,
			StationName:  st.StationName,
			ScheduleJSON: string(scheduleJSON),
		})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "station_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"station_name", "schedule_json"}),
		}).Create(&rows).Error
	})
}

// GetStations loads the cached station snapshot. A station whose stored
// schedule fails to deserialize is skipped, not fatal.
func (s *gormStore) GetStations(ctx context.Context) ([]model.ChargingStation, error) {
	var rows []model.CachedStation
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load cached stations: %w", err)
	}

	stations := make([]model.ChargingStation, 0, len(rows))
	for _, row := range rows {
		var schedule []model.ScheduleByDate
		if err := json.Unmarshal([]byte(row.ScheduleJSON), &schedule); err != nil {
			log.Printf("Warning: could not decode schedule for station %s: %v", row.StationID, err)
			continue
		}
		stations = append(stations, model.ChargingStation{
			StationID:      row.StationID,
			StationName:    row.StationName,
			ScheduleByDate: schedule,
		})
	}
	return stations, nil
}

// GetLoggedInUser returns the single cached profile, or nil when nobody is
// logged in.
func (s *gormStore) GetLoggedInUser(ctx context.Context) (*model.UserProfile, error) {
	var p model.UserProfile
	err := s.db.WithContext(ctx).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load logged-in user: %w", err)
	}
	return &p, nil
}

// SaveProfile stores the logged-in profile, replacing any previous one. The
// cache holds at most one profile at a time.
func (s *gormStore) SaveProfile(ctx context.Context, p model.UserProfile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.UserProfile{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous profile: %w", err)
		}
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		return nil
	})
}

// ClearProfile removes the logged-in profile. Used on logout.
func (s *gormStore) ClearProfile(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.UserProfile{}).Error; err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}
