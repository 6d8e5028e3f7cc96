package model

import "time"

// Client-written reservation statuses. The server-side status set is treated
// as opaque strings compared case-insensitively.
const (
	StatusPendingSync = "Pending Sync"
	StatusSynced      = "Synced"
)

// Reservation represents one booked charging slot, either confirmed by the
// server or queued locally for sync.
type Reservation struct {
	ID              int64   `gorm:"primaryKey;autoIncrement" json:"-"`
	RemoteID        string  `gorm:"size:64;index" json:"id"`
	ReservationCode string  `gorm:"uniqueIndex;size:64;not null" json:"reservationCode"`
	FullName        string  `gorm:"size:256" json:"fullName"`
	NIC             string  `gorm:"size:32;index" json:"nic"`
	VehicleNumber   string  `gorm:"size:32" json:"vehicleNumber"`
	StationID       string  `gorm:"size:64" json:"stationId"`
	StationName     string  `gorm:"size:256" json:"stationName"`
	SlotNo          int     `json:"slotNo"`
	BookingDate     string  `gorm:"size:32" json:"bookingDate"`
	ReservationDate string  `gorm:"size:32" json:"reservationDate"`
	StartTime       string  `gorm:"size:16" json:"startTime"`
	EndTime         string  `gorm:"size:16" json:"endTime"`
	Status          string  `gorm:"size:32;index" json:"status"`
	QRCode          *string `gorm:"column:qr_code" json:"qrCode"`
	CreatedAt       string  `gorm:"size:32" json:"createdAt"`
	UpdatedAt       string  `gorm:"size:32" json:"updatedAt"`
}

// ReservationCreateRequest carries the fields the server accepts on a
// create or update call.
type ReservationCreateRequest struct {
	RemoteID        string `json:"-"`
	NIC             string `json:"NIC"`
	FullName        string `json:"FullName"`
	VehicleNumber   string `json:"VehicleNumber"`
	StationID       string `json:"StationId"`
	StationName     string `json:"StationName"`
	SlotNo          int    `json:"SlotNo"`
	ReservationDate string `json:"ReservationDate"`
	StartTime       string `json:"StartTime"`
	EndTime         string `json:"EndTime"`
}

// LocalTimestampLayout is the format used for locally generated bookingDate,
// createdAt and updatedAt values.
const LocalTimestampLayout = "2006-01-02 15:04:05"

// NewOfflineReservation builds a provisional local record for a submission
// that could not reach the server.
func NewOfflineReservation(req ReservationCreateRequest, code string, now time.Time) Reservation {
	ts := now.Format(LocalTimestampLayout)
	return Reservation{
		RemoteID:        req.RemoteID,
		ReservationCode: code,
		FullName:        req.FullName,
		NIC:             req.NIC,
		VehicleNumber:   req.VehicleNumber,
		StationID:       req.StationID,
		StationName:     req.StationName,
		SlotNo:          req.SlotNo,
		BookingDate:     ts,
		ReservationDate: req.ReservationDate,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Status:          StatusPendingSync,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
}

// CreateRequest converts a cached reservation back into the request shape
// used to resubmit it to the server.
func (r Reservation) CreateRequest() ReservationCreateRequest {
	return ReservationCreateRequest{
		RemoteID:        r.RemoteID,
		NIC:             r.NIC,
		FullName:        r.FullName,
		VehicleNumber:   r.VehicleNumber,
		StationID:       r.StationID,
		StationName:     r.StationName,
		SlotNo:          r.SlotNo,
		ReservationDate: r.ReservationDate,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
	}
}
