package model

// Slot is one bookable time window at a charging station.
type Slot struct {
	SlotNumber  int    `json:"slotNumber"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

// ScheduleByDate groups a station's slots under one calendar date. The date
// is the server's ISO-8601-with-offset timestamp string.
type ScheduleByDate struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// ChargingStation is a station's bookable capacity as published by the
// server. Read-only from the client's perspective.
type ChargingStation struct {
	StationID      string           `json:"stationId"`
	StationName    string           `json:"stationName"`
	ScheduleByDate []ScheduleByDate `json:"scheduleByDate"`
}

// CachedStation is the persisted form of a ChargingStation; the schedule is
// stored as a JSON column.
type CachedStation struct {
	StationID    string `gorm:"primaryKey;size:64"`
	StationName  string `gorm:"size:256"`
	ScheduleJSON string `gorm:"column:schedule_json"`
}
