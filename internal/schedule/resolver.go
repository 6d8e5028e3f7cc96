package schedule

import (
	"errors"
	"log"
	"time"

	"amply-reservation-client/internal/model"
)

var (
	// ErrNoScheduleForDate means the station publishes no schedule entry for
	// the requested date. A normal outcome, not a fault.
	ErrNoScheduleForDate = errors.New("no schedule for the requested date")
	// ErrNoAvailableSlots means the matched date exists but every slot is
	// taken.
	ErrNoAvailableSlots = errors.New("no available slots for the requested date")
)

// Layouts for the schedule payload. The server stores schedule dates with a
// zone offset; targets are plain calendar dates.
const (
	scheduleDateLayout = "2006-01-02T15:04:05Z07:00"
	calendarLayout     = "2006-01-02"
)

// FindAvailableSlot returns the first available slot for targetDate in the
// station's published schedule, scanning slots in server-provided order.
// The schedule entry matches when its date, normalized to a plain calendar
// date, equals targetDate formatted the same way. Malformed schedule dates
// are skipped rather than treated as fatal.
func FindAvailableSlot(station model.ChargingStation, targetDate time.Time) (model.Slot, error) {
	want := targetDate.Format(calendarLayout)

	for _, entry := range station.ScheduleByDate {
		parsed, err := time.Parse(scheduleDateLayout, entry.Date)
		if err != nil {
			log.Printf("Warning: skipping malformed schedule date %q for station %s: %v",
				entry.Date, station.StationID, err)
			continue
		}
		if parsed.Format(calendarLayout) != want {
			continue
		}

		for _, slot := range entry.Slots {
			if slot.IsAvailable {
				return slot, nil
			}
		}
		return model.Slot{}, ErrNoAvailableSlots
	}

	return model.Slot{}, ErrNoScheduleForDate
}
