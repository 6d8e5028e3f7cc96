package policy

import (
	"fmt"
	"strings"
	"time"

	"amply-reservation-client/internal/model"
)

// EditWindow is the minimum lead time before a reservation's start during
// which the client still allows update and delete. The server re-validates;
// this gate is a UX optimization, not a security boundary.
const EditWindow = 12 * time.Hour

// CanMutate reports whether the reservation is still inside its mutable
// window at the given instant. A reservation starting exactly EditWindow
// from now is still mutable. An unparseable date/time is an error, never
// permit-by-default.
func CanMutate(r model.Reservation, now time.Time) (bool, error) {
	start, err := combineDateTime(r.ReservationDate, r.StartTime)
	if err != nil {
		return false, fmt.Errorf("cannot determine edit eligibility for %s: %w", r.ReservationCode, err)
	}
	return !start.Before(now.Add(EditWindow)), nil
}

// combineDateTime joins the reservation's calendar date and start time into
// one instant. The date arrives either plain ("2006-01-02") or in the wire's
// timestamp form ("2006-01-02T15:04:05Z"); only its calendar part is used.
func combineDateTime(dateStr, timeStr string) (time.Time, error) {
	datePart := dateStr
	if idx := strings.IndexByte(datePart, 'T'); idx >= 0 {
		datePart = datePart[:idx]
	}

	day, err := time.ParseInLocation("2006-01-02", datePart, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reservation date %q: %w", dateStr, err)
	}

	layout := "15:04:05"
	if strings.Count(timeStr, ":") == 1 {
		layout = "15:04"
	}
	tod, err := time.Parse(layout, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q: %w", timeStr, err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, time.Local), nil
}
