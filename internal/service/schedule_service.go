package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

// maxScheduleDays bounds the forward search for a valid send window. A
// policy with no reachable window inside two weeks is a misconfiguration,
// not something worth looping on.
const maxScheduleDays = 14

// ErrNoValidWindow is returned when no valid send window exists within the
// search bound. The returned time is still the best-effort result.
var ErrNoValidWindow = errors.New("no valid send window within 14 days")

// ScheduleService computes business-hours-adjusted send times
type ScheduleService struct{}

// NewScheduleService creates a new schedule service
func NewScheduleService() *ScheduleService {
	return &ScheduleService{}
}

// NextValidTime advances a candidate send time forward until it falls on an
// allowed weekday inside [windowStart, windowEnd). A candidate already
// inside a valid window is returned unchanged; the result is never earlier
// than the candidate. Weekdays use 1=Monday..7=Sunday. Pure: the caller
// supplies the candidate instant, nothing here reads a clock.
func (s *ScheduleService) NextValidTime(candidate time.Time, startHHMM, endHHMM string, allowedWeekdays []int) (time.Time, error) {
	start, err := models.ParseTimeOfDay(startHHMM)
	if err != nil {
		return candidate, fmt.Errorf("invalid window start: %w", err)
	}
	end, err := models.ParseTimeOfDay(endHHMM)
	if err != nil {
		return candidate, fmt.Errorf("invalid window end: %w", err)
	}
	if !start.Before(end) {
		return candidate, fmt.Errorf("window start %s must be before end %s", startHHMM, endHHMM)
	}

	allowed := make(map[int]bool, len(allowedWeekdays))
	for _, d := range allowedWeekdays {
		allowed[d] = true
	}

	t := candidate
	for i := 0; i < maxScheduleDays; i++ {
		if !allowed[isoWeekday(t)] {
			t = start.On(t.AddDate(0, 0, 1))
			continue
		}

		windowStart := start.On(t)
		windowEnd := end.On(t)

		if t.Before(windowStart) {
			return windowStart, nil
		}
		if !t.Before(windowEnd) {
			t = start.On(t.AddDate(0, 0, 1))
			continue
		}
		return t, nil
	}

	return t, ErrNoValidWindow
}

// isoWeekday maps time.Weekday to ISO numbering (1=Monday..7=Sunday)
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
