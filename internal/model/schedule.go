package model

import "time"

// DayOff is the slot value of a day without a shift.
const DayOff = "Off"

// DefaultTimezone is used for schedules created without one.
const DefaultTimezone = "GMT"

// Weekdays lists the schedule columns in display order, Monday first.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ShiftSchedule is the weekly slot assignment of one agent.  Each day
// holds a free-form slot description such as "09:00-17:00" or "Off".
type ShiftSchedule struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	AgentName string    `json:"agentName"`
	Team      string    `json:"team"`
	Monday    string    `json:"monday"`
	Tuesday   string    `json:"tuesday"`
	Wednesday string    `json:"wednesday"`
	Thursday  string    `json:"thursday"`
	Friday    string    `json:"friday"`
	Saturday  string    `json:"saturday"`
	Sunday    string    `json:"sunday"`
	Timezone  string    `json:"timezone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Slot returns the slot for a weekday.
func (s ShiftSchedule) Slot(day time.Weekday) string {
	switch day {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	default:
		return s.Sunday
	}
}
