package model

// ModeratorStats counts moderator accounts.
type ModeratorStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// DailyCount pairs the number of rows created on the current business
// day with the all-time total.  Used for attendance and login stats.
type DailyCount struct {
	Today int `json:"today"`
	Total int `json:"total"`
}

// UserStats is the per-moderator summary shown on the dashboard.
type UserStats struct {
	PresentDays    int        `json:"presentDays"`
	WorkingDays    int        `json:"workingDays"`
	AttendanceRate int        `json:"attendanceRate"`
	RecentActivity []LoginLog `json:"recentActivity"`
}

// WeekDay is one cell of the dashboard's Monday–Sunday calendar strip.
type WeekDay struct {
	Day           string `json:"day"`
	Date          int    `json:"date"`
	IsWeekend     bool   `json:"isWeekend"`
	IsToday       bool   `json:"isToday"`
	HasAttendance bool   `json:"hasAttendance"`
}
