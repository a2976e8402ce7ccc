package model

import "time"

// AttendanceRecord is one "present" mark for a user on a business day.
// Day is the calendar day (YYYY-MM-DD) in the configured business
// timezone; the pair (UserID, Day) is unique in storage.
type AttendanceRecord struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Date      time.Time `json:"date"`
	Day       string    `json:"day"`
	IPAddress string    `json:"ipAddress"`
	Location  *string   `json:"location"`
	UserAgent *string   `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginLog records a single signed-in session.  LogoutTime stays nil until
// the session is closed.
type LoginLog struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"userId"`
	IPAddress  string     `json:"ipAddress"`
	Location   *string    `json:"location"`
	UserAgent  *string    `json:"userAgent"`
	LoginTime  time.Time  `json:"loginTime"`
	LogoutTime *time.Time `json:"logoutTime"`
}

// Open reports whether the session has not been closed yet.
func (l LoginLog) Open() bool { return l.LogoutTime == nil }

// AdminAction is an append-only audit entry written for every admin
// mutation.
type AdminAction struct {
	ID           uint64    `json:"id"`
	AdminID      uint64    `json:"adminId"`
	Action       string    `json:"action"`
	TargetUserID *uint64   `json:"targetUserId"`
	Details      *string   `json:"details"`
	IPAddress    string    `json:"ipAddress"`
	CreatedAt    time.Time `json:"createdAt"`
}
