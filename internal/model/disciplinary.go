package model

import "time"

// Disciplinary action types.
const (
	DisciplineWarning = "warning"
	DisciplineStrike  = "strike"
)

// Severity levels.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// DisciplinaryAction is a warning or strike issued by an admin against a
// moderator.  IsActive is the stored flag; an action whose ExpiresAt has
// passed is treated as inactive even before the sweep clears the flag.
type DisciplinaryAction struct {
	ID          uint64     `json:"id"`
	ModeratorID uint64     `json:"moderatorId"`
	AdminID     uint64     `json:"adminId"`
	Type        string     `json:"type"`
	Reason      string     `json:"reason"`
	Description *string    `json:"description"`
	Severity    string     `json:"severity"`
	IsActive    bool       `json:"isActive"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ActiveAt reports whether the action is in force at t.
func (d DisciplinaryAction) ActiveAt(t time.Time) bool {
	if !d.IsActive {
		return false
	}
	return d.ExpiresAt == nil || d.ExpiresAt.After(t)
}
