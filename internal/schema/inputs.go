package schema

import (
	"strings"
	"time"

	"github.com/iliyamo/workforce-portal/internal/model"
)

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

func (in *RegisterInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in *LoginInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// RefreshInput carries a raw refresh token.
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (in *RefreshInput) Normalize() { in.RefreshToken = strings.TrimSpace(in.RefreshToken) }

// ClientContextInput is the optional body sent with attendance marks and
// login tracking.  The client reports where it is; IP and user agent are
// taken from the request itself.
type ClientContextInput struct {
	Location string `json:"location" validate:"max=255"`
}

func (in *ClientContextInput) Normalize() { in.Location = strings.TrimSpace(in.Location) }

// ReviewInput is the body of POST /api/trustpilot/reviews.  The rating
// bound lives here only; storage accepts any integer.
type ReviewInput struct {
	CustomerName     string `json:"customerName" validate:"required,max=255"`
	CustomerEmail    string `json:"customerEmail" validate:"required,email"`
	Rating           int    `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText       string `json:"reviewText" validate:"required"`
	BusinessResponse string `json:"businessResponse"`
	ScreenshotURL    string `json:"screenshotUrl"`
}

func (in *ReviewInput) Normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	in.ReviewText = strings.TrimSpace(in.ReviewText)
	in.BusinessResponse = strings.TrimSpace(in.BusinessResponse)
	in.ScreenshotURL = strings.TrimSpace(in.ScreenshotURL)
}

// ReviewDecisionInput is the admin's approve/reject call.
type ReviewDecisionInput struct {
	Status        string `json:"status" validate:"required,oneof=approved rejected"`
	AdminComments string `json:"adminComments"`
}

func (in *ReviewDecisionInput) Normalize() {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.AdminComments = strings.TrimSpace(in.AdminComments)
}

// ScheduleInput creates a shift schedule.  Empty day slots default to
// "Off" and an empty timezone to "GMT".
type ScheduleInput struct {
	UserID    uint64 `json:"userId" validate:"required,max=9223372036854775807"`
	AgentName string `json:"agentName" validate:"required,max=255"`
	Team      string `json:"team" validate:"required,max=100"`
	Monday    string `json:"monday" validate:"max=100"`
	Tuesday   string `json:"tuesday" validate:"max=100"`
	Wednesday string `json:"wednesday" validate:"max=100"`
	Thursday  string `json:"thursday" validate:"max=100"`
	Friday    string `json:"friday" validate:"max=100"`
	Saturday  string `json:"saturday" validate:"max=100"`
	Sunday    string `json:"sunday" validate:"max=100"`
	Timezone  string `json:"timezone" validate:"max=64"`
}

func (in *ScheduleInput) Normalize() {
	in.AgentName = strings.TrimSpace(in.AgentName)
	in.Team = strings.TrimSpace(in.Team)
	for _, slot := range []*string{&in.Monday, &in.Tuesday, &in.Wednesday, &in.Thursday, &in.Friday, &in.Saturday, &in.Sunday} {
		*slot = strings.TrimSpace(*slot)
		if *slot == "" {
			*slot = model.DayOff
		}
	}
	in.Timezone = strings.TrimSpace(in.Timezone)
	if in.Timezone == "" {
		in.Timezone = model.DefaultTimezone
	}
}

// ScheduleUpdateInput is a partial schedule edit; nil fields are left
// untouched.
type ScheduleUpdateInput struct {
	UserID    *uint64 `json:"userId" validate:"omitnil,gt=0,max=9223372036854775807"`
	AgentName *string `json:"agentName" validate:"omitnil,min=1,max=255"`
	Team      *string `json:"team" validate:"omitnil,min=1,max=100"`
	Monday    *string `json:"monday" validate:"omitnil,max=100"`
	Tuesday   *string `json:"tuesday" validate:"omitnil,max=100"`
	Wednesday *string `json:"wednesday" validate:"omitnil,max=100"`
	Thursday  *string `json:"thursday" validate:"omitnil,max=100"`
	Friday    *string `json:"friday" validate:"omitnil,max=100"`
	Saturday  *string `json:"saturday" validate:"omitnil,max=100"`
	Sunday    *string `json:"sunday" validate:"omitnil,max=100"`
	Timezone  *string `json:"timezone" validate:"omitnil,min=1,max=64"`
	IsActive  *bool   `json:"isActive"`
}

func (in *ScheduleUpdateInput) Normalize() {
	for _, p := range []*string{in.AgentName, in.Team, in.Timezone} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	for _, slot := range []*string{in.Monday, in.Tuesday, in.Wednesday, in.Thursday, in.Friday, in.Saturday, in.Sunday} {
		if slot != nil {
			*slot = strings.TrimSpace(*slot)
			if *slot == "" {
				*slot = model.DayOff
			}
		}
	}
}

// Empty reports whether the update would change nothing.
func (in *ScheduleUpdateInput) Empty() bool {
	return in.UserID == nil && in.AgentName == nil && in.Team == nil &&
		in.Monday == nil && in.Tuesday == nil && in.Wednesday == nil && in.Thursday == nil &&
		in.Friday == nil && in.Saturday == nil && in.Sunday == nil &&
		in.Timezone == nil && in.IsActive == nil
}

// DisciplinaryInput issues a warning or strike.  AdminID is taken from
// the session, not the body.
type DisciplinaryInput struct {
	ModeratorID uint64     `json:"moderatorId" validate:"required,max=9223372036854775807"`
	Type        string     `json:"type" validate:"required,oneof=warning strike"`
	Reason      string     `json:"reason" validate:"required"`
	Description string     `json:"description"`
	Severity    string     `json:"severity" validate:"oneof=low medium high"`
	ExpiresAt   *time.Time `json:"expiresAt"`

	now time.Time
}

func (in *DisciplinaryInput) Normalize() {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Reason = strings.TrimSpace(in.Reason)
	in.Description = strings.TrimSpace(in.Description)
	in.Severity = strings.ToLower(strings.TrimSpace(in.Severity))
	if in.Severity == "" {
		in.Severity = model.SeverityMedium
	}
}

// At sets the reference time used to reject expiry dates in the past.
func (in *DisciplinaryInput) At(now time.Time) *DisciplinaryInput {
	in.now = now
	return in
}

func (in *DisciplinaryInput) Check() []FieldError {
	if in.ExpiresAt == nil {
		return nil
	}
	now := in.now
	if now.IsZero() {
		now = time.Now()
	}
	if !in.ExpiresAt.After(now) {
		return []FieldError{{Field: "expiresAt", Message: "must be in the future"}}
	}
	return nil
}

// DisciplinaryUpdateInput edits an existing action; nil fields are left
// untouched.
type DisciplinaryUpdateInput struct {
	Type        *string    `json:"type" validate:"omitnil,oneof=warning strike"`
	Reason      *string    `json:"reason" validate:"omitnil,min=1"`
	Description *string    `json:"description"`
	Severity    *string    `json:"severity" validate:"omitnil,oneof=low medium high"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	ClearExpiry bool       `json:"clearExpiry"`
	IsActive    *bool      `json:"isActive"`
}

func (in *DisciplinaryUpdateInput) Normalize() {
	for _, p := range []*string{in.Type, in.Severity} {
		if p != nil {
			*p = strings.ToLower(strings.TrimSpace(*p))
		}
	}
	for _, p := range []*string{in.Reason, in.Description} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// Empty reports whether the update would change nothing.
func (in *DisciplinaryUpdateInput) Empty() bool {
	return in.Type == nil && in.Reason == nil && in.Description == nil &&
		in.Severity == nil && in.ExpiresAt == nil && !in.ClearExpiry && in.IsActive == nil
}

// UserStatusInput enables or disables an account.
type UserStatusInput struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
