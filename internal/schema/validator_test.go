package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workforce-portal/internal/model"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	out := map[string]string{}
	for _, f := range ve.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestValidate_Register(t *testing.T) {
	v := NewValidator()

	in := &RegisterInput{Email: "  Jane@Example.com ", Password: "secret1", FirstName: " Jane ", LastName: "Doe"}
	require.NoError(t, v.Validate(in))
	assert.Equal(t, "jane@example.com", in.Email)
	assert.Equal(t, "Jane", in.FirstName)

	fields := fieldsOf(t, v.Validate(&RegisterInput{Email: "nope", Password: "123", LastName: "x"}))
	assert.Equal(t, map[string]string{
		"email":     "invalid email address",
		"password":  "must be at least 6 characters",
		"firstName": "is required",
	}, fields)
}

func TestValidate_ReviewRating(t *testing.T) {
	v := NewValidator()
	base := ReviewInput{CustomerName: "Alice", CustomerEmail: "a@example.com", ReviewText: "ok"}

	for rating := 1; rating <= 5; rating++ {
		in := base
		in.Rating = rating
		assert.NoError(t, v.Validate(&in), "rating %d", rating)
	}

	in := base
	in.Rating = 6
	assert.Equal(t, "must be less than or equal to 5", fieldsOf(t, v.Validate(&in))["rating"])

	in.Rating = 0
	assert.Equal(t, "is required", fieldsOf(t, v.Validate(&in))["rating"])

	in = base
	in.Rating = 4
	in.ReviewText = "   "
	assert.Contains(t, fieldsOf(t, v.Validate(&in)), "reviewText", "blank text is trimmed before checks")
}

func TestValidate_ReviewDecision(t *testing.T) {
	v := NewValidator()

	in := &ReviewDecisionInput{Status: " Approved "}
	require.NoError(t, v.Validate(in))
	assert.Equal(t, model.ReviewApproved, in.Status)

	fields := fieldsOf(t, v.Validate(&ReviewDecisionInput{Status: "pending"}))
	assert.Equal(t, "must be one of: approved, rejected", fields["status"])
}

func TestValidate_ScheduleDefaults(t *testing.T) {
	v := NewValidator()

	in := &ScheduleInput{UserID: 3, AgentName: " Mod ", Team: "EU", Monday: "09-17"}
	require.NoError(t, v.Validate(in))
	assert.Equal(t, "Mod", in.AgentName)
	assert.Equal(t, "09-17", in.Monday)
	assert.Equal(t, model.DayOff, in.Sunday)
	assert.Equal(t, model.DefaultTimezone, in.Timezone)

	fields := fieldsOf(t, v.Validate(&ScheduleInput{AgentName: "x"}))
	assert.Contains(t, fields, "userId")
	assert.Contains(t, fields, "team")
}

func TestValidate_IDsFitSignedKeys(t *testing.T) {
	v := NewValidator()

	fields := fieldsOf(t, v.Validate(&ScheduleInput{UserID: 1 << 63, AgentName: "x", Team: "EU"}))
	assert.Equal(t, "must be at most 9223372036854775807", fields["userId"])

	fields = fieldsOf(t, v.Validate(&DisciplinaryInput{ModeratorID: 1 << 63, Type: "warning", Reason: "late"}))
	assert.Contains(t, fields, "moderatorId")

	require.NoError(t, v.Validate(&ScheduleInput{UserID: 1<<63 - 1, AgentName: "x", Team: "EU"}))
}

func TestValidate_ScheduleUpdate(t *testing.T) {
	v := NewValidator()

	assert.True(t, (&ScheduleUpdateInput{}).Empty())

	blank := "  "
	in := &ScheduleUpdateInput{Friday: &blank}
	require.NoError(t, v.Validate(in))
	assert.Equal(t, model.DayOff, *in.Friday)
	assert.False(t, in.Empty())

	name := " "
	fields := fieldsOf(t, v.Validate(&ScheduleUpdateInput{AgentName: &name}))
	assert.Equal(t, "must be at least 1 characters", fields["agentName"])
}

func TestValidate_DisciplinaryExpiry(t *testing.T) {
	v := NewValidator()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	in := (&DisciplinaryInput{ModeratorID: 2, Type: "Warning", Reason: "late"}).At(now)
	require.NoError(t, v.Validate(in))
	assert.Equal(t, model.DisciplineWarning, in.Type)
	assert.Equal(t, model.SeverityMedium, in.Severity)

	past := now.Add(-time.Minute)
	in = (&DisciplinaryInput{ModeratorID: 2, Type: "strike", Reason: "late", ExpiresAt: &past}).At(now)
	assert.Equal(t, map[string]string{"expiresAt": "must be in the future"}, fieldsOf(t, v.Validate(in)))

	future := now.Add(time.Hour)
	in = (&DisciplinaryInput{ModeratorID: 2, Type: "strike", Reason: "late", ExpiresAt: &future}).At(now)
	assert.NoError(t, v.Validate(in))

	fields := fieldsOf(t, v.Validate(&DisciplinaryInput{ModeratorID: 2, Type: "ban", Reason: "x", Severity: "extreme"}))
	assert.Equal(t, "must be one of: warning, strike", fields["type"])
	assert.Equal(t, "must be one of: low, medium, high", fields["severity"])
}

func TestValidate_DisciplinaryUpdateEmpty(t *testing.T) {
	assert.True(t, (&DisciplinaryUpdateInput{}).Empty())
	assert.False(t, (&DisciplinaryUpdateInput{ClearExpiry: true}).Empty())

	off := false
	assert.False(t, (&DisciplinaryUpdateInput{IsActive: &off}).Empty())
}

func TestValidate_UserStatusRequired(t *testing.T) {
	v := NewValidator()

	assert.Contains(t, fieldsOf(t, v.Validate(&UserStatusInput{})), "isActive")

	on := false
	assert.NoError(t, v.Validate(&UserStatusInput{IsActive: &on}))
}
