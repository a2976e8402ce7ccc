package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workforce-portal/internal/handler"
	"github.com/iliyamo/workforce-portal/internal/model"
)

func TestAdmin_SetUserStatus(t *testing.T) {
	app := newTestApp(t)
	mod := app.user(t, "mod@example.com", model.RoleModerator)
	admin := app.user(t, "admin@example.com", model.RoleAdmin)
	adminTok := token(t, admin)

	path := fmt.Sprintf("/api/admin/users/%d/status", mod.ID)
	rec := app.do(t, http.MethodPatch, path, adminTok, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[model.User](t, rec).IsActive)

	rec = app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "mod@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "disabled accounts cannot sign in")

	rec = app.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/users/%d/status", admin.ID), adminTok, map[string]any{"isActive": false})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPatch, "/api/admin/users/999/status", adminTok, map[string]any{"isActive": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPatch, path, adminTok, map[string]any{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/api/admin/actions?target=%d", mod.ID), adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	actions := decode[list[model.AdminAction]](t, rec).Items
	require.Len(t, actions, 1)
	assert.Equal(t, handler.ActionUserStatus, actions[0].Action)

	rec = app.do(t, http.MethodGet, "/api/admin/actions?target=x", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdmin_DisabledUserLosesAccess(t *testing.T) {
	app := newTestApp(t)
	mod := app.user(t, "mod@example.com", model.RoleModerator)
	admin := app.user(t, "admin@example.com", model.RoleAdmin)
	modTok, adminTok := token(t, mod), token(t, admin)
	path := fmt.Sprintf("/api/admin/users/%d/status", mod.ID)

	rec := app.do(t, http.MethodGet, "/api/attendance/today", modTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodPatch, path, adminTok, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, rec.Code)

	review := map[string]any{
		"customerName":  "Jane",
		"customerEmail": "jane@example.com",
		"rating":        5,
		"reviewText":    "Great",
	}
	type call struct {
		method, path string
		body         any
	}
	for _, r := range []call{
		{http.MethodPost, "/api/attendance/mark", nil},
		{http.MethodPost, "/api/trustpilot/reviews", review},
		{http.MethodGet, "/api/auth/user", nil},
		{http.MethodPost, "/api/auth/track-login", nil},
	} {
		rec = app.do(t, r.method, r.path, modTok, r.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", r.method, r.path)
	}

	rec = app.do(t, http.MethodPatch, path, adminTok, map[string]any{"isActive": true})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(t, http.MethodPost, "/api/attendance/mark", modTok, nil)
	assert.Equal(t, http.StatusCreated, rec.Code, "re-enabled account works again")
}

func TestAdmin_RejectsOutOfRangeID(t *testing.T) {
	app := newTestApp(t)
	adminTok := token(t, app.user(t, "admin@example.com", model.RoleAdmin))

	rec := app.do(t, http.MethodPatch, "/api/admin/users/18446744073709551615/status", adminTok, map[string]any{"isActive": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPatch, "/api/admin/users/9223372036854775807/status", adminTok, map[string]any{"isActive": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_ModeratorsAndStats(t *testing.T) {
	app := newTestApp(t)
	mod := app.user(t, "mod@example.com", model.RoleModerator)
	app.user(t, "mod2@example.com", model.RoleModerator)
	admin := app.user(t, "admin@example.com", model.RoleAdmin)
	adminTok := token(t, admin)

	login(t, app, "mod@example.com", "secret1")
	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/attendance/mark", token(t, mod), nil).Code)

	rec := app.do(t, http.MethodGet, "/api/admin/moderators", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[list[model.User]](t, rec).Items, 2)

	rec = app.do(t, http.MethodGet, "/api/admin/stats", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[struct {
		Moderators model.ModeratorStats `json:"moderators"`
		Attendance model.DailyCount     `json:"attendance"`
		Logins     model.DailyCount     `json:"logins"`
	}](t, rec)
	assert.Equal(t, model.ModeratorStats{Total: 2, Active: 2}, stats.Moderators)
	assert.Equal(t, model.DailyCount{Today: 1, Total: 1}, stats.Attendance)
	assert.Equal(t, model.DailyCount{Today: 1, Total: 1}, stats.Logins)

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/api/admin/users/%d/attendance", mod.ID), adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[list[model.AttendanceRecord]](t, rec).Items, 1)

	rec = app.do(t, http.MethodGet, fmt.Sprintf("/api/admin/users/%d/logins?limit=5", mod.ID), adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[list[model.LoginLog]](t, rec).Items, 1)

	rec = app.do(t, http.MethodGet, "/api/admin/moderators", token(t, mod), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
