package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workforce-portal/internal/model"
)

func TestSchedules_CreateListUpdate(t *testing.T) {
	app := newTestApp(t)
	mod := app.user(t, "mod@example.com", model.RoleModerator)
	admin := app.user(t, "admin@example.com", model.RoleAdmin)
	adminTok := token(t, admin)

	rec := app.do(t, http.MethodPost, "/api/admin/schedules", adminTok, map[string]any{
		"userId": mod.ID, "agentName": "Mod", "team": "EU", "monday": "09:00-17:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sc := decode[model.ShiftSchedule](t, rec)
	assert.Equal(t, model.DayOff, sc.Sunday)
	assert.Equal(t, model.DefaultTimezone, sc.Timezone)

	rec = app.do(t, http.MethodGet, "/api/schedules?team=EU", token(t, mod), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[list[model.ShiftSchedule]](t, rec).Items, 1)

	rec = app.do(t, http.MethodGet, "/api/schedules?team=US", token(t, mod), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[list[model.ShiftSchedule]](t, rec).Items)

	rec = app.do(t, http.MethodGet, "/api/schedules/my-schedule", token(t, mod), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sc.ID, decode[model.ShiftSchedule](t, rec).ID)

	path := fmt.Sprintf("/api/admin/schedules/%d", sc.ID)
	rec = app.do(t, http.MethodPatch, path, adminTok, map[string]any{"monday": "", "team": "US"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.ShiftSchedule](t, rec)
	assert.Equal(t, model.DayOff, updated.Monday)
	assert.Equal(t, "US", updated.Team)
	assert.Equal(t, "Mod", updated.AgentName)

	rec = app.do(t, http.MethodPatch, path, adminTok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty update")

	rec = app.do(t, http.MethodPatch, "/api/admin/schedules/999", adminTok, map[string]any{"team": "US"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchedules_CreateRejects(t *testing.T) {
	app := newTestApp(t)
	mod := app.user(t, "mod@example.com", model.RoleModerator)
	admin := app.user(t, "admin@example.com", model.RoleAdmin)

	rec := app.do(t, http.MethodPost, "/api/admin/schedules", token(t, admin), map[string]any{
		"userId": 999, "agentName": "Ghost", "team": "EU",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, decode[errorBody](t, rec).field("userId"))

	rec = app.do(t, http.MethodPost, "/api/admin/schedules", token(t, mod), map[string]any{
		"userId": mod.ID, "agentName": "Mod", "team": "EU",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSchedules_MineWithoutSchedule(t *testing.T) {
	app := newTestApp(t)
	mod := app.user(t, "mod@example.com", model.RoleModerator)

	rec := app.do(t, http.MethodGet, "/api/schedules/my-schedule", token(t, mod), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())
}
