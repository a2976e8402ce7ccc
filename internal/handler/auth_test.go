package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/utils"
)

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authBody struct {
	User     model.User      `json:"user"`
	Access   tokenPart       `json:"access"`
	Refresh  tokenPart       `json:"refresh"`
	LoginLog *model.LoginLog `json:"loginLog"`
}

func login(t *testing.T, app *testApp, email, password string) authBody {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[authBody](t, rec)
}

func TestAuth_RegisterCreatesModerator(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "New@Example.com", "password": "secret1", "firstName": "New", "lastName": "Mod",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[authBody](t, rec)
	assert.Equal(t, "new@example.com", body.User.Email)
	assert.Equal(t, model.RoleModerator, body.User.Role)
	assert.Nil(t, body.LoginLog, "registration does not open a session")
	assert.NotEmpty(t, body.Access.Token)
	assert.NotContains(t, rec.Body.String(), "secret1")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "new@example.com", "password": "secret1", "firstName": "New", "lastName": "Mod",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.True(t, decode[errorBody](t, rec).field("email"))
}

func TestAuth_LoginOpensSession(t *testing.T) {
	app := newTestApp(t)
	u := app.user(t, "mod@example.com", model.RoleModerator)

	body := login(t, app, " MOD@example.com", "secret1")
	require.NotNil(t, body.LoginLog)
	assert.Equal(t, u.ID, body.LoginLog.UserID)
	assert.True(t, body.LoginLog.Open())

	claims, err := utils.ParseAccessToken(testSecret, body.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, body.LoginLog.ID, claims.SessionID)
	assert.Equal(t, model.RoleModerator, claims.Role)

	rec := app.do(t, http.MethodGet, "/api/auth/user", body.Access.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID, decode[model.User](t, rec).ID)
}

func TestAuth_LoginFailures(t *testing.T) {
	app := newTestApp(t)
	u := app.user(t, "mod@example.com", model.RoleModerator)

	rec := app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "mod@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	require.NoError(t, app.users.UpdateStatus(context.Background(), u.ID, false))
	rec = app.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "mod@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	logs, err := app.logins.History(context.Background(), u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, logs, "failed logins open no session")
}

func TestAuth_RefreshRotates(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "mod@example.com", model.RoleModerator)
	first := login(t, app, "mod@example.com", "secret1")

	rec := app.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": first.Refresh.Token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[authBody](t, rec)
	assert.NotEqual(t, first.Refresh.Token, second.Refresh.Token)

	claims, err := utils.ParseAccessToken(testSecret, second.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, first.LoginLog.ID, claims.SessionID, "refreshed token keeps the session")

	rec = app.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": first.Refresh.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "rotated token cannot be reused")

	rec = app.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_LogoutClosesOwnSession(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "mod@example.com", model.RoleModerator)
	desktop := login(t, app, "mod@example.com", "secret1")
	phone := login(t, app, "mod@example.com", "secret1")

	rec := app.do(t, http.MethodPost, "/api/auth/logout", desktop.Access.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	ctx := context.Background()
	closed, err := app.logins.Get(ctx, desktop.LoginLog.ID)
	require.NoError(t, err)
	assert.False(t, closed.Open())

	open, err := app.logins.Get(ctx, phone.LoginLog.ID)
	require.NoError(t, err)
	assert.True(t, open.Open(), "other sessions stay open")

	rec = app.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": phone.Refresh.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "logout revokes every refresh token")

	rec = app.do(t, http.MethodPost, "/api/auth/logout", desktop.Access.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "nothing left to close is fine")

	rec = app.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_LogoutClosesLogReopenedByTrackLogin(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "mod@example.com", model.RoleModerator)
	body := login(t, app, "mod@example.com", "secret1")

	rec := app.do(t, http.MethodPost, "/api/auth/logout", body.Access.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/auth/track-login", body.Access.Token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, "closed session log is not reused")
	reopened := decode[model.LoginLog](t, rec)
	require.NotEqual(t, body.LoginLog.ID, reopened.ID)

	rec = app.do(t, http.MethodPost, "/api/auth/logout", body.Access.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	ll, err := app.logins.Get(context.Background(), reopened.ID)
	require.NoError(t, err)
	assert.False(t, ll.Open(), "logout closes the newest open log")
}

func TestAuth_TrackLogin(t *testing.T) {
	app := newTestApp(t)
	u := app.user(t, "mod@example.com", model.RoleModerator)
	body := login(t, app, "mod@example.com", "secret1")

	rec := app.do(t, http.MethodPost, "/api/auth/track-login", body.Access.Token, map[string]string{"location": "Berlin"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body.LoginLog.ID, decode[model.LoginLog](t, rec).ID, "open session is reused")

	// A token without a session opens a new log.
	rec = app.do(t, http.MethodPost, "/api/auth/track-login", token(t, u), map[string]string{"location": "Paris"})
	require.Equal(t, http.StatusCreated, rec.Code)
	ll := decode[model.LoginLog](t, rec)
	assert.NotEqual(t, body.LoginLog.ID, ll.ID)
	require.NotNil(t, ll.Location)
	assert.Equal(t, "Paris", *ll.Location)
}
