package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/workforce-portal/internal/config"
	"github.com/iliyamo/workforce-portal/internal/middleware"
	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/schema"
)

// ScheduleHandler serves shift schedules.  List responses are cached in
// Redis under Cache.Prefix; every write drops them.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Users     *repository.UserRepo
	Audit     *repository.AdminActionRepo
	Redis     *redis.Client
	Cache     config.CacheConfig
}

func NewScheduleHandler(s *repository.ScheduleRepo, u *repository.UserRepo, a *repository.AdminActionRepo, rdb *redis.Client, cache config.CacheConfig) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, Users: u, Audit: a, Redis: rdb, Cache: cache}
}

// List returns all schedules, or one team's with ?team.
func (h *ScheduleHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		list []model.ShiftSchedule
		err  error
	)
	if team := strings.TrimSpace(c.QueryParam("team")); team != "" {
		list, err = h.Schedules.ListByTeam(ctx, team)
	} else {
		list, err = h.Schedules.ListAll(ctx)
	}
	if err != nil {
		return fail(c, err, "list schedules failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// Mine returns the caller's latest schedule or null.
func (h *ScheduleHandler) Mine(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	sc, err := h.Schedules.GetForUser(ctx, s.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusOK, nil)
	}
	if err != nil {
		return fail(c, err, "load schedule failed")
	}
	return c.JSON(http.StatusOK, sc)
}

// Create stores a schedule for an existing user.
func (h *ScheduleHandler) Create(c echo.Context) error {
	var in schema.ScheduleInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed",
				"fields": []schema.FieldError{{Field: "userId", Message: "unknown user"}}})
		}
		return fail(c, err, "load user failed")
	}

	sc, err := h.Schedules.Create(ctx, model.ShiftSchedule{
		UserID:    in.UserID,
		AgentName: in.AgentName,
		Team:      in.Team,
		Monday:    in.Monday,
		Tuesday:   in.Tuesday,
		Wednesday: in.Wednesday,
		Thursday:  in.Thursday,
		Friday:    in.Friday,
		Saturday:  in.Saturday,
		Sunday:    in.Sunday,
		Timezone:  in.Timezone,
	})
	if err != nil {
		return fail(c, err, "create schedule failed")
	}
	h.invalidate(c)
	audit(c, h.Audit, ActionScheduleCreate, sc.UserID, fmt.Sprintf("schedule %d for %s (%s)", sc.ID, sc.AgentName, sc.Team))
	return c.JSON(http.StatusCreated, sc)
}

// Update applies a partial edit.
func (h *ScheduleHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var in schema.ScheduleUpdateInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}
	if in.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if in.UserID != nil {
		if _, err := h.Users.GetByID(ctx, *in.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed",
					"fields": []schema.FieldError{{Field: "userId", Message: "unknown user"}}})
			}
			return fail(c, err, "load user failed")
		}
	}

	sc, err := h.Schedules.Update(ctx, id, repository.ScheduleUpdate{
		UserID:    in.UserID,
		AgentName: in.AgentName,
		Team:      in.Team,
		Monday:    in.Monday,
		Tuesday:   in.Tuesday,
		Wednesday: in.Wednesday,
		Thursday:  in.Thursday,
		Friday:    in.Friday,
		Saturday:  in.Saturday,
		Sunday:    in.Sunday,
		Timezone:  in.Timezone,
		IsActive:  in.IsActive,
	})
	if err != nil {
		return fail(c, err, "update schedule failed")
	}
	h.invalidate(c)
	audit(c, h.Audit, ActionScheduleUpdate, sc.UserID, fmt.Sprintf("schedule %d", sc.ID))
	return c.JSON(http.StatusOK, sc)
}

func (h *ScheduleHandler) invalidate(c echo.Context) {
	if err := middleware.InvalidatePrefix(c.Request().Context(), h.Redis, h.Cache); err != nil {
		c.Logger().Warnf("schedule cache invalidation: %v", err)
	}
}
