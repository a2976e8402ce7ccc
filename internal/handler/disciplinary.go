package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/queue"
	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/schema"
	"github.com/iliyamo/workforce-portal/internal/service"
)

// DisciplinaryHandler serves warnings and strikes.
type DisciplinaryHandler struct {
	Actions *repository.DisciplinaryRepo
	Users   *repository.UserRepo
	Audit   *repository.AdminActionRepo
	Events  service.Publisher
}

func NewDisciplinaryHandler(d *repository.DisciplinaryRepo, u *repository.UserRepo, a *repository.AdminActionRepo, p service.Publisher) *DisciplinaryHandler {
	return &DisciplinaryHandler{Actions: d, Users: u, Audit: a, Events: p}
}

// Mine returns the caller's actions currently in force.
func (h *DisciplinaryHandler) Mine(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Actions.ListActive(ctx, s.UserID)
	if err != nil {
		return fail(c, err, "list disciplinary actions failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// Create issues an action against a moderator.
func (h *DisciplinaryHandler) Create(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	var in schema.DisciplinaryInput
	in.At(h.Actions.Now())
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	target, err := h.Users.GetByID(ctx, in.ModeratorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fail(c, err, "load moderator failed")
	}
	if err != nil || target.Role != model.RoleModerator {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed",
			"fields": []schema.FieldError{{Field: "moderatorId", Message: "unknown moderator"}}})
	}

	d, err := h.Actions.Create(ctx, repository.NewDisciplinary{
		ModeratorID: in.ModeratorID,
		AdminID:     s.UserID,
		Type:        in.Type,
		Reason:      in.Reason,
		Description: in.Description,
		Severity:    in.Severity,
		ExpiresAt:   in.ExpiresAt,
	})
	if err != nil {
		return fail(c, err, "create disciplinary action failed")
	}
	audit(c, h.Audit, ActionDisciplineCreate, d.ModeratorID, fmt.Sprintf("%s %d (%s): %s", d.Type, d.ID, d.Severity, d.Reason))
	notify(c, h.Events, queue.NotificationEvent{
		Type:        queue.EventDisciplineIssued,
		RecipientID: d.ModeratorID,
		ActorID:     s.UserID,
		EntityID:    d.ID,
		Status:      d.Severity,
		Summary:     fmt.Sprintf("%s issued: %s", d.Type, d.Reason),
		OccurredAt:  d.CreatedAt,
	})
	return c.JSON(http.StatusCreated, d)
}

// List returns every action, newest first.
func (h *DisciplinaryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Actions.ListAll(ctx)
	if err != nil {
		return fail(c, err, "list disciplinary actions failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// ListForModerator returns the full history against one moderator.
func (h *DisciplinaryHandler) ListForModerator(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid moderator id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Actions.ListByModerator(ctx, id)
	if err != nil {
		return fail(c, err, "list disciplinary actions failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// Update applies a partial edit.
func (h *DisciplinaryHandler) Update(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid disciplinary action id"})
	}
	var in schema.DisciplinaryUpdateInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}
	if in.Empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Actions.Update(ctx, id, repository.DisciplinaryUpdate{
		Type:        in.Type,
		Reason:      in.Reason,
		Description: in.Description,
		Severity:    in.Severity,
		ExpiresAt:   in.ExpiresAt,
		ClearExpiry: in.ClearExpiry,
		IsActive:    in.IsActive,
	})
	if err != nil {
		return fail(c, err, "update disciplinary action failed")
	}
	audit(c, h.Audit, ActionDisciplineUpdate, d.ModeratorID, fmt.Sprintf("action %d", d.ID))
	return c.JSON(http.StatusOK, d)
}

// Deactivate lifts an action.  Lifting an inactive action again succeeds
// without notifying the moderator a second time.
func (h *DisciplinaryHandler) Deactivate(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid disciplinary action id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	prev, err := h.Actions.Get(ctx, id)
	if err != nil {
		return fail(c, err, "load disciplinary action failed")
	}
	d, err := h.Actions.Deactivate(ctx, id)
	if err != nil {
		return fail(c, err, "deactivate disciplinary action failed")
	}
	audit(c, h.Audit, ActionDisciplineDeactivate, d.ModeratorID, fmt.Sprintf("action %d", d.ID))
	if prev.IsActive {
		notify(c, h.Events, queue.NotificationEvent{
			Type:        queue.EventDisciplineLifted,
			RecipientID: d.ModeratorID,
			ActorID:     s.UserID,
			EntityID:    d.ID,
			Summary:     fmt.Sprintf("%s lifted: %s", d.Type, d.Reason),
			OccurredAt:  d.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, d)
}
