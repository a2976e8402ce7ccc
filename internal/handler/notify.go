package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workforce-portal/internal/middleware"
	"github.com/iliyamo/workforce-portal/internal/queue"
	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/service"
)

const publishTimeout = 3 * time.Second

// notify publishes ev after the triggering write has committed.  Failures
// are logged; the response does not depend on the broker.
func notify(c echo.Context, pub service.Publisher, ev queue.NotificationEvent) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	if err := pub.Publish(ctx, ev); err != nil {
		c.Logger().Warnf("publish %s for entity %d: %v", ev.Type, ev.EntityID, err)
	}
}

// Admin action names written to the audit trail.
const (
	ActionUserStatus           = "user.status"
	ActionReviewDecide         = "review.decide"
	ActionScheduleCreate       = "schedule.create"
	ActionScheduleUpdate       = "schedule.update"
	ActionDisciplineCreate     = "discipline.create"
	ActionDisciplineUpdate     = "discipline.update"
	ActionDisciplineDeactivate = "discipline.deactivate"
)

// audit appends an admin action for the session's user.  A failed insert
// is logged and does not undo the mutation it describes.
func audit(c echo.Context, repo *repository.AdminActionRepo, action string, target uint64, details string) {
	if repo == nil {
		return
	}
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return
	}
	var tp *uint64
	if target != 0 {
		tp = &target
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), dbTimeout)
	defer cancel()
	if _, err := repo.Log(ctx, repository.NewAdminAction{
		AdminID:      s.UserID,
		Action:       action,
		TargetUserID: tp,
		Details:      details,
		IPAddress:    c.RealIP(),
	}); err != nil {
		c.Logger().Errorf("audit %s by %d: %v", action, s.UserID, err)
	}
}
