package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workforce-portal/internal/model"
	"github.com/iliyamo/workforce-portal/internal/queue"
	"github.com/iliyamo/workforce-portal/internal/repository"
	"github.com/iliyamo/workforce-portal/internal/schema"
	"github.com/iliyamo/workforce-portal/internal/service"
)

// ReviewHandler serves the Trustpilot review workflow.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Audit   *repository.AdminActionRepo
	Events  service.Publisher
}

func NewReviewHandler(r *repository.ReviewRepo, a *repository.AdminActionRepo, p service.Publisher) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Audit: a, Events: p}
}

// Submit stores a pending review for the calling moderator.
func (h *ReviewHandler) Submit(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	var in schema.ReviewInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rv, err := h.Reviews.Create(ctx, repository.NewReview{
		ModeratorID:      s.UserID,
		CustomerName:     in.CustomerName,
		CustomerEmail:    in.CustomerEmail,
		Rating:           in.Rating,
		ReviewText:       in.ReviewText,
		BusinessResponse: in.BusinessResponse,
		ScreenshotURL:    in.ScreenshotURL,
	})
	if err != nil {
		return fail(c, err, "submit review failed")
	}
	notify(c, h.Events, queue.NotificationEvent{
		Type:       queue.EventReviewSubmitted,
		ActorID:    s.UserID,
		EntityID:   rv.ID,
		Status:     rv.Status,
		Summary:    fmt.Sprintf("%d-star review from %s awaiting approval", rv.Rating, rv.CustomerName),
		OccurredAt: rv.SubmittedAt,
	})
	return c.JSON(http.StatusCreated, rv)
}

// List returns the caller's own reviews for moderators, and every review
// for admins, optionally filtered by ?status.
func (h *ReviewHandler) List(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if s.Role != model.RoleAdmin {
		list, err := h.Reviews.ListByModerator(ctx, s.UserID)
		if err != nil {
			return fail(c, err, "list reviews failed")
		}
		return c.JSON(http.StatusOK, items(list))
	}

	status := strings.ToLower(strings.TrimSpace(c.QueryParam("status")))
	switch status {
	case "", model.ReviewPending, model.ReviewApproved, model.ReviewRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending, approved or rejected"})
	}
	list, err := h.Reviews.List(ctx, status)
	if err != nil {
		return fail(c, err, "list reviews failed")
	}
	return c.JSON(http.StatusOK, items(list))
}

// Decide approves or rejects a pending review.  A review that was
// already decided yields 409 and keeps its first decision.
func (h *ReviewHandler) Decide(c echo.Context) error {
	s, err := session(c)
	if err != nil {
		return fail(c, err, "unauthorized")
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	var in schema.ReviewDecisionInput
	if err := bindAndValidate(c, &in); err != nil {
		return fail(c, err, "invalid input")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rv, err := h.Reviews.Decide(ctx, id, s.UserID, in.Status, in.AdminComments)
	if err != nil {
		return fail(c, err, "decide review failed")
	}
	audit(c, h.Audit, ActionReviewDecide, rv.ModeratorID, fmt.Sprintf("review %d %s", rv.ID, rv.Status))
	notify(c, h.Events, queue.NotificationEvent{
		Type:        queue.EventReviewDecided,
		RecipientID: rv.ModeratorID,
		ActorID:     s.UserID,
		EntityID:    rv.ID,
		Status:      rv.Status,
		Summary:     fmt.Sprintf("review for %s was %s", rv.CustomerName, rv.Status),
		OccurredAt:  rv.UpdatedAt,
	})
	return c.JSON(http.StatusOK, rv)
}
