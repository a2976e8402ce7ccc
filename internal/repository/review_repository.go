package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/workforce-portal/internal/model"
)

// ReviewRepo stores Trustpilot reviews and their approval decisions.
type ReviewRepo struct {
	DB  *sql.DB
	Now Clock
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db, Now: SystemClock} }

// NewReview is a review as submitted by a moderator.
type NewReview struct {
	ModeratorID      uint64
	CustomerName     string
	CustomerEmail    string
	Rating           int
	ReviewText       string
	BusinessResponse string
	ScreenshotURL    string
}

const reviewColumns = `id,moderator_id,customer_name,customer_email,rating,review_text,business_response,
	screenshot_url,status,admin_review_id,admin_comments,reviewed_at,submitted_at,created_at,updated_at`

func scanReview(s rowScanner) (model.TrustpilotReview, error) {
	var (
		rv         model.TrustpilotReview
		response   sql.NullString
		screenshot sql.NullString
		adminID    sql.NullInt64
		comments   sql.NullString
		reviewedAt sql.NullTime
	)
	err := s.Scan(&rv.ID, &rv.ModeratorID, &rv.CustomerName, &rv.CustomerEmail, &rv.Rating, &rv.ReviewText,
		&response, &screenshot, &rv.Status, &adminID, &comments, &reviewedAt,
		&rv.SubmittedAt, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return rv, err
	}
	rv.BusinessResponse = strPtr(response)
	rv.ScreenshotURL = strPtr(screenshot)
	rv.AdminReviewID = idPtr(adminID)
	rv.AdminComments = strPtr(comments)
	rv.ReviewedAt = timePtr(reviewedAt)
	return rv, nil
}

// Create stores a pending review.
func (r *ReviewRepo) Create(ctx context.Context, in NewReview) (model.TrustpilotReview, error) {
	now := r.Now()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO trustpilot_reviews
		 (moderator_id, customer_name, customer_email, rating, review_text, business_response, screenshot_url,
		  status, submitted_at, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		in.ModeratorID, in.CustomerName, in.CustomerEmail, in.Rating, in.ReviewText,
		nullString(in.BusinessResponse), nullString(in.ScreenshotURL),
		model.ReviewPending, now, now, now)
	if err != nil {
		return model.TrustpilotReview{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.TrustpilotReview{}, err
	}
	return r.Get(ctx, uint64(id))
}

// Get fetches one review.
func (r *ReviewRepo) Get(ctx context.Context, id uint64) (model.TrustpilotReview, error) {
	rv, err := scanReview(r.DB.QueryRowContext(ctx,
		"SELECT "+reviewColumns+" FROM trustpilot_reviews WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return rv, ErrNotFound
	}
	return rv, err
}

// List returns every review, newest submission first.  A non-empty
// status restricts the result to that status.
func (r *ReviewRepo) List(ctx context.Context, status string) ([]model.TrustpilotReview, error) {
	if status == "" {
		return r.list(ctx, "SELECT "+reviewColumns+" FROM trustpilot_reviews ORDER BY submitted_at DESC, id DESC")
	}
	return r.list(ctx,
		"SELECT "+reviewColumns+" FROM trustpilot_reviews WHERE status=? ORDER BY submitted_at DESC, id DESC", status)
}

// ListByModerator returns the reviews one moderator submitted.
func (r *ReviewRepo) ListByModerator(ctx context.Context, moderatorID uint64) ([]model.TrustpilotReview, error) {
	return r.list(ctx,
		"SELECT "+reviewColumns+" FROM trustpilot_reviews WHERE moderator_id=? ORDER BY submitted_at DESC, id DESC",
		moderatorID)
}

// Decide moves a pending review to approved or rejected and records who
// decided and when.  Only the decision columns change.  The update is
// conditional on the review still being pending, so of two concurrent
// decisions exactly one wins; the other gets ErrAlreadyReviewed.
func (r *ReviewRepo) Decide(ctx context.Context, id, adminID uint64, status, comments string) (model.TrustpilotReview, error) {
	if status != model.ReviewApproved && status != model.ReviewRejected {
		return model.TrustpilotReview{}, ErrConflict
	}
	now := r.Now()
	res, err := r.DB.ExecContext(ctx,
		`UPDATE trustpilot_reviews
		 SET status=?, admin_review_id=?, admin_comments=?, reviewed_at=?, updated_at=?
		 WHERE id=? AND status=?`,
		status, adminID, nullString(comments), now, now, id, model.ReviewPending)
	if err != nil {
		return model.TrustpilotReview{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return model.TrustpilotReview{}, err
		}
		return model.TrustpilotReview{}, ErrAlreadyReviewed
	}
	return r.Get(ctx, id)
}

func (r *ReviewRepo) list(ctx context.Context, q string, args ...any) ([]model.TrustpilotReview, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TrustpilotReview{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
