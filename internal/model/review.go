package model

import "time"

// Review statuses.  A review starts pending and moves once to approved
// or rejected.
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// TrustpilotReview is a customer review collected by a moderator that an
// admin must approve before publication.  ScreenshotURL is an opaque
// string and may hold a data URL produced by the browser.
type TrustpilotReview struct {
	ID               uint64     `json:"id"`
	ModeratorID      uint64     `json:"moderatorId"`
	CustomerName     string     `json:"customerName"`
	CustomerEmail    string     `json:"customerEmail"`
	Rating           int        `json:"rating"`
	ReviewText       string     `json:"reviewText"`
	BusinessResponse *string    `json:"businessResponse"`
	ScreenshotURL    *string    `json:"screenshotUrl"`
	Status           string     `json:"status"`
	AdminReviewID    *uint64    `json:"adminReviewId"`
	AdminComments    *string    `json:"adminComments"`
	ReviewedAt       *time.Time `json:"reviewedAt"`
	SubmittedAt      time.Time  `json:"submittedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Decided reports whether the review already left the pending state.
func (r TrustpilotReview) Decided() bool { return r.Status != ReviewPending }
