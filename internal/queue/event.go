// Package queue defines message payloads exchanged over the message broker.
package queue

// Activity kinds published to the catalog.activity queue.
const (
	KindReviewPosted    = "review.posted"
	KindRatingSubmitted = "rating.submitted"
)

// ActivityEvent is published when a user reviews or rates a movie. It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type ActivityEvent struct {
	Kind        string `json:"kind"`
	MovieID     uint64 `json:"movie_id"`
	MovieTitle  string `json:"movie_title"`
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	ReviewID    uint64 `json:"review_id,omitempty"`
	RatingValue int    `json:"rating_value,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
