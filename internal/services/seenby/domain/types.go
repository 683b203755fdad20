// Package domain holds DTOs for seenby http and service contracts
package domain

// SeenBy is the read-side view of a post's audience.
//
// Count semantics follow the active strategy: counting strategies report
// total recorded views, the hll strategy reports estimated distinct viewers.
// Users is per-user view counts when the strategy attributes views, omitted
// otherwise
type SeenBy struct {
	Count int64            `json:"count"`
	Users map[string]int64 `json:"users,omitempty"`
}

// SeenCount is the response body for a recorded view
type SeenCount struct {
	Count int64 `json:"count"`
}

// StatusInput identifies the post being read
type StatusInput struct {
	PostID string `json:"post_id" validate:"required"`
}

// RecordInput identifies one view of a post by a user
type RecordInput struct {
	PostID string `json:"post_id" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}
