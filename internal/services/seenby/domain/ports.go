package domain

import "context"

// ServicePort is the service surface transports mount
//
// Record and the reads never create posts; a missing post is NotFound, an
// existing post nobody saw reads as zero
type ServicePort interface {
	// Record registers one view and returns the post's updated count
	Record(ctx context.Context, postID, userID string) (int64, error)

	// Count returns the post's view count under the active strategy
	Count(ctx context.Context, postID string) (int64, error)

	// Users returns per-user view counts; empty when the strategy does not
	// attribute views
	Users(ctx context.Context, postID string) (map[string]int64, error)

	// Status combines Count and Users for the read endpoint
	Status(ctx context.Context, postID string) (SeenBy, error)
}
