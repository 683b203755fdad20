// Package http provides http transport for seenby
package http

import (
	stdhttp "net/http"

	"seenby/internal/modkit/httpkit"
	"seenby/internal/services/seenby/domain"
	svc "seenby/internal/services/seenby/service"
)

// Register mounts seenby endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{postID}/seen-by", h.status)
	httpkit.Post(r, "/{postID}/seen-by/{userID}", h.record)
}

type handlers struct{ svc svc.Service }

// @Summary Seen-by status for a post
// @Tags SeenBy
// @Produce json
// @Param postID path string true "Post ID"
// @Success 200 {object} domain.SeenBy "ok"
// @Router /posts/{postID}/seen-by [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	postID := httpkit.Param(r, "postID")
	return h.svc.Status(r.Context(), postID)
}

// @Summary Record that a user saw a post
// @Tags SeenBy
// @Produce json
// @Param postID path string true "Post ID"
// @Param userID path string true "User ID"
// @Success 200 {object} domain.SeenCount "ok"
// @Router /posts/{postID}/seen-by/{userID} [post]
func (h *handlers) record(r *stdhttp.Request) (any, error) {
	postID := httpkit.Param(r, "postID")
	userID := httpkit.Param(r, "userID")
	count, err := h.svc.Record(r.Context(), postID, userID)
	if err != nil {
		return nil, err
	}
	return domain.SeenCount{Count: count}, nil
}
