// Package service contains seenby workflows
package service

import (
	"context"

	"seenby/internal/modkit/repokit"
	"seenby/internal/platform/net/http/bind"
	"seenby/internal/services/seenby/domain"
	"seenby/internal/services/seenby/repo"
)

// Service defines the seenby service contract
type Service interface {
	domain.ServicePort

	// Strategy reports the active strategy name
	Strategy() repo.Strategy
}

// Svc implements the seenby service for one resolved strategy
type Svc struct {
	db   repokit.TxRunner
	desc repo.Descriptor
}

// New constructs a seenby service from a configured strategy name.
// Resolution happens here, once, so a bad name fails the boot rather than
// the first request
func New(db repokit.TxRunner, strategyName string) (*Svc, error) {
	if db == nil {
		panic("seenby.Service requires a non nil TxRunner")
	}
	desc, err := repo.Resolve(strategyName)
	if err != nil {
		return nil, err
	}
	return &Svc{db: db, desc: desc}, nil
}

// MustNew is New for mains that treat a bad strategy as fatal
func MustNew(db repokit.TxRunner, strategyName string) *Svc {
	s, err := New(db, strategyName)
	if err != nil {
		panic(err)
	}
	return s
}

// Strategy reports the active strategy name
func (s *Svc) Strategy() repo.Strategy { return s.desc.Strategy }

// Record registers one view and returns the post's updated count.
// Inputs are validated before any storage is touched; the write runs inside
// a transaction because some strategies pair the write with a total re-read
func (s *Svc) Record(ctx context.Context, postID, userID string) (int64, error) {
	if err := bind.Struct(domain.RecordInput{PostID: postID, UserID: userID}); err != nil {
		return 0, err
	}
	var count int64
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		var err error
		count, err = s.desc.Binder.Bind(q).Record(ctx, postID, userID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Count returns the post's view count under the active strategy
func (s *Svc) Count(ctx context.Context, postID string) (int64, error) {
	if err := bind.Struct(domain.StatusInput{PostID: postID}); err != nil {
		return 0, err
	}
	return s.desc.Binder.Bind(s.db).Count(ctx, postID)
}

// Users returns per-user view counts, empty when the strategy does not
// attribute views
func (s *Svc) Users(ctx context.Context, postID string) (map[string]int64, error) {
	if err := bind.Struct(domain.StatusInput{PostID: postID}); err != nil {
		return nil, err
	}
	if !s.desc.TracksUsers {
		return map[string]int64{}, nil
	}
	return s.desc.Binder.Bind(s.db).Users(ctx, postID)
}

// Status combines Count and Users for the read endpoint
func (s *Svc) Status(ctx context.Context, postID string) (domain.SeenBy, error) {
	if err := bind.Struct(domain.StatusInput{PostID: postID}); err != nil {
		return domain.SeenBy{}, err
	}
	st := s.desc.Binder.Bind(s.db)
	count, err := st.Count(ctx, postID)
	if err != nil {
		return domain.SeenBy{}, err
	}
	out := domain.SeenBy{Count: count}
	if s.desc.TracksUsers {
		users, err := st.Users(ctx, postID)
		if err != nil {
			return domain.SeenBy{}, err
		}
		out.Users = users
	}
	return out, nil
}
