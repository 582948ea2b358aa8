package service

import (
	"context"
	"errors"

	"github.com/akarpov/content-api/internal/common/clock"
	commoncrypto "github.com/akarpov/content-api/internal/common/crypto"
	commonerrors "github.com/akarpov/content-api/internal/common/errors"
	"github.com/akarpov/content-api/internal/common/logger"
	"github.com/akarpov/content-api/internal/post/domain"
	postrepo "github.com/akarpov/content-api/internal/post/repository"
	userdomain "github.com/akarpov/content-api/internal/user/domain"
)

// PostService owns the post lifecycle and the ownership rule: only the
// creator of a post may update or delete it.
type PostService struct {
	posts       postrepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewPostService(
	posts postrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *PostService {
	return &PostService{
		posts:       posts,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

type CreateInput struct {
	Name    string
	Content string
}

type UpdateInput struct {
	Name    string
	Content string
}

// Create stamps CreatedBy from the authenticated creator, never from
// client input.
func (s *PostService) Create(ctx context.Context, creator userdomain.User, input CreateInput) (domain.Post, error) {
	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Post{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	post := domain.Post{
		ID:        domain.ID(id),
		Name:      input.Name,
		Content:   input.Content,
		CreatedBy: creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(creator.ID),
			"action":  "post_create_failed",
		}).Errorf("create post failed: %v", err)
		return domain.Post{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(post.ID),
		"user_id": string(creator.ID),
		"action":  "post_created",
	}).Info("post created")

	return post, nil
}

func (s *PostService) Get(ctx context.Context, id domain.ID) (domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return post, nil
}

// List is a public read-only view, optionally filtered by creator.
func (s *PostService) List(ctx context.Context, createdBy string) ([]domain.Post, error) {
	var (
		posts []domain.Post
		err   error
	)
	if createdBy != "" {
		posts, err = s.posts.FindByCreator(ctx, userdomain.ID(createdBy))
	} else {
		posts, err = s.posts.FindAll(ctx)
	}
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return posts, nil
}

func (s *PostService) Update(ctx context.Context, caller userdomain.User, id domain.ID, input UpdateInput) (domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	if post.CreatedBy != caller.ID {
		s.log.WithFields(ctx, logger.Fields{
			"post_id": string(id),
			"user_id": string(caller.ID),
			"action":  "post_update_forbidden",
		}).Warn("update rejected: caller is not the owner")
		return domain.Post{}, ErrNotOwner
	}

	post.Name = input.Name
	post.Content = input.Content
	post.UpdatedAt = s.clock.Now()

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(id),
		"user_id": string(caller.ID),
		"action":  "post_updated",
	}).Info("post updated")

	return post, nil
}

func (s *PostService) Delete(ctx context.Context, caller userdomain.User, id domain.ID) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if post.CreatedBy != caller.ID {
		s.log.WithFields(ctx, logger.Fields{
			"post_id": string(id),
			"user_id": string(caller.ID),
			"action":  "post_delete_forbidden",
		}).Warn("delete rejected: caller is not the owner")
		return ErrNotOwner
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, postrepo.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(id),
		"user_id": string(caller.ID),
		"action":  "post_deleted",
	}).Info("post deleted")

	return nil
}
