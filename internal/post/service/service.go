package service

import (
	"context"

	commoncrypto "github.com/blogchat/backend/internal/common/crypto"
	commonerrors "github.com/blogchat/backend/internal/common/errors"
	"github.com/blogchat/backend/internal/common/logger"
	"github.com/blogchat/backend/internal/observability/metrics"
	"github.com/blogchat/backend/internal/post/domain"
	postrepo "github.com/blogchat/backend/internal/post/repository"
	"github.com/blogchat/backend/internal/realtime"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

// EventPublisher is the notification-bus seam; the hub satisfies it.
type EventPublisher interface {
	Publish(event string, payload any)
}

type PostService struct {
	repo        postrepo.Repository
	idGenerator commoncrypto.IDGenerator
	publisher   EventPublisher
	log         *logger.Logger
}

func NewPostService(
	repo postrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	publisher EventPublisher,
	log *logger.Logger,
) *PostService {
	return &PostService{
		repo:        repo,
		idGenerator: idGenerator,
		publisher:   publisher,
		log:         log,
	}
}

type CreateInput struct {
	Title   string
	Content string
	OwnerID userdomain.ID
}

type UpdateInput struct {
	ID      domain.ID
	Title   string
	Content string
	Actor   userdomain.ID
}

func (s *PostService) Create(ctx context.Context, input CreateInput) (domain.Post, error) {
	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Post{}, commonerrors.ErrInternal.WithCause(err)
	}

	post := domain.Post{
		ID:      domain.ID(id),
		Title:   input.Title,
		Content: input.Content,
		OwnerID: input.OwnerID,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"owner_id": string(input.OwnerID),
			"action":   "post_create_failed",
		}).Errorf("post create failed: %v", err)
		return domain.Post{}, commonerrors.ErrInternal.WithCause(err)
	}

	created, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		return domain.Post{}, commonerrors.ErrInternal.WithCause(err)
	}

	metrics.PostsCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"post_id":  string(created.ID),
		"owner_id": string(created.OwnerID),
		"action":   "post_created",
	}).Info("post created")

	s.publisher.Publish(realtime.EventNewPost, NewPostEvent(created))

	return created, nil
}

func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, commonerrors.ErrInternal.WithCause(err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id domain.ID) (domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if _, ok := commonerrors.AsDomainError(err); ok {
			return domain.Post{}, err
		}
		return domain.Post{}, commonerrors.ErrInternal.WithCause(err)
	}
	return post, nil
}

// Update delegates the owner check to the repository's conditional write;
// no event is published for updates.
func (s *PostService) Update(ctx context.Context, input UpdateInput) (domain.Post, error) {
	post, err := s.repo.UpdateOwned(ctx, input.ID, input.Actor, input.Title, input.Content)
	if err != nil {
		if _, ok := commonerrors.AsDomainError(err); ok {
			s.log.WithFields(ctx, logger.Fields{
				"post_id": string(input.ID),
				"actor":   string(input.Actor),
				"action":  "post_update_rejected",
			}).Warnf("post update rejected: %v", err)
			return domain.Post{}, err
		}
		return domain.Post{}, commonerrors.ErrInternal.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(post.ID),
		"actor":   string(input.Actor),
		"action":  "post_updated",
	}).Info("post updated")

	return post, nil
}

func (s *PostService) Delete(ctx context.Context, id domain.ID, actor userdomain.ID) error {
	if err := s.repo.DeleteOwned(ctx, id, actor); err != nil {
		if _, ok := commonerrors.AsDomainError(err); ok {
			s.log.WithFields(ctx, logger.Fields{
				"post_id": string(id),
				"actor":   string(actor),
				"action":  "post_delete_rejected",
			}).Warnf("post delete rejected: %v", err)
			return err
		}
		return commonerrors.ErrInternal.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"post_id": string(id),
		"actor":   string(actor),
		"action":  "post_deleted",
	}).Info("post deleted")

	return nil
}

// PostEvent is the minimal projection broadcast on creation.
type PostEvent struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	OwnerID   string `json:"ownerId"`
	OwnerName string `json:"ownerName"`
	CreatedAt string `json:"createdAt"`
}

func NewPostEvent(post domain.Post) PostEvent {
	return PostEvent{
		ID:        string(post.ID),
		Title:     post.Title,
		Content:   post.Content,
		OwnerID:   string(post.OwnerID),
		OwnerName: post.OwnerName,
		CreatedAt: post.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
