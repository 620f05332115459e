package service

import (
	"context"
	"errors"

	"github.com/blogchat/backend/internal/comment/domain"
	commentrepo "github.com/blogchat/backend/internal/comment/repository"
	commoncrypto "github.com/blogchat/backend/internal/common/crypto"
	commonerrors "github.com/blogchat/backend/internal/common/errors"
	"github.com/blogchat/backend/internal/common/logger"
	"github.com/blogchat/backend/internal/observability/metrics"
	postdomain "github.com/blogchat/backend/internal/post/domain"
	"github.com/blogchat/backend/internal/realtime"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

type EventPublisher interface {
	Publish(event string, payload any)
}

type CommentService struct {
	repo        commentrepo.Repository
	idGenerator commoncrypto.IDGenerator
	publisher   EventPublisher
	log         *logger.Logger
}

func NewCommentService(
	repo commentrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	publisher EventPublisher,
	log *logger.Logger,
) *CommentService {
	return &CommentService{
		repo:        repo,
		idGenerator: idGenerator,
		publisher:   publisher,
		log:         log,
	}
}

type CreateInput struct {
	PostID   postdomain.ID
	Text     string
	AuthorID userdomain.ID
}

// Create persists the comment and publishes exactly one newComment event.
// A missing post means no comment row and no event.
func (s *CommentService) Create(ctx context.Context, input CreateInput) (domain.Comment, error) {
	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Comment{}, commonerrors.ErrInternal.WithCause(err)
	}

	comment := domain.Comment{
		ID:       domain.ID(id),
		Text:     input.Text,
		PostID:   input.PostID,
		AuthorID: input.AuthorID,
	}

	created, err := s.repo.Create(ctx, comment)
	if err != nil {
		if errors.Is(err, commonerrors.ErrPostNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"post_id": string(input.PostID),
				"author":  string(input.AuthorID),
				"action":  "comment_post_missing",
			}).Warn("comment rejected: post not found")
			return domain.Comment{}, commonerrors.ErrPostNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"post_id": string(input.PostID),
			"author":  string(input.AuthorID),
			"action":  "comment_create_failed",
		}).Errorf("comment create failed: %v", err)
		return domain.Comment{}, commonerrors.ErrInternal.WithCause(err)
	}

	metrics.CommentsCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"comment_id": string(created.ID),
		"post_id":    string(created.PostID),
		"author":     string(created.AuthorID),
		"action":     "comment_created",
	}).Info("comment created")

	s.publisher.Publish(realtime.EventNewComment, NewCommentEvent(created))

	return created, nil
}

// CommentEvent is the minimal projection broadcast on creation.
type CommentEvent struct {
	PostID    string `json:"postId"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"authorId"`
	CreatedAt string `json:"createdAt"`
}

func NewCommentEvent(comment domain.Comment) CommentEvent {
	return CommentEvent{
		PostID:    string(comment.PostID),
		ID:        string(comment.ID),
		Text:      comment.Text,
		AuthorID:  string(comment.AuthorID),
		CreatedAt: comment.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
