package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/blogchat/backend/internal/comment/domain"
	commonerrors "github.com/blogchat/backend/internal/common/errors"
)

type Repository interface {
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Create relies on the comments->posts foreign key for the existence
// precondition: a single insert either sees the post or fails with a FK
// violation, so the check and the write cannot race.
func (r *PgRepository) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO comments (id, text, post_id, author_id) VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		string(comment.ID),
		comment.Text,
		string(comment.PostID),
		string(comment.AuthorID),
	)

	if err := row.Scan(&comment.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.Comment{}, commonerrors.ErrPostNotFound
		}
		return domain.Comment{}, err
	}

	return comment, nil
}
