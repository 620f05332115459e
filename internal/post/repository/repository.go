package repository

import (
	"context"
	"errors"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	commonerrors "github.com/blogchat/backend/internal/common/errors"
	"github.com/blogchat/backend/internal/post/domain"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

type Repository interface {
	Create(ctx context.Context, post domain.Post) error
	List(ctx context.Context) ([]domain.Post, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Post, error)
	UpdateOwned(ctx context.Context, id domain.ID, ownerID userdomain.ID, title, content string) (domain.Post, error)
	DeleteOwned(ctx context.Context, id domain.ID, ownerID userdomain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const selectPost = `
	SELECT p.id, p.title, p.content, p.owner_id, u.name,
	       COALESCE(array_agg(c.id::text ORDER BY c.created_at) FILTER (WHERE c.id IS NOT NULL), '{}'),
	       p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.owner_id
	LEFT JOIN comments c ON c.post_id = p.id`

func (r *PgRepository) Create(ctx context.Context, post domain.Post) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO posts (id, title, content, owner_id) VALUES ($1, $2, $3, $4)`,
		string(post.ID),
		post.Title,
		post.Content,
		string(post.OwnerID),
	)
	return err
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.pool.Query(
		ctx,
		selectPost+` GROUP BY p.id, u.name ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	row := r.pool.QueryRow(
		ctx,
		selectPost+` WHERE p.id = $1 GROUP BY p.id, u.name`,
		string(id),
	)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, commonerrors.ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

// UpdateOwned mutates title and content in a single conditional statement so
// the ownership check and the write cannot interleave with another request.
func (r *PgRepository) UpdateOwned(ctx context.Context, id domain.ID, ownerID userdomain.ID, title, content string) (domain.Post, error) {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE posts SET title = $3, content = $4, updated_at = now()
		 WHERE id = $1 AND owner_id = $2`,
		string(id),
		string(ownerID),
		title,
		content,
	)
	if err != nil {
		return domain.Post{}, err
	}

	if tag.RowsAffected() == 0 {
		return domain.Post{}, r.ownershipFailure(ctx, id)
	}

	return r.FindByID(ctx, id)
}

// DeleteOwned removes a post, comments cascading at the schema level, with
// the same single-statement ownership rule as UpdateOwned.
func (r *PgRepository) DeleteOwned(ctx context.Context, id domain.ID, ownerID userdomain.ID) error {
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM posts WHERE id = $1 AND owner_id = $2`,
		string(id),
		string(ownerID),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return r.ownershipFailure(ctx, id)
	}
	return nil
}

// ownershipFailure distinguishes "post gone" from "someone else's post"
// after a conditional write matched nothing.
func (r *PgRepository) ownershipFailure(ctx context.Context, id domain.ID) error {
	var exists bool
	err := r.pool.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`,
		string(id),
	).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return commonerrors.ErrPostNotFound
	}
	return commonerrors.ErrNotPostOwner
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (domain.Post, error) {
	var post domain.Post
	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.OwnerID,
		&post.OwnerName,
		&post.CommentIDs,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}
