package repository

import (
	"context"
	"errors"
	"fmt"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/akarpov/content-api/internal/post/domain"
	userdomain "github.com/akarpov/content-api/internal/user/domain"
)

var ErrPostNotFound = errors.New("post not found")

type Repository interface {
	Create(ctx context.Context, post domain.Post) error
	FindByID(ctx context.Context, id domain.ID) (domain.Post, error)
	FindAll(ctx context.Context) ([]domain.Post, error)
	FindByCreator(ctx context.Context, creator userdomain.ID) ([]domain.Post, error)
	Update(ctx context.Context, post domain.Post) error
	Delete(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, post domain.Post) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO posts (id, name, content, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(post.ID),
		post.Name,
		post.Content,
		string(post.CreatedBy),
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, content, created_by, created_at, updated_at FROM posts WHERE id = $1`,
		string(id),
	)

	var post domain.Post
	err := row.Scan(&post.ID, &post.Name, &post.Content, &post.CreatedBy, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, fmt.Errorf("failed to find post by id: %w", err)
	}

	return post, nil
}

func (r *PgRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, content, created_by, created_at, updated_at FROM posts ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PgRepository) FindByCreator(ctx context.Context, creator userdomain.ID) ([]domain.Post, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, content, created_by, created_at, updated_at
		 FROM posts WHERE created_by = $1 ORDER BY created_at DESC`,
		string(creator),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by creator: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PgRepository) Update(ctx context.Context, post domain.Post) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE posts SET name = $2, content = $3, updated_at = $4 WHERE id = $1`,
		string(post.ID),
		post.Name,
		post.Content,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	var posts []domain.Post
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.ID, &post.Name, &post.Content, &post.CreatedBy, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return posts, nil
}
