package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blogapi/internal/domain"
)

// PostRepository runs the parameterized SQL for the posts table.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// PostFilter narrows List. Dates are inclusive calendar days (YYYY-MM-DD).
type PostFilter struct {
	Page      int
	PageSize  int
	Status    string
	StartDate string
	EndDate   string
}

const postJoinColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.author_id, p.status, p.published_at, p.created_at, p.updated_at,
               u.username AS author_name, u.email AS author_email, u.avatar_url AS author_avatar, u.bio AS author_bio`

func scanPostWithAuthor(row interface{ Scan(...any) error }) (domain.PostWithAuthor, error) {
	var p domain.PostWithAuthor
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.AuthorID, &p.Status,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorName, &p.AuthorEmail, &p.AuthorAvatar, &p.AuthorBio,
	)
	return p, err
}

// Create inserts the post and returns the stored row with author fields.
// A duplicate slug surfaces as a domain.ConflictError.
func (r *PostRepository) Create(ctx context.Context, p domain.Post) (domain.PostWithAuthor, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO posts (title, slug, content, excerpt, author_id, status, published_at, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
    `, p.Title, p.Slug, p.Content, p.Excerpt, p.AuthorID, p.Status, p.PublishedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.PostWithAuthor{}, domain.ConflictError{Resource: "post", Msg: "slug already exists", Err: err}
		}
		return domain.PostWithAuthor{}, fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.PostWithAuthor{}, fmt.Errorf("insert post id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (domain.PostWithAuthor, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+postJoinColumns+`
        FROM posts p
        LEFT JOIN users u ON p.author_id = u.id
        WHERE p.id = ?
    `, id)
	p, err := scanPostWithAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PostWithAuthor{}, domain.NotFoundError{Resource: "post", Err: err}
	}
	if err != nil {
		return domain.PostWithAuthor{}, fmt.Errorf("select post: %w", err)
	}
	return p, nil
}

// List returns one page of posts plus the unfiltered-by-page total matching
// the filter. The WHERE clause is assembled from the filter; values always
// travel as placeholders.
func (r *PostRepository) List(ctx context.Context, f PostFilter) ([]domain.PostWithAuthor, int64, error) {
	var (
		conditions []string
		args       []any
	)
	if f.Status != "" {
		conditions = append(conditions, "p.status = ?")
		args = append(args, f.Status)
	}
	if f.StartDate != "" {
		conditions = append(conditions, "p.created_at >= ?")
		args = append(args, f.StartDate+" 00:00:00")
	}
	if f.EndDate != "" {
		conditions = append(conditions, "p.created_at <= ?")
		args = append(args, f.EndDate+" 23:59:59")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts p"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	offset := (f.Page - 1) * f.PageSize
	query := `
        SELECT ` + postJoinColumns + `
        FROM posts p
        LEFT JOIN users u ON p.author_id = u.id` + whereClause + `
        ORDER BY p.created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.PostWithAuthor, 0, f.PageSize)
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, total, nil
}

// Update rewrites the post if it belongs to authorID; editing someone
// else's post reports not found rather than leaking its existence.
func (r *PostRepository) Update(ctx context.Context, id, authorID int64, p domain.Post) (domain.PostWithAuthor, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE posts SET title = ?, slug = ?, content = ?, excerpt = ?, status = ?, published_at = ?, updated_at = NOW()
        WHERE id = ? AND author_id = ?
    `, p.Title, p.Slug, p.Content, p.Excerpt, p.Status, p.PublishedAt, id, authorID)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.PostWithAuthor{}, domain.ConflictError{Resource: "post", Msg: "slug already exists", Err: err}
		}
		return domain.PostWithAuthor{}, fmt.Errorf("update post: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish "no change" from "not yours / missing".
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return domain.PostWithAuthor{}, err
		}
		if existing.AuthorID != authorID {
			return domain.PostWithAuthor{}, domain.NotFoundError{Resource: "post"}
		}
	}
	return r.GetByID(ctx, id)
}

func (r *PostRepository) Delete(ctx context.Context, id, authorID int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ? AND author_id = ?", id, authorID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "post"}
	}
	return nil
}
