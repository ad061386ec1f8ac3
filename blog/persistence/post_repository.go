package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/awthompson/quill/blog/domain"
	"github.com/awthompson/quill/shared/db"
)

var _ domain.PostRepository = (*SQLPostRepository)(nil)

// SQLPostRepository implements domain.PostRepository over a SQL database
// (SQLite). Every operation is a single statement; not-found conditions
// are detected through zero affected rows rather than errors.
type SQLPostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLPostRepository from a standard sql.DB
func NewPostRepository(db *sql.DB) *SQLPostRepository {
	return &SQLPostRepository{
		db: db,
	}
}

const listPostsQuery = `
	SELECT id, title, content, image
	FROM posts
	ORDER BY id DESC
	LIMIT ? OFFSET ?
`

// List retrieves posts ordered by id descending, newest first.
func (r *SQLPostRepository) List(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	executor := db.GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, listPostsQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		var row postRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Content, &row.Image); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, row.toDomain())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

const countPostsQuery = `SELECT COUNT(*) FROM posts`

// Count returns the full-table post count. It is evaluated independently
// of any LIMIT/OFFSET window so pagination totals stay accurate on
// out-of-range pages.
func (r *SQLPostRepository) Count(ctx context.Context) (int, error) {
	executor := db.GetExecutor(ctx, r.db)

	var count int
	if err := executor.QueryRowContext(ctx, countPostsQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}

	return count, nil
}

const getPostQuery = `
	SELECT id, title, content, image
	FROM posts
	WHERE id = ?
`

// Get retrieves a single post by id
func (r *SQLPostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	executor := db.GetExecutor(ctx, r.db)

	var row postRow
	err := executor.QueryRowContext(ctx, getPostQuery, id).Scan(&row.ID, &row.Title, &row.Content, &row.Image)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return row.toDomain(), nil
}

const insertPostQuery = `
	INSERT INTO posts (title, content, image)
	VALUES (?, ?, ?)
`

// Create inserts a new post and returns it with the id the store assigned.
func (r *SQLPostRepository) Create(ctx context.Context, title, content string, imagePath *string) (*domain.Post, error) {
	executor := db.GetExecutor(ctx, r.db)

	var image sql.NullString
	if imagePath != nil {
		image = sql.NullString{String: *imagePath, Valid: true}
	}

	result, err := executor.ExecContext(ctx, insertPostQuery, title, content, image)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read assigned post id: %w", err)
	}

	row := postRow{ID: id, Title: title, Content: content, Image: image}
	return row.toDomain(), nil
}

const updatePostQuery = `
	UPDATE posts
	SET title = ?, content = ?
	WHERE id = ?
`

const updatePostWithImageQuery = `
	UPDATE posts
	SET title = ?, content = ?, image = ?
	WHERE id = ?
`

// Update overwrites title and content unconditionally. The stored image
// path is only touched when the patch says so, which keeps "no new image
// supplied" from nulling out an existing one.
func (r *SQLPostRepository) Update(ctx context.Context, id int64, title, content string, image domain.ImageRef) (*domain.Post, error) {
	executor := db.GetExecutor(ctx, r.db)

	var (
		result sql.Result
		err    error
	)

	if path, replace := image.Replacement(); replace {
		var value sql.NullString
		if path != nil {
			value = sql.NullString{String: *path, Valid: true}
		}
		result, err = executor.ExecContext(ctx, updatePostWithImageQuery, title, content, value, id)
	} else {
		result, err = executor.ExecContext(ctx, updatePostQuery, title, content, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrPostNotFound
	}

	return r.Get(ctx, id)
}

const deletePostQuery = `DELETE FROM posts WHERE id = ?`

// Delete removes a post permanently
func (r *SQLPostRepository) Delete(ctx context.Context, id int64) error {
	executor := db.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, deletePostQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// postRow is a private struct used to scan database rows. It uses
// sql.NullString for the nullable image column and provides a method to
// convert to the domain.Post model.
type postRow struct {
	ID      int64          `db:"id"`
	Title   string         `db:"title"`
	Content string         `db:"content"`
	Image   sql.NullString `db:"image"`
}

// toDomain converts a postRow to a domain.Post, handling the nullable image
func (pr *postRow) toDomain() *domain.Post {
	post := &domain.Post{
		ID:      pr.ID,
		Title:   pr.Title,
		Content: pr.Content,
	}

	if pr.Image.Valid {
		path := pr.Image.String
		post.ImagePath = &path
	}

	return post
}
