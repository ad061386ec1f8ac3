package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrPostNotFound is returned when an operation references a post id with
// no matching row.
var ErrPostNotFound = errors.New("post not found")

// ValidationError marks a request that is malformed before it ever reaches
// the store, such as a missing required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Post represents a blog post. ImagePath, when non-nil, is the relative
// path of the stored image file (e.g. "uploads/1700000000.png"). A post
// with no image carries a nil ImagePath, which is distinct from an empty
// string.
type Post struct {
	ID        int64
	Title     string
	Content   string
	ImagePath *string
}

// ImageRef is a tri-state patch for a post's stored image path. The zero
// value leaves the stored path untouched.
type ImageRef struct {
	replace bool
	path    *string
}

// KeepImage leaves the currently stored image path alone.
func KeepImage() ImageRef {
	return ImageRef{}
}

// ClearImage removes the stored image path.
func ClearImage() ImageRef {
	return ImageRef{replace: true}
}

// NewImage points the post at a newly stored image file.
func NewImage(path string) ImageRef {
	return ImageRef{replace: true, path: &path}
}

// Replacement reports whether the stored path should be overwritten, and
// with what. A nil path with ok=true means "clear".
func (r ImageRef) Replacement() (path *string, ok bool) {
	return r.path, r.replace
}

type PostRepository interface {
	// List returns up to limit posts ordered by id descending.
	List(ctx context.Context, limit, offset int) ([]*Post, error)

	// Count returns the total number of posts, independent of any window.
	Count(ctx context.Context) (int, error)

	// Get returns a single post by id, or ErrPostNotFound.
	Get(ctx context.Context, id int64) (*Post, error)

	// Create inserts a new post and returns it with its assigned id.
	Create(ctx context.Context, title, content string, imagePath *string) (*Post, error)

	// Update overwrites title and content unconditionally and applies the
	// image patch. Returns ErrPostNotFound when no row matched.
	Update(ctx context.Context, id int64, title, content string, image ImageRef) (*Post, error)

	// Delete removes the post. Returns ErrPostNotFound when no row matched.
	Delete(ctx context.Context, id int64) error
}
