package application

import (
	"context"
	"strings"

	"github.com/awthompson/quill/blog/domain"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultPage and DefaultLimit apply when a listing request omits the
	// parameters or supplies something unusable.
	DefaultPage  = 1
	DefaultLimit = 5
)

// ImagePatchKind enumerates what an incoming request wants done with a
// post's image.
type ImagePatchKind int

const (
	// ImageKeep leaves the stored image untouched (field omitted).
	ImageKeep ImagePatchKind = iota
	// ImageClear removes the stored image (field explicitly null).
	ImageClear
	// ImageSet replaces the stored image with new bytes.
	ImageSet
)

// ImagePatch is the tri-state image field of a create or update request.
// Data is only meaningful when Kind is ImageSet.
type ImagePatch struct {
	Kind ImagePatchKind
	Data []byte
}

// PostInput carries the mutable fields of a post across a create or
// update.
type PostInput struct {
	Title   string
	Content string
	Image   ImagePatch
}

// PostPage is one window of the post listing plus the pagination facts a
// renderer needs.
type PostPage struct {
	Posts       []*domain.Post
	CurrentPage int
	TotalPages  int
}

// PostService owns the post lifecycle: pagination arithmetic, input
// validation, and keeping the image file store in step with the rows that
// reference it.
type PostService struct {
	repo   domain.PostRepository
	images domain.ImageStore
}

func NewPostService(repo domain.PostRepository, images domain.ImageStore) *PostService {
	return &PostService{
		repo:   repo,
		images: images,
	}
}

// ListPosts returns one page of posts, newest first. Out-of-range pages
// return an empty window but still report the true total, so callers can
// render accurate pagination controls.
func (s *PostService) ListPosts(ctx context.Context, page, limit int) (*PostPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	offset := (page - 1) * limit

	posts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:       posts,
		CurrentPage: page,
		TotalPages:  (count + limit - 1) / limit,
	}, nil
}

// CreatePost validates the input, stores the image bytes if any were
// supplied, and inserts the row. A failed insert removes the file again so
// the store does not accumulate orphans.
func (s *PostService) CreatePost(ctx context.Context, in PostInput) (*domain.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var imagePath *string
	if in.Image.Kind == ImageSet {
		path, err := s.images.Save(in.Image.Data)
		if err != nil {
			return nil, err
		}
		imagePath = &path
	}

	post, err := s.repo.Create(ctx, in.Title, in.Content, imagePath)
	if err != nil {
		if imagePath != nil {
			s.removeImage(*imagePath)
		}
		return nil, err
	}

	return post, nil
}

// UpdatePost overwrites title and content and applies the tri-state image
// patch: keep, clear, or replace. Replaced and cleared files are removed
// from the store after the row is committed.
func (s *PostService) UpdatePost(ctx context.Context, id int64, in PostInput) (*domain.Post, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ref := domain.KeepImage()
	var newPath *string

	switch in.Image.Kind {
	case ImageClear:
		ref = domain.ClearImage()
	case ImageSet:
		path, err := s.images.Save(in.Image.Data)
		if err != nil {
			return nil, err
		}
		newPath = &path
		ref = domain.NewImage(path)
	}

	post, err := s.repo.Update(ctx, id, in.Title, in.Content, ref)
	if err != nil {
		if newPath != nil {
			s.removeImage(*newPath)
		}
		return nil, err
	}

	// The old file is unreferenced once the row points elsewhere.
	if _, replaced := ref.Replacement(); replaced && prev.ImagePath != nil {
		s.removeImage(*prev.ImagePath)
	}

	return post, nil
}

// DeletePost removes the row and then the image file it referenced, if
// any.
func (s *PostService) DeletePost(ctx context.Context, id int64) error {
	prev, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if prev.ImagePath != nil {
		s.removeImage(*prev.ImagePath)
	}

	return nil
}

// removeImage is best effort; a leftover file never fails the operation
// that orphaned it.
func (s *PostService) removeImage(path string) {
	if err := s.images.Remove(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to remove image file")
	}
}

func validateInput(in PostInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return &domain.ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return &domain.ValidationError{Field: "content", Reason: "required"}
	}
	if in.Image.Kind == ImageSet && len(in.Image.Data) == 0 {
		return &domain.ValidationError{Field: "image", Reason: "empty file"}
	}
	return nil
}
