package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/awthompson/quill/api"
	"github.com/awthompson/quill/blog/application"
	"github.com/awthompson/quill/blog/domain"
	"github.com/gin-gonic/gin"
)

// PostsHandler adapts the post service to the JSON contract the gateway
// (and any other client) speaks.
type PostsHandler struct {
	service *application.PostService
}

func NewPostsHandler(service *application.PostService) *PostsHandler {
	return &PostsHandler{service: service}
}

func (h *PostsHandler) ListPosts(c *gin.Context) {
	page := positiveIntQuery(c, "page", application.DefaultPage)
	limit := positiveIntQuery(c, "limit", application.DefaultLimit)

	result, err := h.service.ListPosts(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, "Error retrieving posts", err)
		return
	}

	posts := make([]api.Post, 0, len(result.Posts))
	for _, p := range result.Posts {
		posts = append(posts, toWire(p))
	}

	c.JSON(http.StatusOK, api.PostList{
		Message:     "Posts retrieved successfully",
		CurrentPage: result.CurrentPage,
		TotalPages:  result.TotalPages,
		Posts:       posts,
	})
}

func (h *PostsHandler) CreatePost(c *gin.Context) {
	var req api.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Message{Message: "Error creating post", Error: err.Error()})
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), toInput(req))
	if err != nil {
		respondError(c, "Error creating post", err)
		return
	}

	c.JSON(http.StatusCreated, api.PostResponse{
		Message: "Post created successfully",
		Post:    toWire(post),
	})
}

func (h *PostsHandler) UpdatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req api.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Message{Message: "Error updating post", Error: err.Error()})
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), id, toInput(req))
	if err != nil {
		respondError(c, "Error updating post", err)
		return
	}

	c.JSON(http.StatusOK, api.PostResponse{
		Message: "Post updated successfully",
		Post:    toWire(post),
	})
}

func (h *PostsHandler) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), id); err != nil {
		respondError(c, "Error deleting post", err)
		return
	}

	c.JSON(http.StatusOK, api.Message{Message: "Post deleted successfully"})
}

// positiveIntQuery parses a query parameter that must be a positive
// integer, falling back to def when it is absent, non-numeric, or < 1.
func positiveIntQuery(c *gin.Context, name string, def int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 1 {
		return def
	}
	return value
}

// postID parses the :id route parameter. An id that is not an integer
// cannot match any post, so it reads as not found rather than a server
// error.
func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, api.Message{Message: "Post not found"})
		return 0, false
	}
	return id, true
}

func toInput(req api.PostRequest) application.PostInput {
	in := application.PostInput{
		Title:   req.Title,
		Content: req.Content,
	}

	switch {
	case !req.Image.Present:
		in.Image = application.ImagePatch{Kind: application.ImageKeep}
	case !req.Image.Valid:
		in.Image = application.ImagePatch{Kind: application.ImageClear}
	default:
		in.Image = application.ImagePatch{Kind: application.ImageSet, Data: req.Image.Data}
	}

	return in
}

// toWire converts a domain post to its wire shape, prefixing the stored
// relative image path so it is browser-relative.
func toWire(p *domain.Post) api.Post {
	post := api.Post{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
	}

	if p.ImagePath != nil {
		url := "/" + *p.ImagePath
		post.Image = &url
	}

	return post
}

func respondError(c *gin.Context, message string, err error) {
	var validation *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		c.JSON(http.StatusNotFound, api.Message{Message: "Post not found"})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, api.Message{Message: message, Error: validation.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.Message{Message: message, Error: err.Error()})
	}
}
