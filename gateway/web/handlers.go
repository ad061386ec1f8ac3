// Package web terminates browser traffic for the gateway: it renders
// listing pages from the storage service's paginated responses and
// translates multipart form submissions into its JSON contract.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/awthompson/quill/api"
	"github.com/awthompson/quill/gateway/client"
	"github.com/awthompson/quill/gateway/upload"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// listingLimit is the fixed page size for rendered listings.
const listingLimit = 5

// Handler holds the gateway's routes. It keeps no post state of its own;
// everything is fetched from or forwarded to the storage service.
type Handler struct {
	client     *client.Client
	storageURL *url.URL
	stagingDir string
	publicDir  string
}

func NewHandler(storageClient *client.Client, storageBaseURL, stagingDir, publicDir string) (*Handler, error) {
	storageURL, err := url.Parse(storageBaseURL)
	if err != nil {
		return nil, err
	}

	return &Handler{
		client:     storageClient,
		storageURL: storageURL,
		stagingDir: stagingDir,
		publicDir:  publicDir,
	}, nil
}

// RegisterRoutes installs the gateway's routes and templates on the
// router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")))

	router.GET("/", h.staticPage("index.html"))
	router.GET("/services", h.staticPage("services.html"))
	router.GET("/explore", h.staticPage("explore.html"))

	router.GET("/blog", h.listing("blog.html"))
	router.GET("/admin", h.listing("admin.html"))

	router.POST("/posts", h.CreatePost)
	router.POST("/posts/:id/edit", h.EditPost)
	router.POST("/posts/:id/delete", h.DeletePost)

	// Image files live on the storage service; pass browser requests for
	// them straight through so rendered paths stay origin-relative.
	proxy := httputil.NewSingleHostReverseProxy(h.storageURL)
	router.GET("/uploads/*filepath", gin.WrapH(proxy))
}

func (h *Handler) staticPage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.File(filepath.Join(h.publicDir, name))
	}
}

// listingData is what the blog and admin templates render.
type listingData struct {
	Posts       []api.Post
	CurrentPage int
	TotalPages  int
}

// listing returns the shared fetch-and-render flow for the public blog
// and admin views; they differ only in template.
func (h *Handler) listing(tmplName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.Query("page"))
		if err != nil || page < 1 {
			page = 1
		}

		c.HTML(http.StatusOK, tmplName, h.fetchListing(c.Request.Context(), page))
	}
}

// fetchListing asks the storage service for one page of posts. Any
// failure degrades to an empty listing; the page always renders.
func (h *Handler) fetchListing(ctx context.Context, page int) listingData {
	list, err := h.client.ListPosts(ctx, page, listingLimit)
	if err != nil {
		log.Error().Err(err).Int("page", page).Msg("Failed to fetch posts, rendering empty listing")
		return listingData{Posts: []api.Post{}, CurrentPage: 1, TotalPages: 1}
	}

	data := listingData{
		Posts:       list.Posts,
		CurrentPage: list.CurrentPage,
		TotalPages:  list.TotalPages,
	}

	if data.Posts == nil {
		data.Posts = []api.Post{}
	}
	if data.CurrentPage < 1 {
		data.CurrentPage = page
	}
	if data.TotalPages < 1 {
		data.TotalPages = 1
	}

	return data
}

func (h *Handler) CreatePost(c *gin.Context) {
	req, ok := h.formRequest(c, "Error creating post")
	if !ok {
		return
	}

	if _, err := h.client.CreatePost(c.Request.Context(), *req); err != nil {
		log.Error().Err(err).Msg("Failed to create post")
		c.String(http.StatusInternalServerError, "Error creating post")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handler) EditPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	req, ok := h.formRequest(c, "Error editing post")
	if !ok {
		return
	}

	if _, err := h.client.UpdatePost(c.Request.Context(), id, *req); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to edit post")
		c.String(http.StatusInternalServerError, "Error editing post")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.client.DeletePost(c.Request.Context(), id); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to delete post")
		c.String(http.StatusInternalServerError, "Error deleting post")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

// formRequest decodes the multipart form shared by create and edit. When
// a file was attached it is staged, read back into the request body, and
// discarded before the handler returns, success or not.
func (h *Handler) formRequest(c *gin.Context, failureMessage string) (*api.PostRequest, bool) {
	req := api.PostRequest{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
	}

	header, err := c.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		log.Error().Err(err).Msg("Failed to read multipart upload")
		c.String(http.StatusBadRequest, failureMessage)
		return nil, false
	}

	// Browsers submit an empty image part when the field is left blank;
	// that reads the same as no file at all.
	if err != nil || header.Size == 0 {
		return &req, true
	}

	staged, err := upload.Stage(header, h.stagingDir)
	if err != nil {
		log.Error().Err(err).Msg("Failed to stage uploaded file")
		c.String(http.StatusInternalServerError, failureMessage)
		return nil, false
	}
	defer func() {
		if err := staged.Discard(); err != nil {
			log.Warn().Err(err).Str("path", staged.Path).Msg("Failed to discard staged file")
		}
	}()

	data, err := staged.Bytes()
	if err != nil {
		log.Error().Err(err).Msg("Failed to read staged file")
		c.String(http.StatusInternalServerError, failureMessage)
		return nil, false
	}

	req.Image = api.Bytes(data)
	return &req, true
}

// postID parses the :id route parameter of a mutation.
func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid post id")
		return 0, false
	}
	return id, true
}
