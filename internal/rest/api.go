package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewApi registers the storage service's routes on the router.
func NewApi(router *gin.Engine, posts *PostsHandler) {
	router.GET("/posts", posts.ListPosts)
	router.POST("/posts", posts.CreatePost)
	router.PUT("/posts/:id", posts.UpdatePost)
	router.DELETE("/posts/:id", posts.DeletePost)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
