package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awthompson/quill/api"
)

func TestListPosts(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		json.NewEncoder(w).Encode(api.PostList{
			Message:     "Posts retrieved successfully",
			CurrentPage: 2,
			TotalPages:  3,
			Posts:       []api.Post{{ID: 6, Title: "t", Content: "c"}},
		})
	}))
	defer server.Close()

	c := New(server.URL, server.Client())

	list, err := c.ListPosts(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}

	if gotPath != "/posts?page=2&limit=5" {
		t.Errorf("request path = %q", gotPath)
	}
	if list.CurrentPage != 2 || list.TotalPages != 3 || len(list.Posts) != 1 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestCreatePost_SendsImage(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/posts" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.PostResponse{Message: "Post created successfully", Post: api.Post{ID: 1}})
	}))
	defer server.Close()

	c := New(server.URL, server.Client())

	post, err := c.CreatePost(context.Background(), api.PostRequest{
		Title:   "Hi",
		Content: "World",
		Image:   api.Bytes([]byte("img")),
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.ID != 1 {
		t.Errorf("post id = %d, want 1", post.ID)
	}

	if gotBody["title"] != "Hi" || gotBody["content"] != "World" {
		t.Errorf("body = %v", gotBody)
	}
	if gotBody["image"] != "aW1n" {
		t.Errorf("image = %v, want base64 aW1n", gotBody["image"])
	}
}

func TestUpdatePost_OmitsUnsetImage(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/posts/7" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(api.PostResponse{Post: api.Post{ID: 7}})
	}))
	defer server.Close()

	c := New(server.URL, server.Client())

	if _, err := c.UpdatePost(context.Background(), 7, api.PostRequest{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	if _, present := gotBody["image"]; present {
		t.Errorf("image key should be absent, body = %v", gotBody)
	}
}

func TestDeletePost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/posts/3" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.Message{Message: "Post deleted successfully"})
	}))
	defer server.Close()

	c := New(server.URL, server.Client())

	if err := c.DeletePost(context.Background(), 3); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
}

func TestUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(api.Message{Message: "Post not found"})
	}))
	defer server.Close()

	c := New(server.URL, server.Client())

	err := c.DeletePost(context.Background(), 42)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if upstream.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", upstream.StatusCode)
	}
	if upstream.Message != "Post not found" {
		t.Errorf("Message = %q", upstream.Message)
	}
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	c := New(server.URL, &http.Client{})

	if _, err := c.ListPosts(context.Background(), 1, 5); err == nil {
		t.Error("expected error against a dead server")
	}
}
