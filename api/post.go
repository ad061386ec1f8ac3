package api

import "encoding/json"

// Post is the wire representation of a blog post. Image is a
// browser-relative path to the stored image file, or null when the post
// has no image.
type Post struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

// PostList is the response body for GET /posts.
type PostList struct {
	Message     string `json:"message"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	Posts       []Post `json:"posts"`
}

// PostRequest is the request body for POST /posts and PUT /posts/:id.
// The image field is tri-state: omitted means "leave the stored image
// alone" (or "no image" on create), null means "clear it", and a string
// carries new image bytes, base64 encoded.
type PostRequest struct {
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Image   OptionalBytes `json:"image"`
}

// MarshalJSON omits the image key entirely when the field was never set,
// so the receiver can tell "untouched" apart from "cleared".
func (r PostRequest) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"title":   r.Title,
		"content": r.Content,
	}

	if r.Image.Present {
		if r.Image.Valid {
			body["image"] = r.Image
		} else {
			body["image"] = nil
		}
	}

	return json.Marshal(body)
}

// PostResponse is the response body for a successful create or update.
type PostResponse struct {
	Message string `json:"message"`
	Post    Post   `json:"post"`
}

// Message is the response body for deletes and for every error response.
// Error carries the underlying failure message on 5xx responses.
type Message struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
