package domain

// ImageStore persists uploaded image bytes and hands back the relative
// path they are addressable under.
type ImageStore interface {
	// Save writes the image bytes to a new file with a collision-resistant
	// name and returns its relative path.
	Save(data []byte) (string, error)

	// Remove deletes a stored image file. Removing a path that no longer
	// exists is not an error.
	Remove(path string) error
}
