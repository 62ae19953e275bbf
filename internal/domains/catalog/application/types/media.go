package types

import "io"

// ImageUpload represents an image file received with a product mutation.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
