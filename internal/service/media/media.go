package media

import (
	"context"
	"errors"
)

// ErrUpstream indicates the image host rejected or failed the upload.
var ErrUpstream = errors.New("media upstream error")

// Uploader stores an avatar image out of band and returns its reference.
// An empty reference with a nil error means the host accepted the request
// but produced no usable image.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (ref string, err error)
}
