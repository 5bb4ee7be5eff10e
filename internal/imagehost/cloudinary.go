// Package imagehost uploads product images to Cloudinary and returns the
// durable URL the catalog stores.
package imagehost

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

type Uploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// New builds an uploader from a cloudinary:// URL.
func New(cloudinaryURL, folder string) (*Uploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "init cloudinary")
	}
	return &Uploader{cld: cld, folder: folder}, nil
}

// Upload streams the file and returns its secure URL.
func (u *Uploader) Upload(ctx context.Context, file io.Reader) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: u.folder})
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	return result.SecureURL, nil
}
