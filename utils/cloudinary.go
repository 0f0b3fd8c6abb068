// utils/cloudinary.go
package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"cartpod-finder/models"
)

// MaxImageSize is the per-file upload limit.
const MaxImageSize = 5 * 1024 * 1024

// ImageService handles the hosted image lifecycle: uploads into
// per-slot folders and deletes by public ID.
type ImageService struct {
	client *cloudinary.Cloudinary
}

// NewImageService initializes the Cloudinary client from environment
// variables.
func NewImageService() *ImageService {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		panic("failed to configure Cloudinary: " + err.Error())
	}
	cld.Config.URL.Secure = true
	return &ImageService{client: cld}
}

// UploadImage stores one uploaded file under the given folder and
// returns the hosted reference. The file must be an image of at most
// MaxImageSize bytes. Upload failures abort the enclosing request when
// the image is mandatory, so errors are propagated.
func (is *ImageService) UploadImage(ctx context.Context, header *multipart.FileHeader, folder string) (models.ImageRef, error) {
	if header.Size > MaxImageSize {
		return models.ImageRef{}, fmt.Errorf("image %q exceeds the %d byte limit", header.Filename, MaxImageSize)
	}
	if contentType := header.Header.Get("Content-Type"); !strings.HasPrefix(contentType, "image/") {
		return models.ImageRef{}, fmt.Errorf("invalid file type %q, only images are allowed", contentType)
	}

	file, err := header.Open()
	if err != nil {
		return models.ImageRef{}, err
	}
	defer file.Close()

	result, err := is.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return models.ImageRef{}, fmt.Errorf("failed to upload image: %w", err)
	}

	return models.ImageRef{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// DeleteImage removes a hosted image by its public ID. Callers treat
// this as best-effort cleanup: failures are logged, never raised to the
// client.
func (is *ImageService) DeleteImage(ctx context.Context, publicID string) error {
	_, err := is.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	return nil
}
