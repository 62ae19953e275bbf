package cloudinary

import (
	"context"

	cloudclient "github.com/Apurer/go-gin-marketplace/internal/clients/http/cloudinary"
	catalogtypes "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
)

var _ ports.ImageStore = (*Store)(nil)

type uploader interface {
	Upload(ctx context.Context, req cloudclient.UploadRequest) (*cloudclient.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// Store keeps product images in a Cloudinary folder.
type Store struct {
	client uploader
	folder string
}

func NewStore(client uploader, folder string) *Store {
	return &Store{client: client, folder: folder}
}

func (s *Store) Upload(ctx context.Context, upload catalogtypes.ImageUpload) (domain.Image, error) {
	res, err := s.client.Upload(ctx, cloudclient.UploadRequest{
		Folder:   s.folder,
		Filename: upload.Filename,
		Body:     upload.Body,
	})
	if err != nil {
		return domain.Image{}, err
	}
	return domain.Image{URL: res.SecureURL, ID: res.PublicID}, nil
}

func (s *Store) Destroy(ctx context.Context, imageID string) error {
	return s.client.Destroy(ctx, imageID)
}
