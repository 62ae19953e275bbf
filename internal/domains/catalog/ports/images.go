package ports

import (
	"context"

	catalogtypes "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
)

// ImageStore keeps product images outside the database.
type ImageStore interface {
	Upload(ctx context.Context, upload catalogtypes.ImageUpload) (domain.Image, error)
	Destroy(ctx context.Context, imageID string) error
}
