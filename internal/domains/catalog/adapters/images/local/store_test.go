package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	catalogtypes "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application/types"
)

func TestStore_UploadAndDestroy(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, "products", "/uploads/")

	img, err := store.Upload(context.Background(), catalogtypes.ImageUpload{Filename: "Mug.PNG", Body: strings.NewReader("data")})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(img.ID, "products/"))
	require.True(t, strings.HasSuffix(img.ID, ".png"))
	require.Equal(t, "/uploads/"+img.ID, img.URL)

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(img.ID)))
	require.NoError(t, err)
	require.Equal(t, "data", string(content))

	require.NoError(t, store.Destroy(context.Background(), img.ID))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(img.ID)))
	require.True(t, os.IsNotExist(err))
	require.NoError(t, store.Destroy(context.Background(), img.ID))
}

func TestStore_RejectsEscapingIDs(t *testing.T) {
	store := NewStore(t.TempDir(), "products", "/uploads")
	for _, id := range []string{"../etc/passwd", "products/../../x", "", "/abs"} {
		require.ErrorIs(t, store.Destroy(context.Background(), id), ErrInvalidImageID, id)
	}
}
