package service_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"kumarket/marketplace-api/internal/media"
	"kumarket/marketplace-api/internal/model"
	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/internal/testutils"
	"kumarket/marketplace-api/pkg/security"
	"kumarket/marketplace-api/pkg/validators"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type env struct {
	db       *gorm.DB
	dir      string
	auth     *service.AuthService
	listings *service.ListingService
	admin    *service.AdminService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutils.SetupTestDB(t)
	dir := filepath.Join(t.TempDir(), "uploads")

	local, err := media.NewLocal(dir)
	require.NoError(t, err)

	store := media.NewStore(local, "/static/uploads")

	return &env{
		db:       db,
		dir:      dir,
		auth:     service.NewAuthService(db, security.NewSHA256(), "@korea.ac.kr"),
		listings: service.NewListingService(db, store, validators.DefaultImageLimits),
		admin:    service.NewAdminService(db, store),
	}
}

// files lists everything in the uploads directory
func (e *env) files(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(e.dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, en := range entries {
		names = append(names, en.Name())
	}

	return names
}

func identityOf(u *model.User) *service.Identity {
	return &service.Identity{UserID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin}
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

// image is a small png claiming to be size bytes long. Limits are checked
// against the declared size before anything is read.
func image(name string, size int64) service.ImageUpload {
	data := append([]byte{}, pngHeader...)
	if size > int64(len(data)) && size <= 1<<20 {
		data = append(data, make([]byte, size-int64(len(data)))...)
	}

	return service.ImageUpload{
		Filename: name,
		Size:     size,
		Open: func() (io.ReadSeekCloser, error) {
			return readSeekNopCloser{bytes.NewReader(data)}, nil
		},
	}
}

func postInput(images ...service.ImageUpload) service.CreatePostInput {
	return service.CreatePostInput{
		Title:    "Desk lamp",
		Content:  "Works fine, pick up at the library",
		Price:    "8000",
		Category: "furniture",
		Images:   images,
	}
}
