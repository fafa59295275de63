package validators

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	ErrFileTypeUnsupported = errors.New("file type not allowed")
	AllowedExtensions      = []string{"png", "jpg", "jpeg", "gif", "webp"}
)

// ImageLimits bounds the images attached to a single post
type ImageLimits struct {
	MaxImages    int
	MaxImageSize int64
	MaxTotalSize int64
}

// DefaultImageLimits are five images of at most 10MB each and 40MB total
var DefaultImageLimits = ImageLimits{
	MaxImages:    5,
	MaxImageSize: 10 << 20,
	MaxTotalSize: 40 << 20,
}

// ExtensionAllowed reports whether name ends in one of AllowedExtensions,
// ignoring case
func ExtensionAllowed(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return ext != "" && slices.Contains(AllowedExtensions, strings.ToLower(ext))
}

func (l ImageLimits) CheckCount(n int) error {
	if n > l.MaxImages {
		return fmt.Errorf("you can upload at most %d images", l.MaxImages)
	}
	return nil
}

func (l ImageLimits) CheckName(name string) error {
	if !ExtensionAllowed(name) {
		return ErrFileTypeUnsupported
	}
	return nil
}

func (l ImageLimits) CheckSize(size int64) error {
	if size > l.MaxImageSize {
		return fmt.Errorf("each image must be %dMB or less", l.MaxImageSize>>20)
	}
	return nil
}

func (l ImageLimits) CheckTotal(total int64) error {
	if total > l.MaxTotalSize {
		return fmt.Errorf("all images together must be %dMB or less", l.MaxTotalSize>>20)
	}
	return nil
}
