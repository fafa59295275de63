// Package media stores uploaded listing images and removes them again
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	nameCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
	sniffLen    = 3072
)

// Backend is where image bytes end up. Delete must treat a missing
// object as success.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Store names images, writes them to a backend and maps stored keys to the
// public paths saved in the images table
type Store struct {
	backend Backend
	prefix  string
	now     func() time.Time
}

// Saved describes one image written by Save
type Saved struct {
	Filename string // sanitized original name
	Key      string
	Path     string // public path
	Size     int64
	Order    int
}

func NewStore(b Backend, publicPrefix string) *Store {
	return &Store{
		backend: b,
		prefix:  strings.TrimSuffix(publicPrefix, "/"),
		now:     time.Now,
	}
}

// PublicPath returns the path clients use to fetch key
func (s *Store) PublicPath(key string) string {
	return s.prefix + "/" + key
}

// Save writes the image read from f under a fresh unique key
func (s *Store) Save(ctx context.Context, order int, name string, f io.ReadSeeker, size int64) (*Saved, error) {
	clean := SecureFilename(name)
	if clean == "" {
		clean = "image" + strings.ToLower(path.Ext(name))
	}

	id, err := gonanoid.Generate(nameCharset, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image name, %w", err)
	}

	key := fmt.Sprintf("%s_%d_%s_%s", s.now().Format("20060102_150405"), order, id, clean)

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read image, %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind image, %w", err)
	}

	mime := mimetype.Detect(head[:n])

	if err := s.backend.Put(ctx, key, f, size, mime.String()); err != nil {
		return nil, fmt.Errorf("failed to store image, %w", err)
	}

	zap.L().Debug("Stored image", zap.String("key", key), zap.String("mime", mime.String()), zap.Int64("size", size))

	return &Saved{
		Filename: clean,
		Key:      key,
		Path:     s.PublicPath(key),
		Size:     size,
		Order:    order,
	}, nil
}

// Remove deletes the images behind the given public paths. Failures never
// stop the loop and come back as human readable warnings.
func (s *Store) Remove(ctx context.Context, paths ...string) []string {
	var warnings []string

	for _, p := range paths {
		key := path.Base(p)
		if key == "." || key == "/" {
			continue
		}

		if err := s.backend.Delete(ctx, key); err != nil {
			zap.L().Warn("Failed to remove image", zap.String("path", p), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("failed to remove image %s", p))
		}
	}

	return warnings
}
