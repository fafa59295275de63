package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"kumarket/marketplace-api/pkg/util"

	"go.uber.org/zap"
)

// Local keeps images in a directory on disk
type Local struct {
	Dir string
}

func NewLocal(dir string) (*Local, error) {
	warning := util.WarnIfEphemeral(dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory, %w", err)
	}

	if warning != "" {
		zap.L().Warn(warning)
	}

	return &Local{Dir: dir}, nil
}

func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	dst := filepath.Join(l.Dir, filepath.Base(key))

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return err
	}

	return nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.Dir, filepath.Base(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}
