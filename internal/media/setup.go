package media

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// New builds the store selected by storage.type
func New(ctx context.Context) (*Store, error) {
	switch t := viper.GetString("storage.type"); t {
	case "s3":
		b, err := NewS3(ctx, S3Options{
			Bucket:          viper.GetString("s3.bucket"),
			Region:          viper.GetString("s3.region"),
			AccessKeyID:     viper.GetString("s3.access_key_id"),
			SecretAccessKey: viper.GetString("s3.secret_access_key"),
			Endpoint:        viper.GetString("s3.endpoint"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		zap.L().Info("Storing images in S3", zap.String("bucket", viper.GetString("s3.bucket")))
		return NewStore(b, viper.GetString("s3.public_url")), nil
	case "local", "":
		b, err := NewLocal(viper.GetString("storage.uploads_dir"))
		if err != nil {
			return nil, err
		}

		zap.L().Info("Storing images on disk", zap.String("dir", b.Dir))
		return NewStore(b, viper.GetString("storage.public_prefix")), nil
	default:
		return nil, fmt.Errorf("invalid storage type %q", t)
	}
}
