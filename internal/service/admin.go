package service

import (
	"context"
	"errors"
	"fmt"

	"kumarket/marketplace-api/internal/media"
	"kumarket/marketplace-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryCount is the number of posts in one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type Insights struct {
	TotalUsers int64           `json:"total_users"`
	TotalPosts int64           `json:"total_posts"`
	Categories []CategoryCount `json:"categories"`
}

type AdminService struct {
	db    *gorm.DB
	media *media.Store
}

func NewAdminService(db *gorm.DB, m *media.Store) *AdminService {
	return &AdminService{
		db:    db,
		media: m,
	}
}

// ListUsers returns every account, newest first
func (s *AdminService) ListUsers(ctx context.Context, id *Identity) ([]model.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	users := []model.User{}

	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&users).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users, %w", err)
	}

	return users, nil
}

// DeleteUser removes an account together with its posts and their image
// rows in a single transaction. Image files are removed after the commit and
// failures are returned as warnings.
func (s *AdminService) DeleteUser(ctx context.Context, userID uint, id *Identity) ([]string, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	var paths []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User

		err := tx.Where("id = ?", userID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to fetch user, %w", err)
		}

		owned := func() *gorm.DB {
			return tx.Model(&model.Post{}).Select("id").Where("author_id = ?", userID)
		}

		err = tx.Model(&model.Image{}).
			Where("post_id IN (?)", owned()).
			Pluck("file_path", &paths).
			Error
		if err != nil {
			return fmt.Errorf("failed to list user images, %w", err)
		}

		if err := tx.Where("post_id IN (?)", owned()).Delete(&model.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete user images, %w", err)
		}

		if err := tx.Where("author_id = ?", userID).Delete(&model.Post{}).Error; err != nil {
			return fmt.Errorf("failed to delete user posts, %w", err)
		}

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user, %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("User deleted", zap.Uint("userID", userID), zap.Uint("adminID", id.UserID), zap.Int("images", len(paths)))
	return s.media.Remove(ctx, paths...), nil
}

// Insights returns site wide counters. Categories come back in no
// particular order.
func (s *AdminService) Insights(ctx context.Context, id *Identity) (*Insights, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	in := Insights{Categories: []CategoryCount{}}

	if err := db.Model(&model.User{}).Count(&in.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users, %w", err)
	}

	if err := db.Model(&model.Post{}).Count(&in.TotalPosts).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts, %w", err)
	}

	err := db.Model(&model.Post{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&in.Categories).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to count categories, %w", err)
	}

	return &in, nil
}
