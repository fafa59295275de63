package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"kumarket/marketplace-api/internal/media"
	"kumarket/marketplace-api/internal/model"
	"kumarket/marketplace-api/pkg/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryAll disables the category filter of ListPosts
const CategoryAll = "all"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type post struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	AuthorID    uint      `json:"author_id"`
	Status      string    `json:"status"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	Author      string    `json:"author"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
}

// PostSummary is one entry of the listing page
type PostSummary struct {
	post
	Images []string `json:"images"`
}

// ImageInfo is an image of PostDetail
type ImageInfo struct {
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
}

// PostDetail is a single listing with its images
type PostDetail struct {
	post
	Images []ImageInfo `json:"images"`
}

func postOf(p *model.Post) post {
	return post{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Price:       p.Price,
		Category:    p.Category,
		AuthorID:    p.AuthorID,
		Status:      p.Status,
		Views:       p.Views,
		CreatedAt:   p.CreatedAt,
		Author:      p.Author.Name,
		AuthorName:  p.Author.Name,
		AuthorEmail: p.Author.Email,
	}
}

// ImageUpload is an image submitted with a new listing
type ImageUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadSeekCloser, error)
}

// empty is a form part submitted without a file
func (u ImageUpload) empty() bool {
	return u.Filename == ""
}

// CreatePostInput is a new listing. Images keeps empty parts so they count
// toward the image limit, their position is the upload order.
type CreatePostInput struct {
	Title    string
	Content  string
	Price    string
	Category string
	Images   []ImageUpload
}

type ListingService struct {
	db     *gorm.DB
	media  *media.Store
	limits validators.ImageLimits
}

func NewListingService(db *gorm.DB, m *media.Store, l validators.ImageLimits) *ListingService {
	return &ListingService{
		db:     db,
		media:  m,
		limits: l,
	}
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("upload_order ASC, id ASC")
}

// ListPosts returns every listing, newest first
func (s *ListingService) ListPosts(ctx context.Context, category, search string) ([]PostSummary, error) {
	q := s.db.WithContext(ctx).
		InnerJoins("Author").
		Preload("Images", orderedImages)

	if category != "" && category != CategoryAll {
		q = q.Where("posts.category = ?", category)
	}

	if search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		q = q.Where(`(posts.title LIKE ? ESCAPE '\' OR posts.content LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var posts []model.Post

	err := q.Order("posts.created_at DESC, posts.id DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts, %w", err)
	}

	out := make([]PostSummary, 0, len(posts))
	for i := range posts {
		images := make([]string, 0, len(posts[i].Images))
		for _, img := range posts[i].Images {
			images = append(images, img.FilePath)
		}

		out = append(out, PostSummary{
			post:   postOf(&posts[i]),
			Images: images,
		})
	}

	return out, nil
}

// GetPost counts a view and returns the listing. Every call counts.
func (s *ListingService) GetPost(ctx context.Context, id uint) (*PostDetail, error) {
	db := s.db.WithContext(ctx)

	r := db.Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if r.Error != nil {
		return nil, fmt.Errorf("failed to increment views, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}

	var p model.Post

	err := db.InnerJoins("Author").
		Preload("Images", orderedImages).
		Where("posts.id = ?", id).
		First(&p).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to fetch post, %w", err)
	}

	images := make([]ImageInfo, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, ImageInfo{FilePath: img.FilePath, FileSize: img.FileSize})
	}

	return &PostDetail{
		post:   postOf(&p),
		Images: images,
	}, nil
}

func (s *ListingService) validateImages(images []ImageUpload) error {
	if err := s.limits.CheckCount(len(images)); err != nil {
		return invalid(err)
	}

	var total int64
	for _, img := range images {
		if img.empty() {
			continue
		}

		if err := s.limits.CheckName(img.Filename); err != nil {
			return invalid(err)
		}

		if err := s.limits.CheckSize(img.Size); err != nil {
			return invalid(err)
		}

		total += img.Size
	}

	if err := s.limits.CheckTotal(total); err != nil {
		return invalid(err)
	}

	return nil
}

func (s *ListingService) saveImages(ctx context.Context, images []ImageUpload) ([]*media.Saved, error) {
	saved := make([]*media.Saved, 0, len(images))

	for i, img := range images {
		if img.empty() {
			continue
		}

		f, err := img.Open()
		if err != nil {
			return saved, fmt.Errorf("failed to open image %d, %w", i, err)
		}

		sv, err := s.media.Save(ctx, i, img.Filename, f, img.Size)
		f.Close()
		if err != nil {
			return saved, err
		}

		saved = append(saved, sv)
	}

	return saved, nil
}

func (s *ListingService) discard(ctx context.Context, saved []*media.Saved) {
	paths := make([]string, 0, len(saved))
	for _, sv := range saved {
		paths = append(paths, sv.Path)
	}

	// Nothing else can be done about leftovers here, they are logged by Remove
	s.media.Remove(context.WithoutCancel(ctx), paths...)
}

// CreatePost stores the images and then inserts the post and its image rows
// in one transaction. Images already written are removed again if anything
// after the first write fails.
func (s *ListingService) CreatePost(ctx context.Context, in CreatePostInput, id *Identity) (uint, error) {
	if id == nil {
		return 0, ErrUnauthenticated
	}

	price, err := validators.PostValidator(in.Title, in.Content, in.Price, in.Category)
	if err != nil {
		return 0, invalid(err)
	}

	if err := s.validateImages(in.Images); err != nil {
		return 0, err
	}

	saved, err := s.saveImages(ctx, in.Images)
	if err != nil {
		s.discard(ctx, saved)
		return 0, err
	}

	p := model.Post{
		Title:    in.Title,
		Content:  in.Content,
		Price:    price,
		Category: in.Category,
		AuthorID: id.UserID,
		Status:   model.StatusSale,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Create(&p).Error; err != nil {
			return fmt.Errorf("failed to create post, %w", err)
		}

		if len(saved) == 0 {
			return nil
		}

		rows := make([]model.Image, 0, len(saved))
		for _, sv := range saved {
			rows = append(rows, model.Image{
				PostID:      p.ID,
				Filename:    sv.Filename,
				FilePath:    sv.Path,
				FileSize:    sv.Size,
				UploadOrder: sv.Order,
			})
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to create images, %w", err)
		}

		return nil
	})
	if err != nil {
		s.discard(ctx, saved)
		return 0, err
	}

	zap.L().Info("Post created", zap.Uint("postID", p.ID), zap.Uint("userID", id.UserID), zap.Int("images", len(saved)))
	return p.ID, nil
}

func (s *ListingService) findOwned(db *gorm.DB, postID uint, id *Identity) (*model.Post, error) {
	if id == nil {
		return nil, ErrUnauthenticated
	}

	var p model.Post

	err := db.Where("id = ?", postID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to fetch post, %w", err)
	}

	if !IsOwnerOrAdmin(p.AuthorID, id) {
		return nil, ErrForbidden
	}

	return &p, nil
}

// UpdatePost changes the status of a listing. An empty status keeps the
// current one.
func (s *ListingService) UpdatePost(ctx context.Context, postID uint, status string, id *Identity) error {
	db := s.db.WithContext(ctx)

	p, err := s.findOwned(db, postID, id)
	if err != nil {
		return err
	}

	if status == "" || status == p.Status {
		return nil
	}

	err = db.Model(p).UpdateColumn("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update post status, %w", err)
	}

	return nil
}

// DeletePost removes a listing with its image rows, then its image files.
// Files that could not be removed are returned as warnings.
func (s *ListingService) DeletePost(ctx context.Context, postID uint, id *Identity) ([]string, error) {
	db := s.db.WithContext(ctx)

	p, err := s.findOwned(db, postID, id)
	if err != nil {
		return nil, err
	}

	var paths []string

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(model.Image{}).
			Where("post_id = ?", p.ID).
			Pluck("file_path", &paths).
			Error
		if err != nil {
			return fmt.Errorf("failed to list post images, %w", err)
		}

		if err := tx.Where("post_id = ?", p.ID).Delete(&model.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete images, %w", err)
		}

		if err := tx.Delete(p).Error; err != nil {
			return fmt.Errorf("failed to delete post, %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("Post deleted", zap.Uint("postID", p.ID), zap.Uint("userID", id.UserID))
	return s.media.Remove(ctx, paths...), nil
}
