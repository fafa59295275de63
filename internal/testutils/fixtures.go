package testutils

import (
	"fmt"

	"kumarket/marketplace-api/internal/model"
	"kumarket/marketplace-api/pkg/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

// DefaultPassword is the password of users made by CreateTestUser
const DefaultPassword = "password1234"

// CreateTestUser creates a non-admin user with a unique university email
func CreateTestUser(db *gorm.DB, opts ...UserOption) *model.User {
	id := gonanoid.Must(10)
	hash, _ := security.NewSHA256().GenerateFromPassword(DefaultPassword)

	u := &model.User{
		Email:     fmt.Sprintf("user_%s@korea.ac.kr", id),
		Password:  hash,
		Name:      "Test User",
		StudentID: "2024" + id[:6],
	}

	for _, opt := range opts {
		opt(u)
	}

	if err := db.Create(u).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}

	return u
}

// UserOption configures test user
type UserOption func(*model.User)

func WithEmail(email string) UserOption {
	return func(u *model.User) {
		u.Email = email
	}
}

func WithName(name string) UserOption {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithPassword sets the password, hashed with the legacy SHA-256 scheme
func WithPassword(password string) UserOption {
	return func(u *model.User) {
		u.Password, _ = security.NewSHA256().GenerateFromPassword(password)
	}
}

func WithAdmin() UserOption {
	return func(u *model.User) {
		u.IsAdmin = true
	}
}

// CreateTestPost creates a listing owned by author, with one image row per
// path in images
func CreateTestPost(db *gorm.DB, author *model.User, opts ...PostOption) *model.Post {
	p := &model.Post{
		Title:    "Used textbook",
		Content:  "Calculus, 8th edition",
		Price:    12000,
		Category: "books",
		AuthorID: author.ID,
		Status:   model.StatusSale,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := db.Create(p).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test post: %v", err))
	}

	return p
}

// PostOption configures test post
type PostOption func(*model.Post)

func WithTitle(title string) PostOption {
	return func(p *model.Post) {
		p.Title = title
	}
}

func WithContent(content string) PostOption {
	return func(p *model.Post) {
		p.Content = content
	}
}

func WithCategory(category string) PostOption {
	return func(p *model.Post) {
		p.Category = category
	}
}

// WithImages attaches image rows pointing at the given public paths
func WithImages(paths ...string) PostOption {
	return func(p *model.Post) {
		for i, path := range paths {
			p.Images = append(p.Images, model.Image{
				Filename:    fmt.Sprintf("image_%d.png", i),
				FilePath:    path,
				FileSize:    1024,
				UploadOrder: i,
			})
		}
	}
}
