package service

import (
	"context"
	"errors"
	"fmt"

	"kumarket/marketplace-api/internal/model"
	"kumarket/marketplace-api/pkg/security"
	"kumarket/marketplace-api/pkg/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Profile is the public view of a user
type Profile struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	IsAdmin   bool   `json:"is_admin"`
}

func profileOf(u *model.User) *Profile {
	return &Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		StudentID: u.StudentID,
		IsAdmin:   u.IsAdmin,
	}
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
}

type AuthService struct {
	db     *gorm.DB
	hasher security.Hasher
	domain string
}

func NewAuthService(db *gorm.DB, h security.Hasher, emailDomain string) *AuthService {
	return &AuthService{
		db:     db,
		hasher: h,
		domain: emailDomain,
	}
}

// Register creates a regular (non-admin) account
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	if in.Email == "" || in.Password == "" || in.Name == "" || in.StudentID == "" {
		return invalid(validators.ErrMissingFields)
	}

	if err := validators.EmailValidator(in.Email, s.domain); err != nil {
		if errors.Is(err, validators.ErrEmailDomain) {
			return ErrInvalidDomain
		}
		return invalid(err)
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check if user is registered, %w", err)
	}

	if count > 0 {
		return ErrDuplicateEmail
	}

	hash, err := s.hasher.GenerateFromPassword(in.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	err = db.Create(&model.User{
		Email:     in.Email,
		Password:  hash,
		Name:      in.Name,
		StudentID: in.StudentID,
	}).Error
	if err != nil {
		// Lost a race with a concurrent registration of the same email
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user, %w", err)
	}

	zap.L().Info("User registered", zap.String("email", in.Email))
	return nil
}

// Login checks the credentials and returns the matching profile. Unknown
// emails and wrong passwords both produce ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Profile, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	db := s.db.WithContext(ctx)

	var user model.User

	if s.hasher.Deterministic() {
		hash, err := s.hasher.GenerateFromPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password, %w", err)
		}

		err = db.Where("email = ? AND password = ?", email, hash).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("failed to look up user, %w", err)
		}

		return profileOf(&user), nil
	}

	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := s.hasher.VerifyPasswd(password, user.Password)
	if err != nil {
		// Hash stored by a different scheme, treat like a wrong password
		zap.L().Warn("Failed to verify password", zap.Uint("userID", user.ID), zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	return profileOf(&user), nil
}

// Identify loads the user behind a session. It returns nil without an error
// when the user no longer exists, so stale sessions act as anonymous.
func (s *AuthService) Identify(ctx context.Context, userID uint) (*Identity, *Profile, error) {
	if userID == 0 {
		return nil, nil, nil
	}

	var user model.User

	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to check if user exists, %w", err)
	}

	return &Identity{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}, profileOf(&user), nil
}
