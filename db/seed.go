package db

import (
	"errors"
	"fmt"

	"kumarket/marketplace-api/internal/model"
	"kumarket/marketplace-api/pkg/security"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedMigration = "seed_default_accounts"

// SeedAccount is a fixed account created on startup
type SeedAccount struct {
	Email     string
	Password  string
	Name      string
	StudentID string
	IsAdmin   bool
}

// DefaultAccounts are the demo user and the administrator
var DefaultAccounts = []SeedAccount{
	{Email: "test@korea.ac.kr", Password: "test1234", Name: "김고려", StudentID: "2021123456"},
	{Email: "admin@korea.ac.kr", Password: "admin1234", Name: "관리자", StudentID: "0000000000", IsAdmin: true},
}

// Seed creates any missing default account. Accounts that already exist keep
// their password but get their admin flag brought back in line, so databases
// created before the flag existed end up with exactly one administrator.
func Seed(db *gorm.DB, h security.Hasher, accounts []SeedAccount) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, a := range accounts {
			var u model.User

			err := tx.Where("email = ?", a.Email).First(&u).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up seed account %s, %w", a.Email, err)
			}

			if err == nil {
				if u.IsAdmin != a.IsAdmin {
					if err := tx.Model(&u).Update("is_admin", a.IsAdmin).Error; err != nil {
						return fmt.Errorf("failed to update admin flag of %s, %w", a.Email, err)
					}

					zap.L().Info("Reconciled admin flag", zap.String("email", a.Email), zap.Bool("isAdmin", a.IsAdmin))
				}
				continue
			}

			hash, err := h.GenerateFromPassword(a.Password)
			if err != nil {
				return fmt.Errorf("failed to hash seed password, %w", err)
			}

			u = model.User{
				Email:     a.Email,
				Password:  hash,
				Name:      a.Name,
				StudentID: a.StudentID,
				IsAdmin:   a.IsAdmin,
			}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("failed to create seed account %s, %w", a.Email, err)
			}
		}

		var count int64
		if err := tx.Model(model.Migration{}).Where("name = ?", seedMigration).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			zap.L().Info("Seeded default accounts", zap.Int("accounts", len(accounts)))
			return tx.Create(&model.Migration{Name: seedMigration}).Error
		}

		return nil
	})
}
