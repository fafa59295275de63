package internal

import (
	"kumarket/marketplace-api/internal/service"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Sessions *scs.SessionManager
	Auth     *service.AuthService
	Listings *service.ListingService
	Admin    *service.AdminService
}
