// Package session builds the cookie session manager
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/gormstore"
	"github.com/alexedwards/scs/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// KeyUserID holds the logged in user's id, the only value kept in a session
const KeyUserID = "user_id"

type Options struct {
	Lifetime   time.Duration
	CookieName string
	Secure     bool

	// Redis keeps sessions in Redis instead of the database when set
	Redis *redis.Client
}

// New creates a session manager backed by the sessions table of db, or by
// Redis when o.Redis is set
func New(db *gorm.DB, o Options) (*scs.SessionManager, error) {
	sm := scs.New()

	if o.Redis != nil {
		sm.Store = goredisstore.New(o.Redis)
	} else {
		store, err := gormstore.NewWithCleanupInterval(db, 30*time.Minute)
		if err != nil {
			return nil, fmt.Errorf("failed to create session store, %w", err)
		}
		sm.Store = store
	}

	sm.Lifetime = o.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = 24 * time.Hour
	}

	if o.CookieName != "" {
		sm.Cookie.Name = o.CookieName
	}

	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = o.Secure

	return sm, nil
}
