// Package app wires configuration, services and HTTP routes together
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kumarket/marketplace-api/app/admin"
	"kumarket/marketplace-api/app/post"
	"kumarket/marketplace-api/app/root"
	"kumarket/marketplace-api/app/user"
	"kumarket/marketplace-api/db"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/internal/media"
	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/internal/session"
	"kumarket/marketplace-api/pkg/middleware"
	"kumarket/marketplace-api/pkg/security"
	"kumarket/marketplace-api/pkg/validators"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	redisv8 "github.com/go-redis/redis/v8"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDeps opens the database and builds every service from configuration
func NewDeps(ctx context.Context) (*internal.Deps, error) {
	d := &internal.Deps{}

	conn, err := db.New()
	if err != nil {
		return nil, err
	}
	d.DB = conn

	hasher, err := security.NewHasher(viper.GetString("auth.hasher"))
	if err != nil {
		return nil, err
	}

	if viper.GetBool("db.seed") {
		if err := db.Seed(conn, hasher, db.DefaultAccounts); err != nil {
			return nil, fmt.Errorf("failed to seed default accounts, %w", err)
		}
	}

	m, err := media.New(ctx)
	if err != nil {
		return nil, err
	}

	opts := session.Options{
		Lifetime:   viper.GetDuration("session.lifetime"),
		CookieName: viper.GetString("session.cookie_name"),
		Secure:     viper.GetBool("host.ssl_enabled"),
	}

	if addr := viper.GetString("redis.addr"); addr != "" {
		opts.Redis = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: viper.GetString("redis.password"),
		})
	}

	sm, err := session.New(conn, opts)
	if err != nil {
		return nil, err
	}
	d.Sessions = sm

	d.Auth = service.NewAuthService(conn, hasher, viper.GetString("auth.email_domain"))
	d.Listings = service.NewListingService(conn, m, validators.ImageLimits{
		MaxImages:    viper.GetInt("upload.max_images"),
		MaxImageSize: viper.GetInt64("upload.max_image_bytes"),
		MaxTotalSize: viper.GetInt64("upload.max_total_bytes"),
	})
	d.Admin = service.NewAdminService(conn, m)

	return d, nil
}

// NewHandler returns the full HTTP handler, sessions included
func NewHandler(d *internal.Deps) http.Handler {
	return d.Sessions.LoadAndSave(NewRouter(d))
}

func NewRouter(d *internal.Deps) *gin.Engine {
	router := gin.New()

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// Same origin only unless host.cors lists the frontend origins
	if origins := viper.GetStringSlice("host.cors"); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowOriginFunc = func(string) bool { return false }
	}

	router.Use(
		cors.New(corsCfg),
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20

	if viper.GetString("storage.type") != "s3" {
		// GET /static/uploads/*	-> Uploaded images
		router.Static(viper.GetString("storage.public_prefix"), viper.GetString("storage.uploads_dir"))
	}

	sessions := middleware.NewSessionMiddleware(d.Sessions, d.Auth)
	store := newCacheStore()
	ttl := viper.GetInt("cache.insights_ttl")

	// Writes that change the counters drop the cached insights
	fresh := invalidate(store, insightsCacheKey)
	jsonLimit := middleware.BodySizeLimiter(1 << 20)
	uploadLimit := middleware.BodySizeLimiter(viper.GetInt64("upload.max_request_bytes"))

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })
	}

	a := m.Group("", sessions)
	{
		// POST /api/register		-> Registers a new user
		a.POST("/register", jsonLimit, fresh, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/login		-> Logs in a user and starts a session
		a.POST("/login", jsonLimit, func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/logout		-> Ends the current session
		a.POST("/logout", func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /api/check-session	-> Returns the logged in user, if any
		a.GET("/check-session", user.CheckSession)
	}

	p := a.Group("/posts")
	{
		// GET /api/posts		-> Lists posts, filtered by ?category= and ?search=
		p.GET("", func(c *gin.Context) { post.PostList(c, d) })

		// GET /api/posts/:id		-> Returns a post and counts a view
		p.GET("/:id", func(c *gin.Context) { post.PostFetch(c, d) })

		// POST /api/posts		-> Creates a post from a multipart form with images
		p.POST("", uploadLimit, fresh, func(c *gin.Context) { post.PostCreate(c, d) })

		// PUT /api/posts/:id		-> Changes the status of a post
		p.PUT("/:id", jsonLimit, func(c *gin.Context) { post.PostEdit(c, d) })

		// DELETE /api/posts/:id	-> Deletes a post and its images
		p.DELETE("/:id", fresh, func(c *gin.Context) { post.PostDelete(c, d) })
	}

	ad := a.Group("", middleware.RequireAdmin())
	{
		// GET /api/users		-> Lists all users
		ad.GET("/users", func(c *gin.Context) { admin.UserList(c, d) })

		// DELETE /api/users/:id	-> Deletes a user with all their posts
		ad.DELETE("/users/:id", fresh, func(c *gin.Context) { admin.UserDelete(c, d) })

		// GET /api/insights		-> Site wide counters
		ad.GET("/insights", cacheFor(store, insightsCacheKey, ttl), func(c *gin.Context) { admin.Insights(c, d) })
	}

	return router
}

const insightsCacheKey = "insights"

func newCacheStore() persist.CacheStore {
	if addr := viper.GetString("redis.addr"); addr != "" {
		return persist.NewRedisStore(redisv8.NewClient(&redisv8.Options{
			Addr:     addr,
			Password: viper.GetString("redis.password"),
		}))
	}

	return persist.NewMemoryStore(time.Minute)
}

// cacheFor caches successful responses under key. Zero seconds disables
// caching. Aborted requests are never stored.
func cacheFor(store persist.CacheStore, key string, sec int) gin.HandlerFunc {
	if sec <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return cache.Cache(store, time.Second*time.Duration(sec),
		cache.WithCacheStrategyByRequest(func(*gin.Context) (bool, cache.Strategy) {
			return true, cache.Strategy{CacheKey: key}
		}),
	)
}

// invalidate removes key from store after the request has been handled
func invalidate(store persist.CacheStore, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// The memory store reports a missing key as an error
		if err := store.Delete(key); err != nil {
			zap.L().Debug("Cache key not removed", zap.String("key", key), zap.Error(err))
		}
	}
}
