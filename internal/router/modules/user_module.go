package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-registration/internal/container"
	handlers "github.com/oksasatya/go-user-registration/internal/interface/http"
	"github.com/oksasatya/go-user-registration/internal/interface/middleware"
)

// UserModule serves GET, POST and PUT /users under the registry's base path.
// Only registration is rate limited.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()
	var allow middleware.AllowFunc
	if cfg.RateLimitBypassPriv {
		allow = middleware.AllowPrivateIP()
	}
	// shared across instances through Redis; per-process token bucket otherwise
	var createLimiter gin.HandlerFunc
	if rdb := container.GetRedis(); rdb != nil {
		createLimiter = middleware.RateLimit(rdb, cfg.RateLimitCreatePerMin, time.Minute, middleware.KeyByIPAndPath(), allow)
	} else {
		createLimiter = middleware.LocalRateLimit(cfg.RateLimitCreatePerMin, time.Minute, middleware.KeyByIPAndPath(), allow)
	}

	users := rg.Group("/users")
	users.GET("", m.Handler.List)
	users.POST("", createLimiter, m.Handler.Create)
	users.PUT("", m.Handler.Update)
}
