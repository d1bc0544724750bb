package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-user-management/internal/interface/http"
	"github.com/oksasatya/go-user-management/internal/interface/middleware"
)

// UserModule registers the user pages at the site root:
// GET /, GET /add, POST /add, GET /edit/:id, POST /update/:id, GET /delete/:id.
// Routes that change data are rate limited per IP when Redis is available.
type UserModule struct {
	Handler   *handlers.UserHandler
	Redis     *redis.Client
	PerMinute int
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, perMinute int) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, PerMinute: perMinute}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(m.Redis, m.PerMinute, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/", m.Handler.List)
	rg.GET("/add", m.Handler.AddForm)
	rg.GET("/edit/:id", m.Handler.EditForm)

	rg.POST("/add", writeLimiter, m.Handler.Add)
	rg.POST("/update/:id", writeLimiter, m.Handler.Update)
	rg.GET("/delete/:id", writeLimiter, m.Handler.Delete)
}
