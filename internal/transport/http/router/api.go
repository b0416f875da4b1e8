package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silent-library/internal/core/auth"
	"silent-library/internal/service"
	mdw "silent-library/internal/transport/http/middleware"
)

type APIDeps struct {
	Log     *zap.Logger
	JWT     *auth.JWTer
	Catalog *service.CatalogService
	Reviews *service.ReviewService
	Users   *service.UserService
	Stats   *service.StatsService
}

func NewAPIEngine(d APIDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.SimpleRecovery(),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	api := r.Group("/api/v1")

	reg := NewRegistry()
	reg.Add(&booksModule{catalog: d.Catalog, stats: d.Stats, jwter: d.JWT})
	reg.Add(&reviewsModule{reviews: d.Reviews, jwter: d.JWT})
	reg.Add(&profileModule{users: d.Users, jwter: d.JWT})
	reg.MountAPI(api)

	// 鉴权分组（/me 挂这里才拿得到 userId）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(d.JWT, ""))

	mountAuthActions(api, authUser, d.Users, d.JWT)

	return r
}
