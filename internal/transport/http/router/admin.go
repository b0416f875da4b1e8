package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"silent-library/internal/core/auth"
	"silent-library/internal/core/server"
	"silent-library/internal/service"
	mdw "silent-library/internal/transport/http/middleware"
)

type AdminDeps struct {
	Log   *zap.Logger
	JWT   *auth.JWTer
	Users *service.UserService
	Stats *service.StatsService
}

// NewAdminEngine 员工后台：统计面板、用户管理、档案补建
func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := server.NewRouter(d.Log)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT, auth.RoleStaff))

	reg := NewRegistry()
	reg.Add(&adminModule{users: d.Users, stats: d.Stats})
	reg.MountAdmin(admin)

	return r
}
