package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"silent-library/internal/domain"
	"silent-library/internal/service"
	httpez "silent-library/internal/transport/http/ez"
	mdw "silent-library/internal/transport/http/middleware"
)

// 员工后台接口集中在这里注册。分组已走 AuthJWT("staff")，
// 服务层还会再做一次能力检查
type adminModule struct {
	users *service.UserService
	stats *service.StatsService
}

func (m *adminModule) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/dashboard 统计面板 ---
	httpez.RegisterAction[struct{}, *service.StaffDashboard](ez, httpez.Action[struct{}, *service.StaffDashboard]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.StaffDashboard, error) {
			d, err := m.stats.Dashboard(c.Request.Context(), mdw.Identity(c))
			if err != nil {
				if domain.IsForbidden(err) {
					return nil, httpez.Forbidden(err.Error())
				}
				return nil, httpez.Internal("load dashboard failed", err)
			}
			return d, nil
		},
	})

	// --- GET /admin/v1/users 用户列表 ---
	type listQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // 按 username/email 模糊搜
	}
	type row struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		IsStaff   bool      `json:"isStaff"`
		CreatedAt time.Time `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ez, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			us, total, err := m.users.List(c.Request.Context(), mdw.Identity(c), in.Offset, in.Limit, in.Q)
			if err != nil {
				if domain.IsForbidden(err) {
					return listOut{}, httpez.Forbidden(err.Error())
				}
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Username: u.Username, Email: u.Email,
					IsStaff: u.IsStaff, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- DELETE /admin/v1/users/:id 移除用户（档案、评价级联清掉） ---
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			if err := m.users.Remove(c.Request.Context(), mdw.Identity(c), id); err != nil {
				switch {
				case domain.IsNotFound(err):
					return nil, httpez.NotFound("user not found")
				case domain.IsForbidden(err):
					return nil, httpez.Forbidden(err.Error())
				}
				return nil, httpez.Internal("remove user failed", err)
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- POST /admin/v1/profiles/backfill 给老用户补档案，可重复执行 ---
	httpez.RegisterAction[struct{}, gin.H](ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/profiles/backfill",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			n, err := m.users.BackfillProfiles(c.Request.Context(), mdw.Identity(c))
			if err != nil {
				if domain.IsForbidden(err) {
					return nil, httpez.Forbidden(err.Error())
				}
				return nil, httpez.Internal("backfill failed", err)
			}
			return gin.H{"created": n}, nil
		},
	})
}
