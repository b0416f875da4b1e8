package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"silent-library/internal/core/auth"
	"silent-library/internal/domain"
	"silent-library/internal/service"
	httpez "silent-library/internal/transport/http/ez"
)

// 注册 / 登录 / 当前用户，用 Action 方式挂载
func mountAuthActions(api, authUser *gin.RouterGroup, users *service.UserService, jwter *auth.JWTer) {
	ezPublic := httpez.New(api)

	type authOut struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}

	httpez.RegisterAction[service.RegisterInput, authOut](ezPublic, httpez.Action[service.RegisterInput, authOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.RegisterInput) (authOut, error) {
			u, err := users.Register(c.Request.Context(), *in)
			if err != nil {
				if domain.IsValidation(err) {
					return authOut{}, httpez.BadRequest(err.Error())
				}
				return authOut{}, httpez.Internal("register failed", err)
			}
			tok, err := jwter.Issue(u.ID, auth.RoleOf(u.IsStaff))
			if err != nil || tok == "" {
				return authOut{}, httpez.Internal("issue token failed", err)
			}
			return authOut{Token: tok, User: u}, nil
		},
	})

	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	httpez.RegisterAction[loginIn, authOut](ezPublic, httpez.Action[loginIn, authOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (authOut, error) {
			u, err := users.Authenticate(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				if err == service.ErrBadCredentials {
					return authOut{}, httpez.Unauthorized(err.Error())
				}
				return authOut{}, httpez.Internal("login failed", err)
			}
			tok, err := jwter.Issue(u.ID, auth.RoleOf(u.IsStaff))
			if err != nil || tok == "" {
				return authOut{}, httpez.Internal("issue token failed", err)
			}
			return authOut{Token: tok, User: u}, nil
		},
	})

	// /me 必须挂鉴权分组，才能拿到 userId
	ezAuth := httpez.New(authUser)

	httpez.RegisterAction[struct{}, *domain.User](ezAuth, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			u, err := users.Get(c.Request.Context(), c.GetString("userId"))
			if err != nil {
				if domain.IsNotFound(err) {
					return nil, httpez.NotFound("user not found")
				}
				return nil, httpez.Internal("db error", err)
			}
			return u, nil
		},
	})
}
