package router

import (
	"github.com/gin-gonic/gin"

	"silent-library/internal/core/auth"
	"silent-library/internal/service"
	mdw "silent-library/internal/transport/http/middleware"
)

type profileModule struct {
	users *service.UserService
	jwter *auth.JWTer
}

func (m *profileModule) Priority() int { return 30 }

func (m *profileModule) MountAPI(g *gin.RouterGroup) {
	authed := mdw.AuthJWT(m.jwter, "")

	g.GET("/profile", authed, m.get)
	g.PUT("/profile", authed, m.update)
}

func (m *profileModule) get(c *gin.Context) {
	u, p, err := m.users.Account(c.Request.Context(), mdw.Identity(c))
	if err != nil {
		fail(c, err, "")
		return
	}
	ok(c, gin.H{"user": u, "profile": p})
}

func (m *profileModule) update(c *gin.Context) {
	var in service.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, badInput(err), "")
		return
	}
	u, p, err := m.users.UpdateProfile(c.Request.Context(), mdw.Identity(c), in)
	if err != nil {
		fail(c, err, "/profile")
		return
	}
	okNotice(c, gin.H{"user": u, "profile": p}, "Your profile has been updated successfully!")
}
