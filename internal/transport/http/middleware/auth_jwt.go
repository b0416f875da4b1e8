package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"silent-library/internal/core/auth"
	"silent-library/internal/domain"
	resp "silent-library/internal/transport/http/response"
)

const (
	KeyUserID   = "userId"
	KeyRole     = "role"
	KeyIdentity = "identity"
)

// AuthJWT Bearer 鉴权；requireRole 非空时还要求对应角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, j)
		if !ok {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing or invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalJWT 有合法 token 就带上身份，没有照常放行（公开页展示“我的评价”用）
func OptionalJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, j); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, j *auth.JWTer) (*auth.Claims, bool) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return nil, false
	}
	claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyUserID, claims.UID)
	c.Set(KeyRole, claims.Role)
	c.Set(KeyIdentity, domain.Identity{UserID: claims.UID, IsStaff: claims.Role == auth.RoleStaff})
}

// Identity 取请求方身份；未登录返回 Anonymous
func Identity(c *gin.Context) domain.Identity {
	if v, ok := c.Get(KeyIdentity); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.Anonymous
}
