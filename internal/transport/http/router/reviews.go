package router

import (
	"github.com/gin-gonic/gin"

	"silent-library/internal/core/auth"
	"silent-library/internal/service"
	mdw "silent-library/internal/transport/http/middleware"
)

type reviewsModule struct {
	reviews *service.ReviewService
	jwter   *auth.JWTer
}

func (m *reviewsModule) Priority() int { return 20 }

func (m *reviewsModule) MountAPI(g *gin.RouterGroup) {
	authed := mdw.AuthJWT(m.jwter, "")

	g.POST("/books/:id/reviews", authed, m.submit)
	g.PUT("/reviews/:id", authed, m.edit)
	g.DELETE("/reviews/:id", authed, m.delete)
}

type reviewIn struct {
	Rating int    `json:"rating" binding:"required"`
	Text   string `json:"text"`
}

func (m *reviewsModule) submit(c *gin.Context) {
	bookID := c.Param("id")
	var in reviewIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, badInput(err), "")
		return
	}
	rv, err := m.reviews.Submit(c.Request.Context(), mdw.Identity(c), bookID, in.Rating, in.Text)
	if err != nil {
		// 重复评价在 fail 里转成“去编辑已有评价”的引导
		fail(c, err, "/books/"+bookID)
		return
	}
	okNotice(c, rv, "Your review has been added successfully!")
}

func (m *reviewsModule) edit(c *gin.Context) {
	var in reviewIn
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, badInput(err), "")
		return
	}
	rv, err := m.reviews.Edit(c.Request.Context(), mdw.Identity(c), c.Param("id"), in.Rating, in.Text)
	if err != nil {
		fail(c, err, "/books")
		return
	}
	okNotice(c, rv, "Your review has been updated successfully!")
}

func (m *reviewsModule) delete(c *gin.Context) {
	res, err := m.reviews.Delete(c.Request.Context(), mdw.Identity(c), c.Param("id"))
	if err != nil {
		fail(c, err, "/books")
		return
	}
	// 员工替别人删和本人删，提示语不同
	text := "Your review has been deleted successfully!"
	if res.Moderated {
		text = "Review has been deleted (staff action)."
	}
	okNotice(c, gin.H{"bookId": res.BookID, "moderated": res.Moderated}, text)
}
