package router

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"silent-library/internal/core/auth"
	"silent-library/internal/service"
	mdw "silent-library/internal/transport/http/middleware"
)

// 图书目录：浏览/搜索公开，增删改仅员工（服务层把关）
type booksModule struct {
	catalog *service.CatalogService
	stats   *service.StatsService
	jwter   *auth.JWTer
}

func (m *booksModule) Priority() int { return 10 }

func (m *booksModule) MountAPI(g *gin.RouterGroup) {
	authed := mdw.AuthJWT(m.jwter, "")
	optional := mdw.OptionalJWT(m.jwter)

	g.GET("/books", m.list)
	g.GET("/books/:id", optional, m.detail)
	g.GET("/search", m.search)
	g.GET("/stats", m.catalogStats)

	g.POST("/books", authed, m.create)
	g.PUT("/books/:id", authed, m.update)
	g.DELETE("/books/:id", authed, m.delete)
}

func (m *booksModule) list(c *gin.Context) {
	books, err := m.catalog.List(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	ok(c, gin.H{"books": books, "total": len(books)})
}

func (m *booksModule) detail(c *gin.Context) {
	d, err := m.catalog.Detail(c.Request.Context(), mdw.Identity(c), c.Param("id"))
	if err != nil {
		fail(c, err, "/books")
		return
	}
	ok(c, d)
}

func (m *booksModule) search(c *gin.Context) {
	query := c.Query("q")
	scope := c.DefaultQuery("type", "all")
	books, err := m.catalog.Search(c.Request.Context(), query, scope)
	if err != nil {
		fail(c, err, "")
		return
	}
	ok(c, gin.H{"books": books, "total": len(books), "query": query, "type": scope})
}

func (m *booksModule) catalogStats(c *gin.Context) {
	s, err := m.stats.Catalog(c.Request.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	ok(c, s)
}

func (m *booksModule) create(c *gin.Context) {
	var in service.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, badInput(err), "")
		return
	}
	b, err := m.catalog.Create(c.Request.Context(), mdw.Identity(c), in)
	if err != nil {
		fail(c, err, "/books") // 非员工回目录页
		return
	}
	okNotice(c, b, fmt.Sprintf("Book %q was created successfully!", b.Title))
}

func (m *booksModule) update(c *gin.Context) {
	id := c.Param("id")
	var in service.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, badInput(err), "")
		return
	}
	b, err := m.catalog.Update(c.Request.Context(), mdw.Identity(c), id, in)
	if err != nil {
		fail(c, err, "/books/"+id)
		return
	}
	okNotice(c, b, fmt.Sprintf("Book %q was updated successfully!", b.Title))
}

func (m *booksModule) delete(c *gin.Context) {
	id := c.Param("id")
	if err := m.catalog.Delete(c.Request.Context(), mdw.Identity(c), id); err != nil {
		fail(c, err, "/books/"+id)
		return
	}
	okNotice(c, gin.H{"id": id}, "Book was deleted successfully!")
}
