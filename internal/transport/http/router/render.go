package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"silent-library/internal/domain"
	"silent-library/internal/service"
	resp "silent-library/internal/transport/http/response"
)

// fail 把领域错误映射到统一响应。
// 鉴权失败带提示跳 safeView；重复评价带警告跳已有评价的编辑页
func fail(c *gin.Context, err error, safeView string) {
	if ce, ok := domain.AsConflict(err); ok {
		c.JSON(http.StatusOK, resp.
			New(resp.CodeConflict, ce.Msg, gin.H{"reviewId": ce.ReviewID}).
			WithNotice(resp.NoticeWarning, "You have already reviewed this book. You can edit your existing review.").
			WithRedirect("/reviews/"+ce.ReviewID+"/edit"))
		return
	}
	switch {
	case domain.IsNotFound(err):
		c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, err.Error()))
	case domain.IsValidation(err):
		c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
	case domain.IsForbidden(err):
		c.JSON(http.StatusOK, resp.
			Error(resp.CodeForbidden, err.Error()).
			WithNotice(resp.NoticeError, err.Error()).
			WithRedirect(safeView))
	case errors.Is(err, service.ErrBadCredentials):
		c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, err.Error()))
	default:
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
	}
}

// badInput 绑定失败归入校验错误
func badInput(err error) error {
	return &domain.ValidationError{Field: "body", Msg: err.Error()}
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, resp.OK(data))
}

func okNotice(c *gin.Context, data any, text string) {
	c.JSON(http.StatusOK, resp.OK(data).WithNotice(resp.NoticeSuccess, text))
}
