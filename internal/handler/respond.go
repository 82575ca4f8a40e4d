package handler

import (
	"Park_Helper/internal/middleware"
	"Park_Helper/internal/pkg"

	"github.com/gin-gonic/gin"
)

// fail 统一错误出口：按分类映射状态码，文案用固定查表，不透传后端细节
func fail(c *gin.Context, err error) {
	kind := pkg.KindOf(err)
	c.JSON(pkg.HTTPStatus(kind), gin.H{"code": int(kind), "msg": pkg.Message(kind)})
}

// failMsg 批量结果里逐条用的固定文案
func failMsg(err error) string {
	return pkg.Message(pkg.KindOf(err))
}

func memberIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get(middleware.ContextMemberIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
