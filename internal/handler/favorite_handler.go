package handler

import (
	"net/http"

	"Park_Helper/internal/service"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	svc *service.FavoriteService
}

func NewFavoriteHandler() *FavoriteHandler {
	return &FavoriteHandler{svc: service.NewFavoriteService()}
}

type favoriteReplaceReq struct {
	MemberIDs []uint64 `json:"member_ids"`
}

// List 我的收藏
func (h *FavoriteHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), memberIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Replace 全量替换收藏集合
func (h *FavoriteHandler) Replace(c *gin.Context) {
	var req favoriteReplaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	added, removed, err := h.svc.Replace(c.Request.Context(), memberIDFromCtx(c), req.MemberIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "removed": removed})
}
