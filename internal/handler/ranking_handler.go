package handler

import (
	"net/http"
	"strconv"

	"Park_Helper/internal/service"

	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	svc *service.RankingService
}

func NewRankingHandler() *RankingHandler {
	return &RankingHandler{svc: service.NewRankingService()}
}

// Month 本月完成数排行（带并列名次）
func (h *RankingHandler) Month(c *gin.Context) {
	list, err := h.svc.MonthToDate(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Top 首页横幅：前N个不同名次，默认3
func (h *RankingHandler) Top(c *gin.Context) {
	maxRanks, _ := strconv.Atoi(c.DefaultQuery("ranks", "3"))
	groups, err := h.svc.MonthTopGroups(c.Request.Context(), maxRanks)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
