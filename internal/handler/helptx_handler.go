package handler

import (
	"net/http"
	"strconv"

	"Park_Helper/internal/pkg"
	"Park_Helper/internal/service"

	"github.com/gin-gonic/gin"
)

type HelpTxHandler struct {
	svc *service.HelpTxService
}

func NewHelpTxHandler(emailCfg pkg.SMTPConfig) *HelpTxHandler {
	return &HelpTxHandler{svc: service.NewHelpTxService(emailCfg)}
}

type createTxReq struct {
	Kind  string `json:"kind" binding:"required,oneof=request offer"`
	Count int    `json:"count" binding:"required,min=1,max=3"`
}

type claimReq struct {
	Count int `json:"count" binding:"required,min=1,max=3"`
}

type completeReq struct {
	ServiceType string `json:"service_type" binding:"required,oneof=cafe restaurant"`
}

// Create 建单
func (h *HelpTxHandler) Create(c *gin.Context) {
	var req createTxReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	t, err := h.svc.CreateTx(c.Request.Context(), memberIDFromCtx(c), req.Kind, req.Count)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Get 单子详情
func (h *HelpTxHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	t, err := h.svc.GetTx(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListMine 我发的单子 ?kind=request|offer
func (h *HelpTxHandler) ListMine(c *gin.Context) {
	kind := c.DefaultQuery("kind", "request")
	list, err := h.svc.ListMine(c.Request.Context(), memberIDFromCtx(c), kind)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// ListOpen 可认领的单子
func (h *HelpTxHandler) ListOpen(c *gin.Context) {
	kind := c.DefaultQuery("kind", "request")
	list, err := h.svc.ListOpen(c.Request.Context(), memberIDFromCtx(c), kind)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// ListClaimed 我认领过的单子
func (h *HelpTxHandler) ListClaimed(c *gin.Context) {
	list, err := h.svc.ListClaimed(c.Request.Context(), memberIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Claim 认领名额。409时前端提示“被抢了”并刷新，不自动重试
func (h *HelpTxHandler) Claim(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req claimReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	t, err := h.svc.Claim(c.Request.Context(), id, memberIDFromCtx(c), req.Count)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Cancel 退回名额
func (h *HelpTxHandler) Cancel(c *gin.Context) {
	unitID, _ := strconv.ParseUint(c.Param("unitId"), 10, 64)
	t, err := h.svc.CancelClaim(c.Request.Context(), unitID, memberIDFromCtx(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Complete 标记完成并选优惠标签
func (h *HelpTxHandler) Complete(c *gin.Context) {
	unitID, _ := strconv.ParseUint(c.Param("unitId"), 10, 64)
	var req completeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	t, err := h.svc.Complete(c.Request.Context(), unitID, memberIDFromCtx(c), req.ServiceType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete 删单
func (h *HelpTxHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.svc.Delete(c.Request.Context(), id, memberIDFromCtx(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
