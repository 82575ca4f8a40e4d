package handler

import (
	"net/http"

	"Park_Helper/internal/service"

	"github.com/gin-gonic/gin"
)

type BatchHandler struct {
	svc *service.BatchService
}

func NewBatchHandler() *BatchHandler {
	return &BatchHandler{svc: service.NewBatchService()}
}

type batchReq struct {
	Items []service.BatchItem `json:"items" binding:"required,min=1"`
}

// batchResp 逐条结果，失败条带上固定文案
type batchItemResp struct {
	UnitID uint64 `json:"unit_id"`
	OK     bool   `json:"ok"`
	Msg    string `json:"msg,omitempty"`
}

func toResp(report *service.BatchReport) gin.H {
	items := make([]batchItemResp, 0, len(report.Results))
	for _, r := range report.Results {
		item := batchItemResp{UnitID: r.UnitID, OK: r.Err == nil}
		if r.Err != nil {
			item.Msg = failMsg(r.Err)
		}
		items = append(items, item)
	}
	return gin.H{
		"total":     report.Total,
		"succeeded": report.Succeeded,
		"items":     items,
	}
}

// Complete 批量完成：允许部分成功，逐条报告
func (h *BatchHandler) Complete(c *gin.Context) {
	var req batchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	report, err := h.svc.CompleteBatch(c.Request.Context(), memberIDFromCtx(c), req.Items)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResp(report))
}

// Cancel 批量退回：整批先验，一条无权就全部拒绝
func (h *BatchHandler) Cancel(c *gin.Context) {
	var req batchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	report, err := h.svc.CancelBatch(c.Request.Context(), memberIDFromCtx(c), req.Items)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResp(report))
}
