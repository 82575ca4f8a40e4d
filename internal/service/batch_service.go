package service

import (
	"context"
	"log"
	"sync"
	"time"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"
	"Park_Helper/internal/repository/mysql"
	"Park_Helper/internal/repository/redis"
)

// unitMutator 批量动作只需要这两个单元级操作，测试时可以换成假实现
type unitMutator interface {
	Complete(ctx context.Context, unitID, callerID uint64, st model.ServiceType) (*model.HelpTransaction, error)
	CancelClaim(ctx context.Context, unitID, callerID uint64) (*model.HelpTransaction, error)
}

// rankInvalidator 批量完成后整体失效一次排行榜
type rankInvalidator interface {
	Invalidate(ctx context.Context, month string) error
}

// BatchItem 一条批量动作：单元引用 + 所属单子方向 + 优惠标签
type BatchItem struct {
	UnitID      uint64            `json:"unit_id"`
	Kind        model.TxKind      `json:"kind"`
	ClaimantID  uint64            `json:"claimant_id"`
	ServiceType model.ServiceType `json:"service_type"`
}

// BatchResult 逐条结果，调用方按UnitID对上号
type BatchResult struct {
	UnitID uint64
	Err    error
}

// BatchReport K of N 的成败汇总
type BatchReport struct {
	Total     int
	Succeeded int
	Results   []BatchResult
}

type BatchService struct {
	mutator   unitMutator
	rankCache rankInvalidator
}

func NewBatchService() *BatchService {
	return &BatchService{
		mutator:   &mysql.HelpTxRepository{DB: mysql.DB},
		rankCache: redis.NewRankingCacheRepository(),
	}
}

// CompleteBatch 一次动作完成多个不同来源的单元，每条可以带不同的优惠标签。
// 先整体校验，再并发逐条提交；条与条之间互相独立，允许部分成功，
// 成功的不回滚，失败的逐条报告
func (s *BatchService) CompleteBatch(ctx context.Context, callerID uint64, items []BatchItem) (*BatchReport, error) {
	if callerID == 0 || len(items) == 0 {
		return nil, pkg.E(pkg.KindBadRequest, "batch complete: empty")
	}
	for _, it := range items {
		if it.UnitID == 0 {
			return nil, pkg.E(pkg.KindBadRequest, "batch complete: missing unit")
		}
		if _, err := model.ParseTxKind(string(it.Kind)); err != nil {
			return nil, err
		}
		if it.ServiceType != model.ServiceCafe && it.ServiceType != model.ServiceRestaurant {
			return nil, pkg.E(pkg.KindBadRequest, "batch complete: service type required")
		}
	}

	report := s.fanOut(ctx, items, func(ctx context.Context, it BatchItem) error {
		_, err := s.mutator.Complete(ctx, it.UnitID, callerID, it.ServiceType)
		return err
	})

	// 批次落定后统一失效一次，不管是不是全部成功
	if report.Succeeded > 0 {
		if err := s.rankCache.Invalidate(ctx, monthKey(time.Now())); err != nil {
			log.Printf("batch complete: rank invalidate err: %v", err)
		}
	}
	return report, nil
}

// CancelBatch 批量退回。任何一条无权取消就整批拒绝，一条变更请求都不发，
// 避免取消一半的混乱状态
func (s *BatchService) CancelBatch(ctx context.Context, callerID uint64, items []BatchItem) (*BatchReport, error) {
	if callerID == 0 || len(items) == 0 {
		return nil, pkg.E(pkg.KindBadRequest, "batch cancel: empty")
	}
	for _, it := range items {
		if it.UnitID == 0 {
			return nil, pkg.E(pkg.KindBadRequest, "batch cancel: missing unit")
		}
		if _, err := model.ParseTxKind(string(it.Kind)); err != nil {
			return nil, err
		}
		// 只能取消自己认领的名额，整批先验
		if it.ClaimantID != callerID {
			return nil, pkg.E(pkg.KindForbidden, "batch cancel: not claimant")
		}
	}

	return s.fanOut(ctx, items, func(ctx context.Context, it BatchItem) error {
		_, err := s.mutator.CancelClaim(ctx, it.UnitID, callerID)
		return err
	}), nil
}

// fanOut 并发发出每一条请求，条间无顺序保证，逐条收结果
func (s *BatchService) fanOut(ctx context.Context, items []BatchItem, do func(context.Context, BatchItem) error) *BatchReport {
	report := &BatchReport{
		Total:   len(items),
		Results: make([]BatchResult, len(items)),
	}
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			it := items[i]
			err := do(ctx, it)
			report.Results[i] = BatchResult{UnitID: it.UnitID, Err: err}
		}(i)
	}
	wg.Wait()
	for _, r := range report.Results {
		if r.Err == nil {
			report.Succeeded++
		}
	}
	return report
}
