package service

import (
	"context"
	"log"
	"time"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"
	"Park_Helper/internal/repository/mysql"
	"Park_Helper/internal/repository/redis"
)

type HelpTxService struct {
	repo       *mysql.HelpTxRepository
	memberRepo *mysql.MemberRepository
	rankCache  *redis.RankingCacheRepository
	emailCfg   pkg.SMTPConfig
}

func NewHelpTxService(emailCfg pkg.SMTPConfig) *HelpTxService {
	return &HelpTxService{
		repo:       &mysql.HelpTxRepository{DB: mysql.DB},
		memberRepo: &mysql.MemberRepository{DB: mysql.DB},
		rankCache:  redis.NewRankingCacheRepository(),
		emailCfg:   emailCfg,
	}
}

// monthKey 排行榜按自然月滚动
func monthKey(t time.Time) string {
	return t.Format("200601")
}

// CreateTx 建单：kind区分请求帮忙/提供帮忙，1~3个名额
func (s *HelpTxService) CreateTx(ctx context.Context, ownerID uint64, kind string, count int) (*model.HelpTransaction, error) {
	k, err := model.ParseTxKind(kind)
	if err != nil {
		return nil, err
	}
	t, err := model.NewHelpTransaction(k, ownerID, count)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *HelpTxService) GetTx(ctx context.Context, id uint64) (*model.HelpTransaction, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.SortUnitsForDisplay()
	return t, nil
}

// ListMine 我发的单子
func (s *HelpTxService) ListMine(ctx context.Context, memberID uint64, kind string) ([]model.HelpTransaction, error) {
	k, err := model.ParseTxKind(kind)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, memberID, k)
}

// ListOpen 可认领的单子，满额的不展示（引擎侧仍会独立拒绝）
func (s *HelpTxService) ListOpen(ctx context.Context, viewerID uint64, kind string) ([]model.HelpTransaction, error) {
	k, err := model.ParseTxKind(kind)
	if err != nil {
		return nil, err
	}
	return s.repo.ListOpen(ctx, viewerID, k)
}

// ListClaimed 我认领过名额的单子
func (s *HelpTxService) ListClaimed(ctx context.Context, memberID uint64) ([]model.HelpTransaction, error) {
	return s.repo.ListByCounterparty(ctx, memberID)
}

// Claim 认领名额。竞争失败返回AlreadyReserved，调用方提示后刷新列表，不自动重试
func (s *HelpTxService) Claim(ctx context.Context, txID, claimantID uint64, desired int) (*model.HelpTransaction, error) {
	if txID == 0 || claimantID == 0 {
		return nil, pkg.E(pkg.KindBadRequest, "claim: invalid id")
	}
	t, err := s.repo.Claim(ctx, txID, claimantID, desired)
	if err != nil {
		return nil, err
	}
	s.notifyOwnerClaim(t.OwnerID, claimantID, desired)
	t.SortUnitsForDisplay()
	return t, nil
}

// CancelClaim 认领方退回名额
func (s *HelpTxService) CancelClaim(ctx context.Context, unitID, callerID uint64) (*model.HelpTransaction, error) {
	if unitID == 0 || callerID == 0 {
		return nil, pkg.E(pkg.KindBadRequest, "cancel: invalid id")
	}
	t, err := s.repo.CancelClaim(ctx, unitID, callerID)
	if err != nil {
		return nil, err
	}
	t.SortUnitsForDisplay()
	return t, nil
}

// Complete 标记完成。成功后必须先把排行榜缓存失效掉，这个操作才算结束
func (s *HelpTxService) Complete(ctx context.Context, unitID, callerID uint64, serviceType string) (*model.HelpTransaction, error) {
	if unitID == 0 || callerID == 0 {
		return nil, pkg.E(pkg.KindBadRequest, "complete: invalid id")
	}
	st, err := model.ParseServiceType(serviceType)
	if err != nil {
		return nil, pkg.E(pkg.KindBadRequest, "complete: bad service type")
	}
	t, err := s.repo.Complete(ctx, unitID, callerID, st)
	if err != nil {
		return nil, err
	}
	// 同步失效，读侧回源重建
	if err := s.rankCache.Invalidate(ctx, monthKey(time.Now())); err != nil {
		log.Printf("rank cache invalidate err: %v", err)
	}
	s.notifyOwnerComplete(t.OwnerID, callerID, st)
	t.SortUnitsForDisplay()
	return t, nil
}

// Delete 删单：只有完全没人认领过才允许
func (s *HelpTxService) Delete(ctx context.Context, txID, ownerID uint64) error {
	if txID == 0 || ownerID == 0 {
		return pkg.E(pkg.KindBadRequest, "delete: invalid id")
	}
	return s.repo.Delete(ctx, txID, ownerID)
}

// 通知邮件都是尽力而为：失败打日志，绝不阻塞也不影响主流程
func (s *HelpTxService) notifyOwnerClaim(ownerID, claimantID uint64, count int) {
	go func() {
		owner, err := s.memberRepo.FindByID(ownerID)
		if err != nil {
			log.Printf("claim notice: load owner err: %v", err)
			return
		}
		claimant, err := s.memberRepo.FindByID(claimantID)
		if err != nil {
			log.Printf("claim notice: load claimant err: %v", err)
			return
		}
		html := pkg.ClaimNoticeHTML(claimant.Name, count)
		if err := pkg.SendEmail(s.emailCfg, owner.Email, "帮忙名额被认领", html); err != nil {
			log.Printf("claim notice: send err: %v", err)
		}
	}()
}

func (s *HelpTxService) notifyOwnerComplete(ownerID, counterpartyID uint64, st model.ServiceType) {
	go func() {
		owner, err := s.memberRepo.FindByID(ownerID)
		if err != nil {
			log.Printf("complete notice: load owner err: %v", err)
			return
		}
		cp, err := s.memberRepo.FindByID(counterpartyID)
		if err != nil {
			log.Printf("complete notice: load counterparty err: %v", err)
			return
		}
		html := pkg.CompleteNoticeHTML(cp.Name, string(st))
		if err := pkg.SendEmail(s.emailCfg, owner.Email, "帮忙已完成", html); err != nil {
			log.Printf("complete notice: send err: %v", err)
		}
	}()
}
