package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HelpTxRepository struct {
	DB *gorm.DB
}

// Create 建单，单元随父记录一起写入
func (r *HelpTxRepository) Create(ctx context.Context, t *model.HelpTransaction) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return pkg.Wrap(pkg.KindInternal, "helptx create", err)
	}
	return nil
}

// FindByID 读取单子，applied_count一律丢弃重算
func (r *HelpTxRepository) FindByID(ctx context.Context, id uint64) (*model.HelpTransaction, error) {
	var t model.HelpTransaction
	err := r.DB.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.E(pkg.KindNotFound, "helptx find")
	}
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "helptx find", err)
	}
	t.RecomputeApplied()
	return &t, nil
}

// ListByOwner 我发的单子
func (r *HelpTxRepository) ListByOwner(ctx context.Context, ownerID uint64, kind model.TxKind) ([]model.HelpTransaction, error) {
	var list []model.HelpTransaction
	err := r.DB.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "helptx list by owner", err)
	}
	for i := range list {
		list[i].RecomputeApplied()
		list[i].SortUnitsForDisplay()
	}
	return list, nil
}

// ListOpen 还有额度的单子，自己发的不展示。
// 这里只是展示过滤，真正的拒绝在Claim里做，不依赖前端隐藏
func (r *HelpTxRepository) ListOpen(ctx context.Context, viewerID uint64, kind model.TxKind) ([]model.HelpTransaction, error) {
	var list []model.HelpTransaction
	err := r.DB.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("kind = ? AND owner_id <> ? AND applied_count < total_count", kind, viewerID).
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "helptx list open", err)
	}
	for i := range list {
		list[i].RecomputeApplied()
		list[i].SortUnitsForDisplay()
	}
	return list, nil
}

// ListByCounterparty 我认领过名额的单子
func (r *HelpTxRepository) ListByCounterparty(ctx context.Context, memberID uint64) ([]model.HelpTransaction, error) {
	var ids []uint64
	if err := r.DB.WithContext(ctx).Model(&model.HelpUnit{}).
		Distinct("transaction_id").
		Where("counterparty_id = ?", memberID).
		Pluck("transaction_id", &ids).Error; err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "helptx list by counterparty", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.HelpTransaction
	err := r.DB.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id IN ?", ids).
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, pkg.Wrap(pkg.KindInternal, "helptx list by counterparty", err)
	}
	for i := range list {
		list[i].RecomputeApplied()
		list[i].SortUnitsForDisplay()
	}
	return list, nil
}

// Claim 认领n个名额：锁父记录串行化竞争，额度不够整体失败，不做部分认领
func (r *HelpTxRepository) Claim(ctx context.Context, txID, claimantID uint64, desired int) (*model.HelpTransaction, error) {
	var result *model.HelpTransaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.HelpTransaction
		// select for update 避免两个客户端抢同一批名额
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, txID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.E(pkg.KindNotFound, "claim: tx not found")
			}
			return pkg.Wrap(pkg.KindInternal, "claim: lock tx", err)
		}
		if err := tx.Where("transaction_id = ?", txID).Order("id ASC").
			Find(&t.Units).Error; err != nil {
			return pkg.Wrap(pkg.KindInternal, "claim: load units", err)
		}
		t.RecomputeApplied()

		picked, err := t.SelectClaimable(claimantID, desired)
		if err != nil {
			return err
		}
		for _, u := range picked {
			if err := u.Claim(claimantID); err != nil {
				return err
			}
			// WHERE再带一次waiting，双保险
			res := tx.Model(&model.HelpUnit{}).
				Where("id = ? AND status = ?", u.ID, model.StatusWaiting).
				Updates(map[string]any{
					"status":          model.StatusCheck,
					"counterparty_id": claimantID,
				})
			if res.Error != nil {
				return pkg.Wrap(pkg.KindInternal, "claim: update unit", res.Error)
			}
			if res.RowsAffected == 0 {
				return pkg.E(pkg.KindAlreadyReserved, "claim: unit taken")
			}
		}
		if err := r.refreshApplied(tx, txID); err != nil {
			return err
		}
		if err := r.insertOutbox(tx, "claim", txID, 0, claimantID); err != nil {
			return err
		}
		result = &t
		return nil
	})
	return result, err
}

// CancelClaim 认领方主动退回：check -> waiting，清空认领方和标签
func (r *HelpTxRepository) CancelClaim(ctx context.Context, unitID, callerID uint64) (*model.HelpTransaction, error) {
	return r.mutateUnit(ctx, unitID, "cancel", callerID, func(u *model.HelpUnit) error {
		return u.CancelClaim(callerID)
	})
}

// Complete 认领方标记完成：check -> completed，终态
func (r *HelpTxRepository) Complete(ctx context.Context, unitID, callerID uint64, st model.ServiceType) (*model.HelpTransaction, error) {
	return r.mutateUnit(ctx, unitID, "complete", callerID, func(u *model.HelpUnit) error {
		return u.Complete(callerID, st, time.Now())
	})
}

// mutateUnit 单元级变更的公共骨架。
// 先锁父记录再锁单元，和Claim保持同样的加锁顺序，避免死锁
func (r *HelpTxRepository) mutateUnit(ctx context.Context, unitID uint64, event string, actorID uint64, apply func(*model.HelpUnit) error) (*model.HelpTransaction, error) {
	var result *model.HelpTransaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var probe model.HelpUnit
		if err := tx.First(&probe, unitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.E(pkg.KindNotFound, "unit mutate: not found")
			}
			return pkg.Wrap(pkg.KindInternal, "unit mutate: probe", err)
		}

		var t model.HelpTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, probe.TransactionID).Error; err != nil {
			return pkg.Wrap(pkg.KindInternal, "unit mutate: lock tx", err)
		}

		// 父记录锁住后重读单元，拿到的才是当前真实状态
		var u model.HelpUnit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&u, unitID).Error; err != nil {
			return pkg.Wrap(pkg.KindInternal, "unit mutate: lock unit", err)
		}

		if err := apply(&u); err != nil {
			return err
		}

		res := tx.Model(&model.HelpUnit{}).Where("id = ?", u.ID).
			Updates(map[string]any{
				"status":          u.Status,
				"counterparty_id": u.CounterpartyID,
				"service_type":    u.ServiceType,
				"applied_at":      u.AppliedAt,
			})
		if res.Error != nil {
			return pkg.Wrap(pkg.KindInternal, "unit mutate: update", res.Error)
		}
		if err := r.refreshApplied(tx, t.ID); err != nil {
			return err
		}
		if err := r.insertOutbox(tx, event, t.ID, u.ID, actorID); err != nil {
			return err
		}

		if err := tx.Where("transaction_id = ?", t.ID).Order("id ASC").
			Find(&t.Units).Error; err != nil {
			return pkg.Wrap(pkg.KindInternal, "unit mutate: reload units", err)
		}
		t.RecomputeApplied()
		result = &t
		return nil
	})
	return result, err
}

// Delete 仅所有者且全部waiting时可删，有人认领过就拒绝
func (r *HelpTxRepository) Delete(ctx context.Context, txID, ownerID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.HelpTransaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&t, txID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkg.E(pkg.KindNotFound, "delete: tx not found")
			}
			return pkg.Wrap(pkg.KindInternal, "delete: lock tx", err)
		}
		if err := tx.Where("transaction_id = ?", txID).
			Find(&t.Units).Error; err != nil {
			return pkg.Wrap(pkg.KindInternal, "delete: load units", err)
		}
		if err := t.DeletableBy(ownerID); err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", txID).
			Delete(&model.HelpUnit{}).Error; err != nil {
			return pkg.Wrap(pkg.KindInternal, "delete: units", err)
		}
		if err := tx.Delete(&model.HelpTransaction{}, txID).Error; err != nil {
			return pkg.Wrap(pkg.KindInternal, "delete: tx", err)
		}
		return r.insertOutbox(tx, "delete", txID, 0, ownerID)
	})
}

// refreshApplied 把展示缓存列刷成units的真值
func (r *HelpTxRepository) refreshApplied(tx *gorm.DB, txID uint64) error {
	var n int64
	if err := tx.Model(&model.HelpUnit{}).
		Where("transaction_id = ? AND status = ?", txID, model.StatusCompleted).
		Count(&n).Error; err != nil {
		return pkg.Wrap(pkg.KindInternal, "refresh applied: count", err)
	}
	if err := tx.Model(&model.HelpTransaction{}).Where("id = ?", txID).
		UpdateColumn("applied_count", n).Error; err != nil {
		return pkg.Wrap(pkg.KindInternal, "refresh applied: update", err)
	}
	return nil
}

// 事件和业务同事务落表，由relayer异步投kafka
func (r *HelpTxRepository) insertOutbox(tx *gorm.DB, event string, txID, unitID, actorID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time":     time.Now().UTC().Format(time.RFC3339Nano),
		"transaction_id": txID,
		"unit_id":        unitID,
		"actor":          actorID,
	})
	ob := &model.HelpOutbox{
		EventType:     event,
		TransactionID: txID,
		UnitID:        unitID,
		ActorID:       actorID,
		Payload:       string(payload),
		Status:        0,
	}
	if err := tx.Create(ob).Error; err != nil {
		return pkg.Wrap(pkg.KindInternal, "outbox insert", err)
	}
	return nil
}
