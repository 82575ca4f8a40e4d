package model

import (
	"sort"
	"time"

	"Park_Helper/internal/pkg"
)

// TxKind 帮忙请求/帮忙提供，结构完全一致只是方向相反
type TxKind string

const (
	KindRequest TxKind = "request"
	KindOffer   TxKind = "offer"
)

// 一次建单最多捆绑的单元数，同时也是单次认领的上限
const MaxUnitsPerTx = 3

// ParseTxKind 校验方向
func ParseTxKind(v string) (TxKind, error) {
	switch TxKind(v) {
	case KindRequest, KindOffer:
		return TxKind(v), nil
	}
	return "", pkg.E(pkg.KindBadRequest, "parse tx kind")
}

type HelpTransaction struct {
	ID         uint64 `gorm:"primaryKey" json:"id"`
	Kind       TxKind `gorm:"size:16;not null;index" json:"kind"`
	OwnerID    uint64 `gorm:"not null;index" json:"owner_id"`
	TotalCount int    `gorm:"not null" json:"total_count"`
	// 展示缓存，真值永远从units重算，见RecomputeApplied
	AppliedCount int       `gorm:"not null;default:0" json:"applied_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`

	Units []HelpUnit `gorm:"foreignKey:TransactionID" json:"units"`
}

func (HelpTransaction) TableName() string { return "help_transactions" }

type HelpUnit struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	TransactionID uint64     `gorm:"not null;index" json:"transaction_id"`
	Status        UnitStatus `gorm:"size:16;not null;default:'waiting'" json:"status"`
	// 认领方：请求单上是帮忙的人，提供单上是被帮的人。waiting时必须为空
	CounterpartyID *uint64     `gorm:"index" json:"counterparty_id"`
	ServiceType    ServiceType `gorm:"size:16;not null;default:'none'" json:"service_type"`
	AppliedAt      *time.Time  `json:"applied_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"-"`
}

func (HelpUnit) TableName() string { return "help_units" }

// NewHelpTransaction 建单：1~3个单元，全部waiting
func NewHelpTransaction(kind TxKind, ownerID uint64, count int) (*HelpTransaction, error) {
	if ownerID == 0 {
		return nil, pkg.E(pkg.KindBadRequest, "new help tx: owner required")
	}
	if count < 1 || count > MaxUnitsPerTx {
		return nil, pkg.E(pkg.KindBadRequest, "new help tx: count out of range")
	}
	tx := &HelpTransaction{Kind: kind, OwnerID: ownerID, TotalCount: count}
	for i := 0; i < count; i++ {
		tx.Units = append(tx.Units, HelpUnit{Status: StatusWaiting, ServiceType: ServiceNone})
	}
	return tx, nil
}

// RecomputeApplied 以units为准重算完成数。
// 网络层带来的applied_count一律不信，读到就丢弃重算
func (t *HelpTransaction) RecomputeApplied() {
	n := 0
	for i := range t.Units {
		if t.Units[i].Status == StatusCompleted {
			n++
		}
	}
	t.AppliedCount = n
}

// RemainingCount 还可以被认领的额度
func (t *HelpTransaction) RemainingCount() int {
	return t.TotalCount - t.AppliedCount
}

// UnitsByStatus 按状态过滤的视图
func (t *HelpTransaction) UnitsByStatus(s UnitStatus) []HelpUnit {
	var out []HelpUnit
	for i := range t.Units {
		if t.Units[i].Status == s {
			out = append(out, t.Units[i])
		}
	}
	return out
}

// SortUnitsForDisplay 展示排序：状态序优先，同状态保持创建顺序（稳定排序）
func (t *HelpTransaction) SortUnitsForDisplay() {
	sort.SliceStable(t.Units, func(i, j int) bool {
		return t.Units[i].Status.Rank() < t.Units[j].Status.Rank()
	})
}

// ClaimCap 单次认领上限 min(remaining, 3)
func (t *HelpTransaction) ClaimCap() int {
	if r := t.RemainingCount(); r < MaxUnitsPerTx {
		return r
	}
	return MaxUnitsPerTx
}

// SelectClaimable 取最早的n个waiting单元，按创建顺序。
// 额度不够时整体拒绝，不做部分认领
func (t *HelpTransaction) SelectClaimable(claimantID uint64, n int) ([]*HelpUnit, error) {
	if claimantID == t.OwnerID {
		return nil, pkg.E(pkg.KindForbidden, "claim: cannot claim own transaction")
	}
	if n < 1 || n > t.ClaimCap() {
		return nil, pkg.E(pkg.KindBadRequest, "claim: desired count out of range")
	}
	var picked []*HelpUnit
	for i := range t.Units {
		if t.Units[i].Status == StatusWaiting {
			picked = append(picked, &t.Units[i])
			if len(picked) == n {
				return picked, nil
			}
		}
	}
	// waiting不足说明别人抢先了
	return nil, pkg.E(pkg.KindAlreadyReserved, "claim: not enough waiting units")
}

// DeletableBy 仅所有者且完全未被认领时可删
func (t *HelpTransaction) DeletableBy(memberID uint64) error {
	if memberID != t.OwnerID {
		return pkg.E(pkg.KindForbidden, "delete: not owner")
	}
	for i := range t.Units {
		if t.Units[i].Status != StatusWaiting || t.Units[i].CounterpartyID != nil {
			return pkg.E(pkg.KindAlreadyReserved, "delete: unit already claimed")
		}
	}
	return nil
}

// Claim waiting -> check，写入认领方
func (u *HelpUnit) Claim(claimantID uint64) error {
	if !CanTransition(u.Status, StatusCheck) {
		return pkg.E(pkg.KindAlreadyReserved, "unit claim: illegal transition")
	}
	u.Status = StatusCheck
	u.CounterpartyID = &claimantID
	return nil
}

// CancelClaim check -> waiting，只有当前认领方可以取消，清空认领方和标签
func (u *HelpUnit) CancelClaim(callerID uint64) error {
	if u.CounterpartyID == nil || *u.CounterpartyID != callerID {
		return pkg.E(pkg.KindForbidden, "unit cancel: not counterparty")
	}
	if !CanTransition(u.Status, StatusWaiting) {
		return pkg.E(pkg.KindAlreadyReserved, "unit cancel: illegal transition")
	}
	u.Status = StatusWaiting
	u.CounterpartyID = nil
	u.ServiceType = ServiceNone
	u.AppliedAt = nil
	return nil
}

// Complete check -> completed，终态，必须带上cafe/restaurant标签
func (u *HelpUnit) Complete(callerID uint64, st ServiceType, now time.Time) error {
	if u.CounterpartyID == nil || *u.CounterpartyID != callerID {
		return pkg.E(pkg.KindForbidden, "unit complete: not counterparty")
	}
	if st != ServiceCafe && st != ServiceRestaurant {
		return pkg.E(pkg.KindBadRequest, "unit complete: service type required")
	}
	if !CanTransition(u.Status, StatusCompleted) {
		return pkg.E(pkg.KindAlreadyReserved, "unit complete: illegal transition")
	}
	u.Status = StatusCompleted
	u.ServiceType = st
	u.AppliedAt = &now
	return nil
}
