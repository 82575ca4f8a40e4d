package model

import (
	"testing"
	"time"

	"Park_Helper/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTx(t *testing.T, count int) *HelpTransaction {
	t.Helper()
	tx, err := NewHelpTransaction(KindRequest, 1, count)
	require.NoError(t, err)
	for i := range tx.Units {
		tx.Units[i].ID = uint64(i + 1)
	}
	return tx
}

func TestNewHelpTransactionBounds(t *testing.T) {
	_, err := NewHelpTransaction(KindRequest, 1, 0)
	assert.Error(t, err)
	_, err = NewHelpTransaction(KindRequest, 1, 4)
	assert.Error(t, err)
	_, err = NewHelpTransaction(KindRequest, 0, 2)
	assert.Error(t, err)

	tx, err := NewHelpTransaction(KindOffer, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, tx.TotalCount)
	assert.Len(t, tx.Units, 3)
	for _, u := range tx.Units {
		assert.Equal(t, StatusWaiting, u.Status)
		assert.Nil(t, u.CounterpartyID)
		assert.Equal(t, ServiceNone, u.ServiceType)
	}
}

// applied_count 永远等于completed单元数，任何操作序列之后都成立
func TestAppliedCountDerivedInvariant(t *testing.T) {
	tx := newTestTx(t, 3)
	now := time.Now()

	require.NoError(t, tx.Units[0].Claim(2))
	require.NoError(t, tx.Units[1].Claim(3))
	tx.RecomputeApplied()
	assert.Equal(t, 0, tx.AppliedCount)

	require.NoError(t, tx.Units[0].Complete(2, ServiceCafe, now))
	tx.RecomputeApplied()
	assert.Equal(t, 1, tx.AppliedCount)
	assert.Equal(t, 2, tx.RemainingCount())

	require.NoError(t, tx.Units[1].CancelClaim(3))
	tx.RecomputeApplied()
	assert.Equal(t, 1, tx.AppliedCount)

	// 网络层带来的脏值必须被重算覆盖
	tx.AppliedCount = 99
	tx.RecomputeApplied()
	assert.Equal(t, 1, tx.AppliedCount)
}

// 单主不能认领自己的单子
func TestNoSelfService(t *testing.T) {
	tx := newTestTx(t, 2)
	_, err := tx.SelectClaimable(tx.OwnerID, 1)
	require.Error(t, err)
	assert.Equal(t, pkg.KindForbidden, pkg.KindOf(err))
	for _, u := range tx.Units {
		assert.Nil(t, u.CounterpartyID)
	}
}

// completed是终态，任何出边都报错且不改状态
func TestCompletedIsTerminal(t *testing.T) {
	tx := newTestTx(t, 1)
	now := time.Now()
	u := &tx.Units[0]
	require.NoError(t, u.Claim(2))
	require.NoError(t, u.Complete(2, ServiceRestaurant, now))

	err := u.CancelClaim(2)
	require.Error(t, err)
	assert.Equal(t, pkg.KindAlreadyReserved, pkg.KindOf(err))

	err = u.Complete(2, ServiceCafe, now)
	require.Error(t, err)

	assert.Equal(t, StatusCompleted, u.Status)
	assert.Equal(t, ServiceRestaurant, u.ServiceType)
	require.NotNil(t, u.AppliedAt)

	assert.False(t, CanTransition(StatusCompleted, StatusWaiting))
	assert.False(t, CanTransition(StatusCompleted, StatusCheck))
}

// 不允许跳过check直接完成
func TestCannotSkipCheck(t *testing.T) {
	tx := newTestTx(t, 1)
	err := tx.Units[0].Complete(2, ServiceCafe, time.Now())
	require.Error(t, err)
	assert.Equal(t, StatusWaiting, tx.Units[0].Status)
	assert.False(t, CanTransition(StatusWaiting, StatusCompleted))
}

// 额度不够时整体拒绝，一个单元都不动
func TestClaimAllOrNothing(t *testing.T) {
	tx := newTestTx(t, 3)
	require.NoError(t, tx.Units[0].Claim(2))
	require.NoError(t, tx.Units[1].Claim(2))
	tx.RecomputeApplied()

	// 只剩1个waiting，要2个必须失败
	_, err := tx.SelectClaimable(3, 2)
	require.Error(t, err)
	assert.Equal(t, pkg.KindAlreadyReserved, pkg.KindOf(err))
	assert.Equal(t, StatusWaiting, tx.Units[2].Status)

	// 要1个可以，且拿到的是最早的waiting单元
	picked, err := tx.SelectClaimable(3, 1)
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, tx.Units[2].ID, picked[0].ID)
}

func TestClaimDesiredCountBounds(t *testing.T) {
	tx := newTestTx(t, 2)
	_, err := tx.SelectClaimable(3, 0)
	assert.Equal(t, pkg.KindBadRequest, pkg.KindOf(err))
	_, err = tx.SelectClaimable(3, 3) // 超过remaining
	assert.Equal(t, pkg.KindBadRequest, pkg.KindOf(err))
}

// 认领顺序：永远先拿最早创建的waiting单元
func TestClaimSelectionOrder(t *testing.T) {
	tx := newTestTx(t, 3)
	picked, err := tx.SelectClaimable(9, 2)
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, uint64(1), picked[0].ID)
	assert.Equal(t, uint64(2), picked[1].ID)
}

func TestCancelOnlyByCounterparty(t *testing.T) {
	tx := newTestTx(t, 1)
	u := &tx.Units[0]
	require.NoError(t, u.Claim(2))

	err := u.CancelClaim(5)
	require.Error(t, err)
	assert.Equal(t, pkg.KindForbidden, pkg.KindOf(err))
	assert.Equal(t, StatusCheck, u.Status)

	require.NoError(t, u.CancelClaim(2))
	assert.Equal(t, StatusWaiting, u.Status)
	assert.Nil(t, u.CounterpartyID)
	assert.Equal(t, ServiceNone, u.ServiceType)
	assert.Nil(t, u.AppliedAt)
}

func TestCompleteRequiresServiceType(t *testing.T) {
	tx := newTestTx(t, 1)
	u := &tx.Units[0]
	require.NoError(t, u.Claim(2))
	err := u.Complete(2, ServiceNone, time.Now())
	require.Error(t, err)
	assert.Equal(t, pkg.KindBadRequest, pkg.KindOf(err))
	assert.Equal(t, StatusCheck, u.Status)
}

func TestDeletableOnlyWhileUnclaimed(t *testing.T) {
	tx := newTestTx(t, 2)
	assert.Error(t, tx.DeletableBy(99)) // 非所有者
	require.NoError(t, tx.DeletableBy(tx.OwnerID))

	require.NoError(t, tx.Units[0].Claim(2))
	err := tx.DeletableBy(tx.OwnerID)
	require.Error(t, err)
	assert.Equal(t, pkg.KindAlreadyReserved, pkg.KindOf(err))
}

// 服务端乱序返回的单元，重算+稳定排序后状态一致且顺序确定
func TestDisplaySortRoundTrip(t *testing.T) {
	now := time.Now()
	cp := uint64(5)
	units := []HelpUnit{
		{ID: 3, Status: StatusCompleted, CounterpartyID: &cp, ServiceType: ServiceCafe, AppliedAt: &now},
		{ID: 1, Status: StatusWaiting, ServiceType: ServiceNone},
		{ID: 2, Status: StatusCheck, CounterpartyID: &cp, ServiceType: ServiceNone},
	}
	tx := &HelpTransaction{Kind: KindRequest, OwnerID: 1, TotalCount: 3, AppliedCount: 42, Units: units}
	tx.RecomputeApplied()
	assert.Equal(t, 1, tx.AppliedCount)

	tx.SortUnitsForDisplay()
	assert.Equal(t, []UnitStatus{StatusWaiting, StatusCheck, StatusCompleted},
		[]UnitStatus{tx.Units[0].Status, tx.Units[1].Status, tx.Units[2].Status})

	// 再排一次结果不变
	before := make([]uint64, len(tx.Units))
	for i, u := range tx.Units {
		before[i] = u.ID
	}
	tx.SortUnitsForDisplay()
	for i, u := range tx.Units {
		assert.Equal(t, before[i], u.ID)
	}
}

func TestUnitsByStatus(t *testing.T) {
	tx := newTestTx(t, 3)
	require.NoError(t, tx.Units[0].Claim(2))
	assert.Len(t, tx.UnitsByStatus(StatusWaiting), 2)
	assert.Len(t, tx.UnitsByStatus(StatusCheck), 1)
	assert.Len(t, tx.UnitsByStatus(StatusCompleted), 0)
}
