package service

import (
	"context"
	"sync"
	"testing"

	"Park_Helper/internal/model"
	"Park_Helper/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMutator struct {
	mu        sync.Mutex
	failWith  map[uint64]error // 指定单元返回的错误
	completed []uint64
	canceled  []uint64
}

func (f *fakeMutator) Complete(ctx context.Context, unitID, callerID uint64, st model.ServiceType) (*model.HelpTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failWith[unitID]; ok {
		return nil, err
	}
	f.completed = append(f.completed, unitID)
	return &model.HelpTransaction{}, nil
}

func (f *fakeMutator) CancelClaim(ctx context.Context, unitID, callerID uint64) (*model.HelpTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failWith[unitID]; ok {
		return nil, err
	}
	f.canceled = append(f.canceled, unitID)
	return &model.HelpTransaction{}, nil
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, month string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func newTestBatchService(m *fakeMutator, inv *fakeInvalidator) *BatchService {
	return &BatchService{mutator: m, rankCache: inv}
}

// 3条里第2条被拒，报告1、3成功2失败，按UnitID能对上号
func TestCompleteBatchPartialFailure(t *testing.T) {
	m := &fakeMutator{failWith: map[uint64]error{
		22: pkg.E(pkg.KindAlreadyReserved, "taken"),
	}}
	inv := &fakeInvalidator{}
	s := newTestBatchService(m, inv)

	items := []BatchItem{
		{UnitID: 11, Kind: model.KindRequest, ClaimantID: 9, ServiceType: model.ServiceCafe},
		{UnitID: 22, Kind: model.KindOffer, ClaimantID: 9, ServiceType: model.ServiceRestaurant},
		{UnitID: 33, Kind: model.KindRequest, ClaimantID: 9, ServiceType: model.ServiceCafe},
	}
	report, err := s.CompleteBatch(context.Background(), 9, items)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)

	byUnit := map[uint64]error{}
	for _, r := range report.Results {
		byUnit[r.UnitID] = r.Err
	}
	assert.NoError(t, byUnit[11])
	require.Error(t, byUnit[22])
	assert.Equal(t, pkg.KindAlreadyReserved, pkg.KindOf(byUnit[22]))
	assert.NoError(t, byUnit[33])

	// 成功的不回滚
	assert.ElementsMatch(t, []uint64{11, 33}, m.completed)
	// 批次落定后失效一次排行榜
	assert.Equal(t, 1, inv.calls)
}

// 每条可以带不同的优惠标签
func TestCompleteBatchValidatesBeforeAnyCall(t *testing.T) {
	m := &fakeMutator{}
	s := newTestBatchService(m, &fakeInvalidator{})

	items := []BatchItem{
		{UnitID: 11, Kind: model.KindRequest, ServiceType: model.ServiceCafe},
		{UnitID: 22, Kind: model.KindRequest, ServiceType: model.ServiceNone}, // 非法
	}
	_, err := s.CompleteBatch(context.Background(), 9, items)
	require.Error(t, err)
	assert.Equal(t, pkg.KindBadRequest, pkg.KindOf(err))
	// 一条都没发出去
	assert.Empty(t, m.completed)
}

func TestCompleteBatchRejectsUnknownKind(t *testing.T) {
	m := &fakeMutator{}
	s := newTestBatchService(m, &fakeInvalidator{})
	items := []BatchItem{
		{UnitID: 11, Kind: model.TxKind("mystery"), ServiceType: model.ServiceCafe},
	}
	_, err := s.CompleteBatch(context.Background(), 9, items)
	require.Error(t, err)
	assert.Empty(t, m.completed)
}

// 批量退回：一条不是自己认领的，整批拒绝，零请求发出
func TestCancelBatchWholeRejection(t *testing.T) {
	m := &fakeMutator{}
	s := newTestBatchService(m, &fakeInvalidator{})

	items := []BatchItem{
		{UnitID: 11, Kind: model.KindRequest, ClaimantID: 9},
		{UnitID: 22, Kind: model.KindOffer, ClaimantID: 8}, // 别人认领的
	}
	_, err := s.CancelBatch(context.Background(), 9, items)
	require.Error(t, err)
	assert.Equal(t, pkg.KindForbidden, pkg.KindOf(err))
	assert.Empty(t, m.canceled)
}

func TestCancelBatchAllValid(t *testing.T) {
	m := &fakeMutator{}
	s := newTestBatchService(m, &fakeInvalidator{})

	items := []BatchItem{
		{UnitID: 11, Kind: model.KindRequest, ClaimantID: 9},
		{UnitID: 22, Kind: model.KindOffer, ClaimantID: 9},
	}
	report, err := s.CancelBatch(context.Background(), 9, items)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.ElementsMatch(t, []uint64{11, 22}, m.canceled)
}

func TestBatchEmptyRejected(t *testing.T) {
	s := newTestBatchService(&fakeMutator{}, &fakeInvalidator{})
	_, err := s.CompleteBatch(context.Background(), 9, nil)
	assert.Error(t, err)
	_, err = s.CancelBatch(context.Background(), 0, []BatchItem{{UnitID: 1}})
	assert.Error(t, err)
}
