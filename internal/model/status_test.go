package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnitStatusClosed(t *testing.T) {
	for _, v := range []string{"waiting", "check", "completed"} {
		s, err := ParseUnitStatus(v)
		require.NoError(t, err)
		assert.Equal(t, v, string(s))
	}
	// 未知状态必须报错，不能默认成waiting
	_, err := ParseUnitStatus("pending")
	assert.Error(t, err)
	_, err = ParseUnitStatus("")
	assert.Error(t, err)
}

func TestStatusRankOrder(t *testing.T) {
	assert.Less(t, StatusWaiting.Rank(), StatusCheck.Rank())
	assert.Less(t, StatusCheck.Rank(), StatusCompleted.Rank())
	assert.Equal(t, -1, UnitStatus("bogus").Rank())
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, CanTransition(StatusWaiting, StatusCheck))
	assert.True(t, CanTransition(StatusCheck, StatusWaiting))
	assert.True(t, CanTransition(StatusCheck, StatusCompleted))

	assert.False(t, CanTransition(StatusWaiting, StatusCompleted))
	assert.False(t, CanTransition(StatusCompleted, StatusCheck))
	assert.False(t, CanTransition(StatusCompleted, StatusWaiting))
	assert.False(t, CanTransition(StatusWaiting, StatusWaiting))
}

func TestParseServiceType(t *testing.T) {
	_, err := ParseServiceType("cafe")
	assert.NoError(t, err)
	_, err = ParseServiceType("bar")
	assert.Error(t, err)
}
