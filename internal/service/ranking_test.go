package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 并列第1时没有第2名，下一档是第3名
func TestAggregateDenseTieRank(t *testing.T) {
	entries := []RankingEntry{
		{MemberID: 1, Name: "A", Completed: 10},
		{MemberID: 2, Name: "B", Completed: 10},
		{MemberID: 3, Name: "C", Completed: 5},
	}
	ranked := Aggregate(entries)
	require.Len(t, ranked, 3)

	assert.Equal(t, 1, ranked[0].ActualRank)
	assert.True(t, ranked[0].HasTie)
	assert.Equal(t, 1, ranked[1].ActualRank)
	assert.True(t, ranked[1].HasTie)
	assert.Equal(t, 3, ranked[2].ActualRank) // 第2名被跳过
	assert.False(t, ranked[2].HasTie)

	assert.Equal(t, "并列第1名", ranked[0].Label)
	assert.Equal(t, "第3名", ranked[2].Label)
}

func TestAggregateNoTies(t *testing.T) {
	entries := []RankingEntry{
		{MemberID: 1, Name: "A", Completed: 3},
		{MemberID: 2, Name: "B", Completed: 7},
		{MemberID: 3, Name: "C", Completed: 1},
	}
	ranked := Aggregate(entries)
	assert.Equal(t, 2, ranked[0].ActualRank)
	assert.Equal(t, 1, ranked[1].ActualRank)
	assert.Equal(t, 3, ranked[2].ActualRank)
	for _, r := range ranked {
		assert.False(t, r.HasTie)
	}
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}

// 同名次合并成组，只保留前N个不同名次
func TestTopGroupsDistinctRanks(t *testing.T) {
	entries := []RankingEntry{
		{MemberID: 1, Name: "A", Completed: 10},
		{MemberID: 2, Name: "B", Completed: 10},
		{MemberID: 3, Name: "C", Completed: 8},
		{MemberID: 4, Name: "D", Completed: 5},
	}

	// 前2个名次：并列第1的A、B一组，第3名的C一组，D被排除
	groups := TopGroups(entries, 2)
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[0].ActualRank)
	assert.ElementsMatch(t, []string{"A", "B"}, groups[0].Names)
	assert.Equal(t, 3, groups[1].ActualRank)
	assert.Equal(t, []string{"C"}, groups[1].Names)

	// 前3个名次时D的组才出现
	groups = TopGroups(entries, 3)
	require.Len(t, groups, 3)
	assert.Equal(t, 4, groups[2].ActualRank)
	assert.Equal(t, []string{"D"}, groups[2].Names)
}

// 四人并列第1只产生一组，没有第2、第3名的组
func TestTopGroupsAllTied(t *testing.T) {
	entries := []RankingEntry{
		{MemberID: 1, Name: "A", Completed: 6},
		{MemberID: 2, Name: "B", Completed: 6},
		{MemberID: 3, Name: "C", Completed: 6},
		{MemberID: 4, Name: "D", Completed: 6},
	}
	groups := TopGroups(entries, 3)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].ActualRank)
	assert.Len(t, groups[0].Names, 4)
}
