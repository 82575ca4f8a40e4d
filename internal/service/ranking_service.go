package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"Park_Helper/internal/repository/mysql"
	"Park_Helper/internal/repository/redis"
)

// RankingEntry 排行榜原始输入：成员 + 本月完成数
type RankingEntry struct {
	MemberID  uint64 `json:"member_id"`
	Name      string `json:"name"`
	Completed int    `json:"completed"`
}

// RankedEntry 算好名次后的条目
type RankedEntry struct {
	RankingEntry
	ActualRank int    `json:"actual_rank"`
	HasTie     bool   `json:"has_tie"`
	Label      string `json:"label"`
}

// RankGroup 同名次合并后的展示组
type RankGroup struct {
	ActualRank int      `json:"actual_rank"`
	Completed  int      `json:"completed"`
	Names      []string `json:"names"`
}

// Aggregate 稠密并列排名：名次 = 比自己分高的人数 + 1。
// 两人并列第1时没有第2名，下一档直接是第3名。
// 纯函数，给定输入必定得到同样输出，不碰网络
func Aggregate(entries []RankingEntry) []RankedEntry {
	out := make([]RankedEntry, 0, len(entries))
	for _, e := range entries {
		higher := 0
		same := 0
		for _, x := range entries {
			if x.Completed > e.Completed {
				higher++
			}
			if x.Completed == e.Completed {
				same++
			}
		}
		rank := higher + 1
		tie := same > 1
		label := fmt.Sprintf("第%d名", rank)
		if tie {
			label = fmt.Sprintf("并列第%d名", rank)
		}
		out = append(out, RankedEntry{
			RankingEntry: e,
			ActualRank:   rank,
			HasTie:       tie,
			Label:        label,
		})
	}
	return out
}

// TopGroups 汇总视图：同名次的人合成一组，只保留前maxRanks个不同名次。
// 四人并列第1就只有一组，仍然是第1名
func TopGroups(entries []RankingEntry, maxRanks int) []RankGroup {
	ranked := Aggregate(entries)
	byRank := make(map[int]*RankGroup)
	for _, r := range ranked {
		g, ok := byRank[r.ActualRank]
		if !ok {
			g = &RankGroup{ActualRank: r.ActualRank, Completed: r.Completed}
			byRank[r.ActualRank] = g
		}
		g.Names = append(g.Names, r.Name)
	}
	ranks := make([]int, 0, len(byRank))
	for rank := range byRank {
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)
	if maxRanks > 0 && len(ranks) > maxRanks {
		ranks = ranks[:maxRanks]
	}
	out := make([]RankGroup, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, *byRank[rank])
	}
	return out
}

type RankingService struct {
	repo  *mysql.RankingRepository
	cache *redis.RankingCacheRepository
}

func NewRankingService() *RankingService {
	return &RankingService{
		repo:  &mysql.RankingRepository{DB: mysql.DB},
		cache: redis.NewRankingCacheRepository(),
	}
}

// MonthToDate 本月完成数排行，先读缓存，miss回源MySQL再回填
func (s *RankingService) MonthToDate(ctx context.Context) ([]RankedEntry, error) {
	entries, err := s.monthEntries(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return Aggregate(entries), nil
}

// MonthTopGroups 首页横幅用的前N个名次
func (s *RankingService) MonthTopGroups(ctx context.Context, maxRanks int) ([]RankGroup, error) {
	entries, err := s.monthEntries(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return TopGroups(entries, maxRanks), nil
}

func (s *RankingService) monthEntries(ctx context.Context, now time.Time) ([]RankingEntry, error) {
	month := monthKey(now)
	if cached, ok, err := s.cache.Get(ctx, month); err == nil && ok {
		out := make([]RankingEntry, 0, len(cached))
		for _, c := range cached {
			out = append(out, RankingEntry{MemberID: c.MemberID, Name: c.Name, Completed: c.Completed})
		}
		return out, nil
	}

	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	rows, err := s.repo.MonthCompleted(ctx, from, now)
	if err != nil {
		return nil, err
	}
	out := make([]RankingEntry, 0, len(rows))
	cached := make([]redis.CachedEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, RankingEntry{MemberID: r.MemberID, Name: r.Name, Completed: r.Completed})
		cached = append(cached, redis.CachedEntry{MemberID: r.MemberID, Name: r.Name, Completed: r.Completed})
	}
	if err := s.cache.Set(ctx, month, cached); err != nil {
		log.Printf("rank cache set err: %v", err)
	}
	return out, nil
}
