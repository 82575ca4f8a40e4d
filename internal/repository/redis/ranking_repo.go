package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RankMonthKeyPrefix = "rank:month" // 按月滚动的完成数排行榜
	RankCacheTTL       = 10 * time.Minute
)

// RankingCacheRepository 月度排行榜ZSET缓存。
// 写路径只做失效，完成动作成功后删key，读侧回源重建
type RankingCacheRepository struct {
	ttl time.Duration
}

func NewRankingCacheRepository() *RankingCacheRepository {
	return &RankingCacheRepository{ttl: RankCacheTTL}
}

// CachedEntry 缓存里的一行：成员、姓名、完成数
type CachedEntry struct {
	MemberID  uint64
	Name      string
	Completed int
}

func (r *RankingCacheRepository) monthKey(month string) string {
	return fmt.Sprintf("%s:%s", RankMonthKeyPrefix, month)
}

// Get 读缓存，miss时ok=false交给调用方回源
func (r *RankingCacheRepository) Get(ctx context.Context, month string) ([]CachedEntry, bool, error) {
	key := r.monthKey(month)
	zs, err := Client.ZRevRangeWithScores(ctx, key, 0, -1).Result()
	if errors.Is(err, redis.Nil) || len(zs) == 0 {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	out := make([]CachedEntry, 0, len(zs))
	for _, z := range zs {
		s, _ := z.Member.(string)
		// member编码为 "<id>:<name>"
		idStr, name, ok := strings.Cut(s, ":")
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, CachedEntry{MemberID: id, Name: name, Completed: int(z.Score)})
	}
	return out, true, nil
}

// Set 回源后整体回填
func (r *RankingCacheRepository) Set(ctx context.Context, month string, entries []CachedEntry) error {
	key := r.monthKey(month)
	zs := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		zs = append(zs, redis.Z{
			Score:  float64(e.Completed),
			Member: fmt.Sprintf("%d:%s", e.MemberID, e.Name),
		})
	}
	if len(zs) == 0 {
		return nil
	}
	pipe := Client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.ZAdd(ctx, key, zs...)
	pipe.Expire(ctx, key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate 完成动作成功后同步失效，下一次读回源重算
func (r *RankingCacheRepository) Invalidate(ctx context.Context, month string) error {
	err := Client.Del(ctx, r.monthKey(month)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
