package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	MemberTokenPrefix = "login:member:token"
	MemberTokenExpire = 60 * 30
)

// MemberRepository 登录态token存储，单会话：新登录顶掉旧token
type MemberRepository struct{}

func (r *MemberRepository) AddMemberToken(memberID uint64, token string) error {
	key := fmt.Sprintf("%s:%d", MemberTokenPrefix, memberID)
	if err := Client.Set(context.Background(), key, token, time.Second*MemberTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *MemberRepository) GetMemberToken(memberID uint64) (string, error) {
	key := fmt.Sprintf("%s:%d", MemberTokenPrefix, memberID)
	token, err := Client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *MemberRepository) ExtendMemberToken(memberID uint64) error {
	key := fmt.Sprintf("%s:%d", MemberTokenPrefix, memberID)
	_, err := Client.Expire(context.Background(), key, time.Second*MemberTokenExpire).Result()
	if err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *MemberRepository) DeleteMemberToken(memberID uint64) error {
	key := fmt.Sprintf("%s:%d", MemberTokenPrefix, memberID)
	err := Client.Del(context.Background(), key).Err()
	if err != nil {
		return ErrTokenDeleted
	}
	return nil
}
