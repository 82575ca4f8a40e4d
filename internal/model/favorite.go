package model

import "time"

// Favorite 单向收藏关系，(member_id, favorite_id) 唯一
type Favorite struct {
	ID         uint64 `gorm:"primaryKey"`
	MemberID   uint64 `gorm:"not null;index;uniqueIndex:uk_member_favorite"`
	FavoriteID uint64 `gorm:"not null;uniqueIndex:uk_member_favorite"`
	CreatedAt  time.Time
}

func (Favorite) TableName() string { return "favorites" }
