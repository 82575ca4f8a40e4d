package model

import "time"

// HelpOutbox 帮忙事件监控表，和业务写在同一个事务里，由relayer异步投递kafka
type HelpOutbox struct {
	ID            uint64 `gorm:"primaryKey"`
	EventType     string `gorm:"size:16;not null"` // claim / cancel / complete / delete
	TransactionID uint64 `gorm:"not null"`
	UnitID        uint64 `gorm:"not null;default:0"` // delete事件没有单元，填0
	ActorID       uint64 `gorm:"not null"`
	Payload       string `gorm:"type:json;not null"`
	Status        int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry         int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (HelpOutbox) TableName() string { return "help_outbox" }
