package model

import "time"

type Member struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Name      string    `gorm:"size:32;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:64;not null" json:"email"`
	CarNumber string    `gorm:"size:16" json:"car_number"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
