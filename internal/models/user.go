package models

import "time"

// User is a registered account. Email is unique and stored lowercased.
type User struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password string    `gorm:"not null" json:"-"`
	Avatar   string    `json:"avatar"`
	Date     time.Time `gorm:"autoCreateTime" json:"date"`
}
