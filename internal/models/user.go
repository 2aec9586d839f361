package models

import (
	"time"
)

// User represents an authenticated wallet in the system
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	WalletAddress string    `gorm:"uniqueIndex;not null" json:"wallet_address"`
	IsOperator    bool      `gorm:"default:false" json:"is_operator"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
