package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Device struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Category    string  `gorm:"index"                    json:"category"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

// The unique index on (user_id, device_id) enforces the one-favorite-per-pair
// invariant at the database, not only in the handler's existence check.
type Favorite struct {
	ID       uint `gorm:"primaryKey;autoIncrement"             json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_device" json:"user_id"`
	DeviceID uint `gorm:"not null;uniqueIndex:idx_user_device" json:"device_id"`
}
