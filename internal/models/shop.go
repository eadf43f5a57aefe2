package models

import "time"

type Shop struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	Contact   string `gorm:"size:50"`
	Address   string `gorm:"size:255"`
	Active    bool   `gorm:"not null;default:true"` // soft delete flag, shops are never hard-deleted
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
