package models

import "time"

// DailyProfit stores the output of the profit attribution calculator for one
// date. Create-or-update semantics keyed by Date.
type DailyProfit struct {
	ID   uint      `gorm:"primaryKey"`
	Date time.Time `gorm:"not null;uniqueIndex"`

	// Carve-outs: tickets acquired at 31 instead of the standard tier price.
	SpecialTickets31To34 int `gorm:"not null;default:0"`
	SpecialTickets31To35 int `gorm:"not null;default:0"`

	KumaraProfit  float64 `gorm:"not null;default:0"`
	ManagerProfit float64 `gorm:"not null;default:0"`
	TotalProfit   float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
