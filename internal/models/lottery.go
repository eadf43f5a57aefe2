package models

import "time"

type LotteryBoard string

const (
	BoardNLB LotteryBoard = "nlb"
	BoardDLB LotteryBoard = "dlb"
)

type Lottery struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:100;not null;unique"`
	Board     LotteryBoard `gorm:"size:10;not null"` // "nlb" | "dlb"
	Active    bool         `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
