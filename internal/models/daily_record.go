package models

import "time"

// DailyRecord is the per (shop, date) reconciliation ledger row. It is filled
// in by a 6-step entry sequence; the two flags below are recomputed eagerly on
// every step so listing/reporting never re-derives the accounting.
type DailyRecord struct {
	ID     uint `gorm:"primaryKey"`
	ShopID uint `gorm:"not null;uniqueIndex:idx_daily_records_shop_date"`
	Shop   Shop
	Date   time.Time `gorm:"not null;uniqueIndex:idx_daily_records_shop_date"`

	// Step 1: inventory worth
	PricePerLottery float64 `gorm:"not null;default:0"`
	LotteryQuantity int     `gorm:"not null;default:0"`
	TotalWorth      float64 `gorm:"not null;default:0"` // price_per_lottery * lottery_quantity

	// Step 2: proceeds
	CashGiven            float64 `gorm:"not null;default:0"`
	GotTicketsTotalPrice float64 `gorm:"not null;default:0"`

	// Steps 3-5: per-price ticket counts
	NLB              TicketBreakdown `gorm:"type:jsonb;not null;default:'{}'"`
	NLBTotalPrice    float64         `gorm:"not null;default:0"`
	DLB              TicketBreakdown `gorm:"type:jsonb;not null;default:'{}'"`
	DLBTotalPrice    float64         `gorm:"not null;default:0"`
	Faulty           TicketBreakdown `gorm:"type:jsonb;not null;default:'{}'"`
	FaultyTotalPrice float64         `gorm:"not null;default:0"`

	// Step 6
	SpecialLotteriesNote string `gorm:"size:500"`

	// nlb_total + dlb_total == got_tickets_total_price (2 decimals)
	EqualityCheck bool `gorm:"not null;default:false"`
	// total_worth == faulty_total + cash_given + got_tickets_total_price (2 decimals)
	Balanced bool `gorm:"not null;default:false;index"`

	Step      int  `gorm:"not null;default:1"` // 1-6 progress marker
	Completed bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
