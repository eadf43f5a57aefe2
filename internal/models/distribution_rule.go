package models

import "time"

type DayType string

const (
	DayTypeWeekday  DayType = "weekday"
	DayTypeSaturday DayType = "saturday"
	DayTypeSunday   DayType = "sunday"
	DayTypeHoliday  DayType = "holiday"
)

// DistributionRule is the planned ticket quantity for a (shop, lottery) pair.
// Date-specific rows (Date non-nil) override general rows keyed by DayType.
// General rows may accumulate duplicates over time; the highest-ID row wins.
type DistributionRule struct {
	ID        uint `gorm:"primaryKey"`
	ShopID    uint `gorm:"not null;index;uniqueIndex:idx_distribution_rules_shop_lottery_date"`
	Shop      Shop
	LotteryID uint `gorm:"not null;uniqueIndex:idx_distribution_rules_shop_lottery_date"`
	Lottery   Lottery
	// NULL dates are distinct in Postgres, so general rows are free to duplicate
	// while date-specific rows upsert on this key.
	Date *time.Time `gorm:"uniqueIndex:idx_distribution_rules_shop_lottery_date"`
	DayType   DayType    `gorm:"size:20;not null"`
	Quantity  int        `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DailyOrder is the cross-shop order total per lottery for a date, recomputed
// whenever any shop's date-specific rules for that date change.
type DailyOrder struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"not null;uniqueIndex:idx_daily_orders_date_lottery"`
	LotteryID uint      `gorm:"not null;uniqueIndex:idx_daily_orders_date_lottery"`
	Lottery   Lottery
	Quantity  int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
