package models

import "time"

// ShopNote is a free-form note attached to a (shop, date). The unique key
// makes a duplicate submission a conflict, not a second row.
type ShopNote struct {
	ID        uint `gorm:"primaryKey"`
	ShopID    uint `gorm:"not null;uniqueIndex:idx_shop_notes_shop_date"`
	Shop      Shop
	Date      time.Time `gorm:"not null;uniqueIndex:idx_shop_notes_shop_date"`
	Body      string    `gorm:"size:1000;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
