package models

import "time"

// LoanRecord is one row per (shop, calendar day) of loan issuance. Repeated
// submissions on the same day accumulate into the existing row's amount.
type LoanRecord struct {
	ID        uint `gorm:"primaryKey"`
	ShopID    uint `gorm:"not null;uniqueIndex:idx_loan_records_shop_date"`
	Shop      Shop
	Date      time.Time `gorm:"not null;uniqueIndex:idx_loan_records_shop_date"`
	Amount    float64   `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Allocations []LoanAllocation `gorm:"foreignKey:LoanRecordID;constraint:OnDelete:CASCADE"`
}

// LoanAllocation links a loan payment to the specific daily record it paid
// down. One row per record touched by an allocation run.
type LoanAllocation struct {
	ID            uint `gorm:"primaryKey"`
	LoanRecordID  uint `gorm:"index;not null"`
	DailyRecordID uint `gorm:"index;not null"`
	DailyRecord   DailyRecord
	Amount        float64 `gorm:"not null"`
	Balanced      bool    `gorm:"not null;default:false"` // did this allocation fully cover the shortfall
	CreatedAt     time.Time
}
