package loan

import (
	"lottery-backend/internal/models"

	"github.com/shopspring/decimal"
)

type AllocationEntry struct {
	RecordID      uint    `json:"record_id"`
	Date          string  `json:"date"`
	PaymentAmount float64 `json:"payment_amount"`
	IsBalanced    bool    `json:"is_balanced"`
}

// Shortfall is how much of the record's total worth is still unaccounted for:
// total_worth - (cash_given + nlb_total + dlb_total + faulty_total).
func Shortfall(rec *models.DailyRecord) decimal.Decimal {
	accounted := round2(rec.CashGiven).
		Add(round2(rec.NLBTotalPrice)).
		Add(round2(rec.DLBTotalPrice)).
		Add(round2(rec.FaultyTotalPrice))
	return round2(rec.TotalWorth).Sub(accounted).Round(2)
}

// Allocate applies a payment across the given records strictly in the order
// they are passed (callers fetch oldest first - unpaid debt settles FIFO).
// Each record's CashGiven and Balanced are updated in place; records whose
// shortfall is already zero or negative are skipped without consuming any of
// the payment. Returns the per-record allocation entries and whatever part of
// the payment exceeded the total outstanding shortfall.
func Allocate(records []*models.DailyRecord, amount float64) ([]AllocationEntry, float64) {
	remaining := round2(amount)
	entries := make([]AllocationEntry, 0, len(records))

	for _, rec := range records {
		if !remaining.IsPositive() {
			break
		}

		shortfall := Shortfall(rec)
		if !shortfall.IsPositive() {
			continue
		}

		payment := decimal.Min(remaining, shortfall)
		covered := payment.GreaterThanOrEqual(shortfall)

		rec.CashGiven, _ = round2(rec.CashGiven).Add(payment).Round(2).Float64()
		rec.Balanced = covered
		remaining = remaining.Sub(payment).Round(2)

		pf, _ := payment.Float64()
		entries = append(entries, AllocationEntry{
			RecordID:      rec.ID,
			Date:          rec.Date.Format("2006-01-02"),
			PaymentAmount: pf,
			IsBalanced:    covered,
		})
	}

	rf, _ := remaining.Float64()
	return entries, rf
}

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
