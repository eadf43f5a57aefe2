package profit

import (
	"fmt"

	"lottery-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Contractual business constants. The 32.5 baseline is the standard ticket
// acquisition price; the 34/35 tiers carve out tickets actually acquired at 31.
var (
	baselinePrice = decimal.NewFromFloat(32.5)

	tier34            = decimal.NewFromInt(34)
	tier34Kumara      = decimal.NewFromFloat(1.0)
	tier34Manager     = decimal.NewFromFloat(0.5)
	tier34SpecKumara  = decimal.NewFromFloat(3.0)
	tier34SpecManager = decimal.NewFromFloat(1.0)

	tier35            = decimal.NewFromInt(35)
	tier35Kumara      = decimal.NewFromFloat(1.5)
	tier35Manager     = decimal.NewFromFloat(1.0)
	tier35SpecKumara  = decimal.NewFromFloat(4.0)
	tier35SpecManager = decimal.NewFromFloat(1.0)

	kumaraShare  = decimal.NewFromFloat(0.6)
	managerShare = decimal.NewFromFloat(0.4)
)

type Result struct {
	KumaraProfit  float64 `json:"kumara_profit"`
	ManagerProfit float64 `json:"manager_profit"`
	TotalProfit   float64 `json:"total_profit"`
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type priceGroup struct {
	price    decimal.Decimal
	quantity int64
}

// ComputeDailyProfit groups the day's records by per-ticket price and applies
// the tiered operator/manager split. specialTickets31To34 / 31To35 are the
// counts of 34- and 35-priced tickets actually acquired at 31; they must not
// exceed their tier's total quantity.
func ComputeDailyProfit(records []models.DailyRecord, specialTickets31To34, specialTickets31To35 int) (Result, error) {
	if specialTickets31To34 < 0 {
		return Result{}, &ValidationError{Field: "special_tickets_31_to_34", Reason: "must not be negative"}
	}
	if specialTickets31To35 < 0 {
		return Result{}, &ValidationError{Field: "special_tickets_31_to_35", Reason: "must not be negative"}
	}

	groups := map[string]*priceGroup{}
	for _, rec := range records {
		if rec.LotteryQuantity <= 0 {
			continue
		}
		price := decimal.NewFromFloat(rec.TotalWorth).
			Div(decimal.NewFromInt(int64(rec.LotteryQuantity))).Round(2)
		key := price.String()
		g, ok := groups[key]
		if !ok {
			g = &priceGroup{price: price}
			groups[key] = g
		}
		g.quantity += int64(rec.LotteryQuantity)
	}

	var total34, total35 int64
	for _, g := range groups {
		if g.price.Equal(tier34) {
			total34 += g.quantity
		}
		if g.price.Equal(tier35) {
			total35 += g.quantity
		}
	}
	if int64(specialTickets31To34) > total34 {
		return Result{}, &ValidationError{Field: "special_tickets_31_to_34",
			Reason: fmt.Sprintf("exceeds the %d tickets priced at 34", total34)}
	}
	if int64(specialTickets31To35) > total35 {
		return Result{}, &ValidationError{Field: "special_tickets_31_to_35",
			Reason: fmt.Sprintf("exceeds the %d tickets priced at 35", total35)}
	}

	kumara := decimal.Zero
	manager := decimal.Zero

	for _, g := range groups {
		qty := decimal.NewFromInt(g.quantity)

		switch {
		case g.price.Equal(tier34):
			special := decimal.NewFromInt(int64(specialTickets31To34))
			standard := decimal.Max(decimal.Zero, qty.Sub(special))
			kumara = kumara.Add(standard.Mul(tier34Kumara)).Add(special.Mul(tier34SpecKumara))
			manager = manager.Add(standard.Mul(tier34Manager)).Add(special.Mul(tier34SpecManager))

		case g.price.Equal(tier35):
			special := decimal.NewFromInt(int64(specialTickets31To35))
			standard := decimal.Max(decimal.Zero, qty.Sub(special))
			kumara = kumara.Add(standard.Mul(tier35Kumara)).Add(special.Mul(tier35SpecKumara))
			manager = manager.Add(standard.Mul(tier35Manager)).Add(special.Mul(tier35SpecManager))

		default:
			groupProfit := g.price.Sub(baselinePrice).Mul(qty)
			kumara = kumara.Add(groupProfit.Mul(kumaraShare))
			manager = manager.Add(groupProfit.Mul(managerShare))
		}
	}

	// operator and manager round to the nearest whole figure independently;
	// the total is the sum of the rounded values
	kumaraRounded := kumara.Round(0)
	managerRounded := manager.Round(0)

	kf, _ := kumaraRounded.Float64()
	mf, _ := managerRounded.Float64()
	tf, _ := kumaraRounded.Add(managerRounded).Float64()

	return Result{KumaraProfit: kf, ManagerProfit: mf, TotalProfit: tf}, nil
}
