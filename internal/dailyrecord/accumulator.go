package dailyrecord

import (
	"fmt"

	"lottery-backend/internal/models"

	"github.com/shopspring/decimal"
)

// StepData carries the entry fields for a single accumulator step. Only the
// fields the given step needs are read; the rest are ignored.
type StepData struct {
	PricePerLottery      *float64               `json:"price_per_lottery"`
	LotteryQuantity      *int                   `json:"lottery_quantity"`
	CashGiven            *float64               `json:"cash_given"`
	GotTicketsTotalPrice *float64               `json:"got_tickets_total_price"`
	NLB                  models.TicketBreakdown `json:"nlb"`
	DLB                  models.TicketBreakdown `json:"dlb"`
	Faulty               models.TicketBreakdown `json:"faulty"`
	SpecialLotteriesNote *string                `json:"special_lotteries_note"`
}

// ValidationError names the field a step payload is missing or has malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ApplyStep applies one step of the 6-step entry sequence to the record and
// recomputes the derived totals and both invariant flags from the record's
// full current state. Recomputing everything on every step means an
// out-of-order submission (step 4 before step 3) compares against whatever is
// actually stored and self-heals once the missing step arrives.
func ApplyStep(rec *models.DailyRecord, step int, data StepData) error {
	switch step {
	case 1:
		if data.PricePerLottery == nil {
			return &ValidationError{Field: "price_per_lottery", Reason: "required for step 1"}
		}
		if data.LotteryQuantity == nil {
			return &ValidationError{Field: "lottery_quantity", Reason: "required for step 1"}
		}
		if *data.PricePerLottery < 0 || *data.LotteryQuantity < 0 {
			return &ValidationError{Field: "price_per_lottery", Reason: "must not be negative"}
		}
		rec.PricePerLottery = *data.PricePerLottery
		rec.LotteryQuantity = *data.LotteryQuantity

	case 2:
		if data.CashGiven == nil {
			return &ValidationError{Field: "cash_given", Reason: "required for step 2"}
		}
		if data.GotTicketsTotalPrice == nil {
			return &ValidationError{Field: "got_tickets_total_price", Reason: "required for step 2"}
		}
		if *data.CashGiven < 0 || *data.GotTicketsTotalPrice < 0 {
			return &ValidationError{Field: "cash_given", Reason: "must not be negative"}
		}
		rec.CashGiven = *data.CashGiven
		rec.GotTicketsTotalPrice = *data.GotTicketsTotalPrice

	case 3:
		if data.NLB == nil {
			return &ValidationError{Field: "nlb", Reason: "required for step 3"}
		}
		if err := validateBreakdown("nlb", data.NLB); err != nil {
			return err
		}
		rec.NLB = data.NLB

	case 4:
		if data.DLB == nil {
			return &ValidationError{Field: "dlb", Reason: "required for step 4"}
		}
		if err := validateBreakdown("dlb", data.DLB); err != nil {
			return err
		}
		rec.DLB = data.DLB

	case 5:
		if data.Faulty == nil {
			return &ValidationError{Field: "faulty", Reason: "required for step 5"}
		}
		if err := validateBreakdown("faulty", data.Faulty); err != nil {
			return err
		}
		rec.Faulty = data.Faulty

	case 6:
		if data.SpecialLotteriesNote == nil {
			return &ValidationError{Field: "special_lotteries_note", Reason: "required for step 6"}
		}
		rec.SpecialLotteriesNote = *data.SpecialLotteriesNote
		rec.Completed = true

	default:
		return &ValidationError{Field: "step", Reason: "must be between 1 and 6"}
	}

	// step only moves forward; re-editing an earlier step keeps the marker
	if step > rec.Step {
		rec.Step = step
	}

	return Recompute(rec)
}

// Recompute re-derives every dependent total and both invariant flags from the
// record's current fields. All comparisons happen on values rounded to 2
// decimals to avoid floating point false negatives.
func Recompute(rec *models.DailyRecord) error {
	worth := decimal.NewFromFloat(rec.PricePerLottery).
		Mul(decimal.NewFromInt(int64(rec.LotteryQuantity))).Round(2)
	rec.TotalWorth, _ = worth.Float64()

	nlbTotal, err := rec.NLB.TotalPrice()
	if err != nil {
		return &ValidationError{Field: "nlb", Reason: err.Error()}
	}
	rec.NLBTotalPrice = nlbTotal

	dlbTotal, err := rec.DLB.TotalPrice()
	if err != nil {
		return &ValidationError{Field: "dlb", Reason: err.Error()}
	}
	rec.DLBTotalPrice = dlbTotal

	faultyTotal, err := rec.Faulty.TotalPrice()
	if err != nil {
		return &ValidationError{Field: "faulty", Reason: err.Error()}
	}
	rec.FaultyTotalPrice = faultyTotal

	// nlb + dlb == got_tickets_total_price
	ticketSum := round2(rec.NLBTotalPrice).Add(round2(rec.DLBTotalPrice)).Round(2)
	rec.EqualityCheck = ticketSum.Equal(round2(rec.GotTicketsTotalPrice))

	// total_worth == faulty + cash_given + got_tickets_total_price
	accounted := round2(rec.FaultyTotalPrice).
		Add(round2(rec.CashGiven)).
		Add(round2(rec.GotTicketsTotalPrice)).Round(2)
	rec.Balanced = round2(rec.TotalWorth).Equal(accounted)

	return nil
}

func validateBreakdown(field string, b models.TicketBreakdown) error {
	for priceStr, count := range b {
		if _, err := decimal.NewFromString(priceStr); err != nil {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("ticket price %q is not numeric", priceStr)}
		}
		if count < 0 {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("count for price %s must not be negative", priceStr)}
		}
	}
	return nil
}

func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
