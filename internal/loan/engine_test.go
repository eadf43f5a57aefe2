package loan

import (
	"testing"
	"time"

	"lottery-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.December, d, 0, 0, 0, 0, time.UTC)
}

// unbalanced record whose shortfall is worth - cash (no ticket totals)
func unbalancedRecord(id uint, d time.Time, worth, cash float64) *models.DailyRecord {
	return &models.DailyRecord{
		ID:         id,
		Date:       d,
		TotalWorth: worth,
		CashGiven:  cash,
		Balanced:   false,
	}
}

func TestAllocate_FIFOWithPartialSecondRecord(t *testing.T) {
	oldest := unbalancedRecord(1, day(1), 500, 0)
	newer := unbalancedRecord(2, day(2), 300, 0)

	entries, remaining := Allocate([]*models.DailyRecord{oldest, newer}, 700)

	require.Len(t, entries, 2)
	assert.Equal(t, 0.0, remaining)

	assert.Equal(t, uint(1), entries[0].RecordID)
	assert.Equal(t, 500.0, entries[0].PaymentAmount)
	assert.True(t, entries[0].IsBalanced)
	assert.True(t, oldest.Balanced)
	assert.Equal(t, 500.0, oldest.CashGiven)

	assert.Equal(t, uint(2), entries[1].RecordID)
	assert.Equal(t, 200.0, entries[1].PaymentAmount)
	assert.False(t, entries[1].IsBalanced)
	assert.False(t, newer.Balanced)
	assert.Equal(t, 200.0, newer.CashGiven)
}

func TestAllocate_ConservationToTheCent(t *testing.T) {
	recs := []*models.DailyRecord{
		unbalancedRecord(1, day(1), 123.45, 0),
		unbalancedRecord(2, day(2), 67.89, 0),
		unbalancedRecord(3, day(3), 1000, 0),
	}

	amount := 250.0
	entries, remaining := Allocate(recs, amount)

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(decimal.NewFromFloat(e.PaymentAmount))
	}
	sum = sum.Add(decimal.NewFromFloat(remaining))
	assert.True(t, sum.Equal(decimal.NewFromFloat(amount)),
		"allocated %s + remaining %.2f != %.2f", sum, remaining, amount)

	assert.Equal(t, 123.45, entries[0].PaymentAmount)
	assert.Equal(t, 67.89, entries[1].PaymentAmount)
	assert.InDelta(t, 58.66, entries[2].PaymentAmount, 0.001)
	assert.False(t, recs[2].Balanced)
}

func TestAllocate_OverpaymentReportsLeftover(t *testing.T) {
	recs := []*models.DailyRecord{
		unbalancedRecord(1, day(1), 100, 0),
		unbalancedRecord(2, day(2), 50, 0),
	}

	entries, remaining := Allocate(recs, 500)

	require.Len(t, entries, 2)
	assert.Equal(t, 350.0, remaining)
	assert.True(t, recs[0].Balanced)
	assert.True(t, recs[1].Balanced)
}

func TestAllocate_SkipsNonPositiveShortfallWithoutConsuming(t *testing.T) {
	// already effectively covered even though the flag says otherwise
	covered := unbalancedRecord(1, day(1), 100, 100)
	overfunded := unbalancedRecord(2, day(2), 100, 150)
	owing := unbalancedRecord(3, day(3), 200, 0)

	entries, remaining := Allocate([]*models.DailyRecord{covered, overfunded, owing}, 200)

	require.Len(t, entries, 1)
	assert.Equal(t, uint(3), entries[0].RecordID)
	assert.Equal(t, 200.0, entries[0].PaymentAmount)
	assert.Equal(t, 0.0, remaining)

	// skipped records are untouched
	assert.Equal(t, 100.0, covered.CashGiven)
	assert.Equal(t, 150.0, overfunded.CashGiven)
}

func TestAllocate_StopsOnceExhausted(t *testing.T) {
	recs := []*models.DailyRecord{
		unbalancedRecord(1, day(1), 100, 0),
		unbalancedRecord(2, day(2), 100, 0),
		unbalancedRecord(3, day(3), 100, 0),
	}

	entries, remaining := Allocate(recs, 100)

	require.Len(t, entries, 1)
	assert.Equal(t, 0.0, remaining)
	assert.Equal(t, 0.0, recs[1].CashGiven)
	assert.Equal(t, 0.0, recs[2].CashGiven)
}

func TestAllocate_NeverProducesNegativeCash(t *testing.T) {
	rec := unbalancedRecord(1, day(1), 100, 40)
	entries, _ := Allocate([]*models.DailyRecord{rec}, 30)

	require.Len(t, entries, 1)
	assert.Equal(t, 70.0, rec.CashGiven)
	assert.False(t, rec.Balanced)
	assert.GreaterOrEqual(t, rec.CashGiven, 0.0)
}

func TestShortfall_CountsTicketTotals(t *testing.T) {
	rec := &models.DailyRecord{
		TotalWorth:       3400,
		CashGiven:        1000,
		NLBTotalPrice:    1000,
		DLBTotalPrice:    900,
		FaultyTotalPrice: 100,
	}
	assert.True(t, Shortfall(rec).Equal(decimal.NewFromInt(400)))
}
