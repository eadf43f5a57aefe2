package dailyrecord

import (
	"testing"

	"lottery-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }
func s(v string) *string   { return &v }

func newRecord() *models.DailyRecord {
	return &models.DailyRecord{
		NLB:    models.TicketBreakdown{},
		DLB:    models.TicketBreakdown{},
		Faulty: models.TicketBreakdown{},
		Step:   1,
	}
}

func TestApplyStep_FullSequence(t *testing.T) {
	rec := newRecord()

	require.NoError(t, ApplyStep(rec, 1, StepData{PricePerLottery: f(34), LotteryQuantity: i(100)}))
	assert.Equal(t, 3400.0, rec.TotalWorth)
	assert.Equal(t, 1, rec.Step)
	assert.False(t, rec.Completed)

	require.NoError(t, ApplyStep(rec, 2, StepData{CashGiven: f(1000), GotTicketsTotalPrice: f(2000)}))
	assert.Equal(t, 2, rec.Step)
	// 3400 != 0 + 1000 + 2000 yet
	assert.False(t, rec.Balanced)

	require.NoError(t, ApplyStep(rec, 3, StepData{NLB: models.TicketBreakdown{"20": 50}}))
	assert.Equal(t, 1000.0, rec.NLBTotalPrice)
	assert.False(t, rec.EqualityCheck)

	require.NoError(t, ApplyStep(rec, 4, StepData{DLB: models.TicketBreakdown{"25": 40}}))
	assert.Equal(t, 1000.0, rec.DLBTotalPrice)
	// 1000 + 1000 == 2000
	assert.True(t, rec.EqualityCheck)

	require.NoError(t, ApplyStep(rec, 5, StepData{Faulty: models.TicketBreakdown{"40": 10}}))
	assert.Equal(t, 400.0, rec.FaultyTotalPrice)
	// 3400 == 400 + 1000 + 2000
	assert.True(t, rec.Balanced)

	require.NoError(t, ApplyStep(rec, 6, StepData{SpecialLotteriesNote: s("two special draws")}))
	assert.Equal(t, 6, rec.Step)
	assert.True(t, rec.Completed)
	assert.True(t, rec.Balanced)
	assert.True(t, rec.EqualityCheck)
}

func TestApplyStep_RoundingAvoidsFloatFalseNegatives(t *testing.T) {
	rec := newRecord()

	require.NoError(t, ApplyStep(rec, 2, StepData{CashGiven: f(0), GotTicketsTotalPrice: f(0.3)}))
	require.NoError(t, ApplyStep(rec, 3, StepData{NLB: models.TicketBreakdown{"0.1": 1}}))
	require.NoError(t, ApplyStep(rec, 4, StepData{DLB: models.TicketBreakdown{"0.2": 1}}))

	// 0.1 + 0.2 must compare equal to 0.3 after 2-decimal rounding
	assert.True(t, rec.EqualityCheck)
}

func TestApplyStep_OutOfOrderSelfHeals(t *testing.T) {
	rec := newRecord()
	require.NoError(t, ApplyStep(rec, 2, StepData{CashGiven: f(0), GotTicketsTotalPrice: f(300)}))

	// step 4 before step 3: compares dlb alone against proceeds
	require.NoError(t, ApplyStep(rec, 4, StepData{DLB: models.TicketBreakdown{"10": 10}}))
	assert.False(t, rec.EqualityCheck)

	// once step 3 lands the flag is recomputed from the full state
	require.NoError(t, ApplyStep(rec, 3, StepData{NLB: models.TicketBreakdown{"20": 10}}))
	assert.True(t, rec.EqualityCheck)
}

func TestApplyStep_StepMarkerOnlyMovesForward(t *testing.T) {
	rec := newRecord()
	require.NoError(t, ApplyStep(rec, 1, StepData{PricePerLottery: f(34), LotteryQuantity: i(10)}))
	require.NoError(t, ApplyStep(rec, 2, StepData{CashGiven: f(100), GotTicketsTotalPrice: f(240)}))
	require.NoError(t, ApplyStep(rec, 5, StepData{Faulty: models.TicketBreakdown{}}))
	assert.Equal(t, 5, rec.Step)

	// re-editing an earlier step overwrites data but keeps the marker
	require.NoError(t, ApplyStep(rec, 2, StepData{CashGiven: f(340), GotTicketsTotalPrice: f(0)}))
	assert.Equal(t, 5, rec.Step)
	assert.Equal(t, 340.0, rec.CashGiven)
	assert.True(t, rec.Balanced)
}

func TestApplyStep_ReSubmitOverwritesNotAccumulates(t *testing.T) {
	rec := newRecord()
	require.NoError(t, ApplyStep(rec, 3, StepData{NLB: models.TicketBreakdown{"20": 5}}))
	require.NoError(t, ApplyStep(rec, 3, StepData{NLB: models.TicketBreakdown{"20": 3}}))
	assert.Equal(t, 60.0, rec.NLBTotalPrice)
}

func TestApplyStep_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		step  int
		data  StepData
		field string
	}{
		{"step out of range", 7, StepData{}, "step"},
		{"step zero", 0, StepData{}, "step"},
		{"step 1 missing price", 1, StepData{LotteryQuantity: i(10)}, "price_per_lottery"},
		{"step 1 missing quantity", 1, StepData{PricePerLottery: f(34)}, "lottery_quantity"},
		{"step 1 negative", 1, StepData{PricePerLottery: f(-1), LotteryQuantity: i(10)}, "price_per_lottery"},
		{"step 2 missing cash", 2, StepData{GotTicketsTotalPrice: f(10)}, "cash_given"},
		{"step 2 missing proceeds", 2, StepData{CashGiven: f(10)}, "got_tickets_total_price"},
		{"step 3 missing nlb", 3, StepData{}, "nlb"},
		{"step 3 bad price key", 3, StepData{NLB: models.TicketBreakdown{"abc": 1}}, "nlb"},
		{"step 3 negative count", 3, StepData{NLB: models.TicketBreakdown{"20": -1}}, "nlb"},
		{"step 4 missing dlb", 4, StepData{}, "dlb"},
		{"step 5 missing faulty", 5, StepData{}, "faulty"},
		{"step 6 missing note", 6, StepData{}, "special_lotteries_note"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := newRecord()
			err := ApplyStep(rec, tc.step, tc.data)
			require.Error(t, err)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestRecompute_BalancedUsesAllContributors(t *testing.T) {
	rec := newRecord()
	rec.PricePerLottery = 32.5
	rec.LotteryQuantity = 100
	rec.CashGiven = 1000
	rec.GotTicketsTotalPrice = 2000
	rec.Faulty = models.TicketBreakdown{"25": 10}

	require.NoError(t, Recompute(rec))
	assert.Equal(t, 3250.0, rec.TotalWorth)
	assert.Equal(t, 250.0, rec.FaultyTotalPrice)
	// 3250 == 250 + 1000 + 2000
	assert.True(t, rec.Balanced)
}
