package profit

import (
	"testing"

	"lottery-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(pricePerTicket float64, quantity int) models.DailyRecord {
	return models.DailyRecord{
		LotteryQuantity: quantity,
		TotalWorth:      pricePerTicket * float64(quantity),
	}
}

func TestComputeDailyProfit_Tier34NoSpecials(t *testing.T) {
	res, err := ComputeDailyProfit([]models.DailyRecord{record(34, 100)}, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.KumaraProfit)
	assert.Equal(t, 50.0, res.ManagerProfit)
	assert.Equal(t, 150.0, res.TotalProfit)
}

func TestComputeDailyProfit_Tier34WithSpecials(t *testing.T) {
	res, err := ComputeDailyProfit([]models.DailyRecord{record(34, 100)}, 20, 0)
	require.NoError(t, err)

	// standard 80 -> kumara 80, manager 40; special 20 -> kumara 60, manager 20
	assert.Equal(t, 140.0, res.KumaraProfit)
	assert.Equal(t, 60.0, res.ManagerProfit)
	assert.Equal(t, 200.0, res.TotalProfit)
}

func TestComputeDailyProfit_Tier35(t *testing.T) {
	res, err := ComputeDailyProfit([]models.DailyRecord{record(35, 40)}, 0, 10)
	require.NoError(t, err)

	// standard 30 -> kumara 45, manager 30; special 10 -> kumara 40, manager 10
	assert.Equal(t, 85.0, res.KumaraProfit)
	assert.Equal(t, 40.0, res.ManagerProfit)
	assert.Equal(t, 125.0, res.TotalProfit)
}

func TestComputeDailyProfit_OtherPriceSplits60_40(t *testing.T) {
	res, err := ComputeDailyProfit([]models.DailyRecord{record(40, 10)}, 0, 0)
	require.NoError(t, err)

	// (40 - 32.5) * 10 = 75 -> 45 / 30
	assert.Equal(t, 45.0, res.KumaraProfit)
	assert.Equal(t, 30.0, res.ManagerProfit)
	assert.Equal(t, 75.0, res.TotalProfit)
}

func TestComputeDailyProfit_GroupsAcrossRecords(t *testing.T) {
	records := []models.DailyRecord{
		record(34, 60),
		record(34, 40), // same price group, quantities sum
		record(40, 10),
	}
	res, err := ComputeDailyProfit(records, 0, 0)
	require.NoError(t, err)

	// tier 34: kumara 100, manager 50; price 40: kumara 45, manager 30
	assert.Equal(t, 145.0, res.KumaraProfit)
	assert.Equal(t, 80.0, res.ManagerProfit)
	assert.Equal(t, 225.0, res.TotalProfit)
}

func TestComputeDailyProfit_SpecialsExceedTier(t *testing.T) {
	_, err := ComputeDailyProfit([]models.DailyRecord{record(34, 100)}, 101, 0)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "special_tickets_31_to_34", ve.Field)
}

func TestComputeDailyProfit_SpecialsWithoutTierRecords(t *testing.T) {
	_, err := ComputeDailyProfit([]models.DailyRecord{record(40, 10)}, 0, 5)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "special_tickets_31_to_35", ve.Field)
}

func TestComputeDailyProfit_NegativeSpecials(t *testing.T) {
	_, err := ComputeDailyProfit(nil, -1, 0)
	require.Error(t, err)
}

func TestComputeDailyProfit_EmptyDay(t *testing.T) {
	res, err := ComputeDailyProfit(nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.KumaraProfit)
	assert.Equal(t, 0.0, res.ManagerProfit)
	assert.Equal(t, 0.0, res.TotalProfit)
}

func TestComputeDailyProfit_ZeroQuantityRecordsIgnored(t *testing.T) {
	records := []models.DailyRecord{
		{LotteryQuantity: 0, TotalWorth: 0},
		record(34, 100),
	}
	res, err := ComputeDailyProfit(records, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.TotalProfit)
}

func TestComputeDailyProfit_RoundsOperatorAndManagerIndependently(t *testing.T) {
	// (33 - 32.5) * 15 = 7.5 -> kumara 4.5, manager 3.0 -> rounded 5 + 3 = 8
	res, err := ComputeDailyProfit([]models.DailyRecord{record(33, 15)}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.KumaraProfit)
	assert.Equal(t, 3.0, res.ManagerProfit)
	assert.Equal(t, 8.0, res.TotalProfit)
}
