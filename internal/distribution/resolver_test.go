package distribution

import (
	"testing"
	"time"

	"lottery-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayTypeForDate(t *testing.T) {
	cases := []struct {
		date string
		want models.DayType
	}{
		{"2025-12-08", models.DayTypeWeekday}, // Monday
		{"2025-12-12", models.DayTypeWeekday}, // Friday
		{"2025-12-13", models.DayTypeSaturday},
		{"2025-12-14", models.DayTypeSunday},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		require.NoError(t, err)
		assert.Equal(t, tc.want, DayTypeForDate(d), tc.date)
	}
}

func TestParseDayType(t *testing.T) {
	for _, valid := range []string{"weekday", "saturday", "sunday", "holiday"} {
		dt, err := ParseDayType(valid)
		require.NoError(t, err)
		assert.Equal(t, models.DayType(valid), dt)
	}

	_, err := ParseDayType("poya")
	require.Error(t, err)
	var invalid *InvalidDayTypeError
	assert.ErrorAs(t, err, &invalid)
}

func TestLatestPerLottery_NewestRowWins(t *testing.T) {
	rules := []models.DistributionRule{
		{ID: 10, LotteryID: 5, Quantity: 10},
		{ID: 12, LotteryID: 5, Quantity: 7}, // re-save of the same lottery
		{ID: 11, LotteryID: 6, Quantity: 3},
	}

	latest := LatestPerLottery(rules)

	require.Len(t, latest, 2)
	assert.Equal(t, 7, latest[5].Quantity)
	assert.Equal(t, uint(12), latest[5].ID)
	assert.Equal(t, 3, latest[6].Quantity)
}

func TestMergeQuantities_EnumeratesEveryLottery(t *testing.T) {
	lotteries := []models.Lottery{
		{ID: 1, Name: "Mahajana Sampatha"},
		{ID: 2, Name: "Govisetha"},
		{ID: 3, Name: "Ada Kotipathi"},
	}

	items := MergeQuantities(lotteries, map[uint]int{2: 25})

	require.Len(t, items, 3)
	assert.Equal(t, 0, items[0].Quantity)
	assert.Equal(t, 25, items[1].Quantity)
	assert.Equal(t, 0, items[2].Quantity)
	assert.Equal(t, "Govisetha", items[1].LotteryName)
}

func TestMergeQuantities_NoRulesYieldsZeroFilledSet(t *testing.T) {
	lotteries := []models.Lottery{{ID: 1, Name: "Jathika Sampatha"}}

	items := MergeQuantities(lotteries, map[uint]int{})

	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].Quantity)
}
