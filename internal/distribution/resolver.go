package distribution

import (
	"fmt"
	"time"

	"lottery-backend/internal/models"

	"gorm.io/gorm"
)

type Mode string

const (
	ModeDateSpecific Mode = "date-specific"
	ModeGeneral      Mode = "general"
	ModeGeneralEdit  Mode = "general-edit"
)

type ResolvedItem struct {
	LotteryID   uint   `json:"lottery_id"`
	LotteryName string `json:"lottery_name"`
	Quantity    int    `json:"quantity"`
}

type Resolution struct {
	DayType models.DayType `json:"day_type"`
	Mode    Mode           `json:"mode"`
	Items   []ResolvedItem `json:"items"`
}

type InvalidDayTypeError struct {
	Value string
}

func (e *InvalidDayTypeError) Error() string {
	return fmt.Sprintf("invalid day_type %q (weekday|saturday|sunday|holiday)", e.Value)
}

// DayTypeForDate classifies a calendar date. Holidays are never inferred from
// the calendar; they only enter via an explicit override or via date-specific
// rule rows that recorded one.
func DayTypeForDate(t time.Time) models.DayType {
	switch t.Weekday() {
	case time.Saturday:
		return models.DayTypeSaturday
	case time.Sunday:
		return models.DayTypeSunday
	default:
		return models.DayTypeWeekday
	}
}

func ParseDayType(s string) (models.DayType, error) {
	switch models.DayType(s) {
	case models.DayTypeWeekday, models.DayTypeSaturday, models.DayTypeSunday, models.DayTypeHoliday:
		return models.DayType(s), nil
	default:
		return "", &InvalidDayTypeError{Value: s}
	}
}

// LatestPerLottery collapses accumulated duplicate general rows down to the
// most-recently-inserted (highest ID) row per lottery.
func LatestPerLottery(rules []models.DistributionRule) map[uint]models.DistributionRule {
	latest := make(map[uint]models.DistributionRule, len(rules))
	for _, r := range rules {
		if cur, ok := latest[r.LotteryID]; !ok || r.ID > cur.ID {
			latest[r.LotteryID] = r
		}
	}
	return latest
}

// MergeQuantities enumerates every known lottery, filling 0 for lotteries the
// rule set does not mention, so downstream totals stay stable.
func MergeQuantities(lotteries []models.Lottery, quantities map[uint]int) []ResolvedItem {
	items := make([]ResolvedItem, 0, len(lotteries))
	for _, l := range lotteries {
		items = append(items, ResolvedItem{
			LotteryID:   l.ID,
			LotteryName: l.Name,
			Quantity:    quantities[l.ID],
		})
	}
	return items
}

// Resolve determines the applicable per-lottery allocation for a shop and
// date. Date-specific rows are authoritative when present (including the
// day_type they recorded); otherwise the general rules for the computed or
// overridden day type apply. A shop with no rules at all resolves to a
// zero-filled set.
func Resolve(db *gorm.DB, shopID uint, date time.Time, override *models.DayType) (Resolution, error) {
	dayType := DayTypeForDate(date)
	if override != nil {
		parsed, err := ParseDayType(string(*override))
		if err != nil {
			return Resolution{}, err
		}
		dayType = parsed
	}

	var lotteries []models.Lottery
	if err := db.Where("active = ?", true).Order("id asc").Find(&lotteries).Error; err != nil {
		return Resolution{}, err
	}

	var dateRules []models.DistributionRule
	if err := db.Where("shop_id = ? AND date = ?", shopID, date).Find(&dateRules).Error; err != nil {
		return Resolution{}, err
	}

	if len(dateRules) > 0 {
		quantities := make(map[uint]int, len(dateRules))
		for _, r := range dateRules {
			quantities[r.LotteryID] = r.Quantity
		}
		// the recorded day_type wins; it may itself be a holiday override
		return Resolution{
			DayType: dateRules[0].DayType,
			Mode:    ModeDateSpecific,
			Items:   MergeQuantities(lotteries, quantities),
		}, nil
	}

	var generalRules []models.DistributionRule
	if err := db.Where("shop_id = ? AND day_type = ? AND date IS NULL", shopID, dayType).
		Find(&generalRules).Error; err != nil {
		return Resolution{}, err
	}

	quantities := make(map[uint]int)
	for lotteryID, r := range LatestPerLottery(generalRules) {
		quantities[lotteryID] = r.Quantity
	}

	return Resolution{
		DayType: dayType,
		Mode:    ModeGeneral,
		Items:   MergeQuantities(lotteries, quantities),
	}, nil
}

// ResolveGeneral returns the general rule set for a (shop, day_type) for
// editing, without any date in play.
func ResolveGeneral(db *gorm.DB, shopID uint, dayType models.DayType) (Resolution, error) {
	var lotteries []models.Lottery
	if err := db.Where("active = ?", true).Order("id asc").Find(&lotteries).Error; err != nil {
		return Resolution{}, err
	}

	var generalRules []models.DistributionRule
	if err := db.Where("shop_id = ? AND day_type = ? AND date IS NULL", shopID, dayType).
		Find(&generalRules).Error; err != nil {
		return Resolution{}, err
	}

	quantities := make(map[uint]int)
	for lotteryID, r := range LatestPerLottery(generalRules) {
		quantities[lotteryID] = r.Quantity
	}

	return Resolution{
		DayType: dayType,
		Mode:    ModeGeneralEdit,
		Items:   MergeQuantities(lotteries, quantities),
	}, nil
}
