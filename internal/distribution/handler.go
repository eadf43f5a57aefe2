package distribution

import (
	"errors"
	"fmt"
	"time"

	"lottery-backend/internal/audit"
	"lottery-backend/internal/auth"
	"lottery-backend/internal/database"
	"lottery-backend/internal/logger"
	"lottery-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var validate = validator.New()

type RuleInput struct {
	LotteryID uint `json:"lottery_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gte=0"`
}

type SaveDistributionsRequest struct {
	ShopID  uint        `json:"shop_id" validate:"required"`
	Date    *string     `json:"date"`     // date-specific save when set
	DayType *string     `json:"day_type"` // required for general saves, optional override otherwise
	Rules   []RuleInput `json:"rules" validate:"required,dive"`
}

// -------------------------------------------------
// POST /api/daily-distributions
// General saves replace the whole (shop, day_type) rule set - delete then
// insert - so repeated saves cannot accumulate duplicates. Date-specific
// saves upsert on the (shop, lottery, date) unique key and then recompute the
// cross-shop daily order totals for that date.
// -------------------------------------------------
func SaveDistributionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveDistributionsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("%s is missing or invalid", verrs[0].Field()))
			}
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
		}

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ? AND active = ?", body.ShopID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}

		if body.Date != nil && *body.Date != "" {
			return saveDateSpecific(c, body)
		}
		return saveGeneral(c, body)
	}
}

func saveDateSpecific(c *fiber.Ctx, body SaveDistributionsRequest) error {
	date, err := time.Parse("2006-01-02", *body.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
	}

	dayType := DayTypeForDate(date)
	if body.DayType != nil && *body.DayType != "" {
		parsed, err := ParseDayType(*body.DayType)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		dayType = parsed
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, r := range body.Rules {
			rule := models.DistributionRule{
				ShopID:    body.ShopID,
				LotteryID: r.LotteryID,
				Date:      &date,
				DayType:   dayType,
				Quantity:  r.Quantity,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "shop_id"}, {Name: "lottery_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"day_type", "quantity", "updated_at"}),
			}).Create(&rule).Error; err != nil {
				return err
			}
		}
		return recomputeDailyOrders(tx, date)
	})
	if txErr != nil {
		logger.LogError("distribution", "saveDateSpecific", "transaction", body, txErr)
		return fiber.NewError(fiber.StatusInternalServerError, "Could not save distribution rules")
	}

	writeAuditLog(c, body.ShopID, models.AuditActionUpdate,
		fmt.Sprintf("Date-specific distribution saved for shop %d on %s (%d rules)", body.ShopID, *body.Date, len(body.Rules)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Distribution rules saved",
		"shop_id":  body.ShopID,
		"date":     *body.Date,
		"day_type": dayType,
	})
}

func saveGeneral(c *fiber.Ctx, body SaveDistributionsRequest) error {
	if body.DayType == nil || *body.DayType == "" {
		return fiber.NewError(fiber.StatusBadRequest, "day_type is required for general rules")
	}
	dayType, err := ParseDayType(*body.DayType)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	txErr := database.DB.Transaction(func(tx *gorm.DB) error {
		// replace, not merge
		if err := tx.Where("shop_id = ? AND day_type = ? AND date IS NULL", body.ShopID, dayType).
			Delete(&models.DistributionRule{}).Error; err != nil {
			return err
		}
		for _, r := range body.Rules {
			rule := models.DistributionRule{
				ShopID:    body.ShopID,
				LotteryID: r.LotteryID,
				DayType:   dayType,
				Quantity:  r.Quantity,
			}
			if err := tx.Create(&rule).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		logger.LogError("distribution", "saveGeneral", "transaction", body, txErr)
		return fiber.NewError(fiber.StatusInternalServerError, "Could not save distribution rules")
	}

	writeAuditLog(c, body.ShopID, models.AuditActionUpdate,
		fmt.Sprintf("General distribution replaced for shop %d, %s (%d rules)", body.ShopID, dayType, len(body.Rules)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Distribution rules saved",
		"shop_id":  body.ShopID,
		"day_type": dayType,
	})
}

// recomputeDailyOrders rebuilds the cross-shop per-lottery order totals for a
// date from every shop's date-specific rules.
func recomputeDailyOrders(tx *gorm.DB, date time.Time) error {
	type row struct {
		LotteryID uint
		Total     int
	}
	var rows []row
	if err := tx.Model(&models.DistributionRule{}).
		Select("lottery_id, SUM(quantity) as total").
		Where("date = ?", date).
		Group("lottery_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	if err := tx.Where("date = ?", date).Delete(&models.DailyOrder{}).Error; err != nil {
		return err
	}
	for _, r := range rows {
		order := models.DailyOrder{Date: date, LotteryID: r.LotteryID, Quantity: r.Total}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
	}
	return nil
}

// -------------------------------------------------
// GET /api/daily-distributions?shop_id=1&date=2025-12-09
// GET /api/daily-distributions?shop_id=1&day_type=weekday
// -------------------------------------------------
func GetDistributionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shopID uint
		if _, err := fmt.Sscan(c.Query("shop_id"), &shopID); err != nil || shopID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shop_id is required")
		}

		if dtStr := c.Query("day_type"); dtStr != "" {
			dayType, err := ParseDayType(dtStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			res, err := ResolveGeneral(database.DB, shopID, dayType)
			if err != nil {
				logger.LogError("distribution", "GetDistributionsHandler", "resolveGeneral", nil, err)
				return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve rules")
			}
			return c.JSON(res)
		}

		date, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date or day_type is required")
		}

		var override *models.DayType
		if ovStr := c.Query("day_type_override"); ovStr != "" {
			dt, err := ParseDayType(ovStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			override = &dt
		}

		res, err := Resolve(database.DB, shopID, date, override)
		if err != nil {
			var invalid *InvalidDayTypeError
			if errors.As(err, &invalid) {
				return fiber.NewError(fiber.StatusBadRequest, invalid.Error())
			}
			logger.LogError("distribution", "GetDistributionsHandler", "resolve", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not resolve rules")
		}
		return c.JSON(res)
	}
}

// -------------------------------------------------
// GET /api/daily-orders?date=2025-12-09
// -------------------------------------------------
func GetDailyOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var orders []models.DailyOrder
		if err := database.DB.Preload("Lottery").
			Where("date = ?", date).
			Order("lottery_id asc").
			Find(&orders).Error; err != nil {
			logger.LogError("distribution", "GetDailyOrdersHandler", "query", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list daily orders")
		}

		type item struct {
			LotteryID   uint   `json:"lottery_id"`
			LotteryName string `json:"lottery_name"`
			Quantity    int    `json:"quantity"`
		}
		items := make([]item, 0, len(orders))
		total := 0
		for _, o := range orders {
			items = append(items, item{LotteryID: o.LotteryID, LotteryName: o.Lottery.Name, Quantity: o.Quantity})
			total += o.Quantity
		}

		return c.JSON(fiber.Map{
			"date":   date.Format("2006-01-02"),
			"orders": items,
			"total":  total,
		})
	}
}

func writeAuditLog(c *fiber.Ctx, shopID uint, action models.AuditAction, description string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	var user models.User
	database.DB.First(&user, "id = ?", userID)
	if err := audit.WriteLog(audit.LogOptions{
		ShopID:      &shopID,
		UserID:      userID,
		UserName:    user.Name,
		EntityType:  "distribution_rule",
		EntityID:    shopID,
		Action:      action,
		Description: description,
	}); err != nil {
		logger.LogError("distribution", "writeAuditLog", "audit", nil, err)
	}
}
