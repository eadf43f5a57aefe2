package profit

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
)

var validate = validator.New()

type SaveDailyProfitRequest struct {
	Date                 string `json:"date" validate:"required"`
	SpecialTickets31To34 int    `json:"special_tickets_31_to_34" validate:"gte=0"`
	SpecialTickets31To35 int    `json:"special_tickets_31_to_35" validate:"gte=0"`
}

type DailyProfitResponse struct {
	ID                   uint    `json:"id"`
	Date                 string  `json:"date"`
	SpecialTickets31To34 int     `json:"special_tickets_31_to_34"`
	SpecialTickets31To35 int     `json:"special_tickets_31_to_35"`
	KumaraProfit         float64 `json:"kumara_profit"`
	ManagerProfit        float64 `json:"manager_profit"`
	TotalProfit          float64 `json:"total_profit"`
}

func toResponse(p *models.DailyProfit) DailyProfitResponse {
	return DailyProfitResponse{
		ID:                   p.ID,
		Date:                 p.Date.Format("2006-01-02"),
		SpecialTickets31To34: p.SpecialTickets31To34,
		SpecialTickets31To35: p.SpecialTickets31To35,
		KumaraProfit:         p.KumaraProfit,
		ManagerProfit:        p.ManagerProfit,
		TotalProfit:          p.TotalProfit,
	}
}

// -------------------------------------------------
// POST /api/daily-profit, PUT /api/daily-profit
// Computes the day's profit split from its daily records and persists the
// result keyed by date. Validation failures persist nothing.
// -------------------------------------------------
func SaveDailyProfitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveDailyProfitRequest
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

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var records []models.DailyRecord
		if err := database.DB.Where("date = ?", date).Find(&records).Error; err != nil {
			logger.LogError("profit", "SaveDailyProfitHandler", "records", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load daily records")
		}

		result, err := ComputeDailyProfit(records, body.SpecialTickets31To34, body.SpecialTickets31To35)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return fiber.NewError(fiber.StatusBadRequest, ve.Error())
			}
			logger.LogError("profit", "SaveDailyProfitHandler", "compute", body, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute profit")
		}

		var row models.DailyProfit
		created := false
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Where("date = ?", date).First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				row = models.DailyProfit{Date: date}
				created = true
			} else if err != nil {
				return err
			}

			row.SpecialTickets31To34 = body.SpecialTickets31To34
			row.SpecialTickets31To35 = body.SpecialTickets31To35
			row.KumaraProfit = result.KumaraProfit
			row.ManagerProfit = result.ManagerProfit
			row.TotalProfit = result.TotalProfit

			return tx.Save(&row).Error
		})
		if txErr != nil {
			logger.LogError("profit", "SaveDailyProfitHandler", "save", body, txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save daily profit")
		}

		action := models.AuditActionUpdate
		if created {
			action = models.AuditActionCreate
		}
		userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
		var user models.User
		database.DB.First(&user, "id = ?", userID)
		if logErr := audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    user.Name,
			EntityType:  "daily_profit",
			EntityID:    row.ID,
			Action:      action,
			Description: fmt.Sprintf("Daily profit saved for %s (total %.0f)", body.Date, row.TotalProfit),
			After:       toResponse(&row),
		}); logErr != nil {
			logger.LogError("profit", "SaveDailyProfitHandler", "audit", nil, logErr)
		}

		status := fiber.StatusOK
		if created {
			status = fiber.StatusCreated
		}
		return c.Status(status).JSON(toResponse(&row))
	}
}

// -------------------------------------------------
// GET /api/daily-profit?date=2025-12-09
// -------------------------------------------------
func GetDailyProfitHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var row models.DailyProfit
		if err := database.DB.Where("date = ?", date).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "No profit entry for that date")
			}
			logger.LogError("profit", "GetDailyProfitHandler", "lookup", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load daily profit")
		}

		return c.JSON(toResponse(&row))
	}
}
