package dailyrecord

import (
	"errors"
	"fmt"
	"time"

	"lottery-backend/internal/audit"
	"lottery-backend/internal/auth"
	"lottery-backend/internal/database"
	"lottery-backend/internal/logger"
	"lottery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InitialiseRequest struct {
	ShopID uint     `json:"shop_id"`
	Date   string   `json:"date"` // "2006-01-02"
	Data   StepData `json:"data"`
}

type ApplyStepRequest struct {
	ID   uint     `json:"id"`
	Step int      `json:"step"`
	Data StepData `json:"data"`
}

type DailyRecordResponse struct {
	ID                   uint                   `json:"id"`
	ShopID               uint                   `json:"shop_id"`
	Date                 string                 `json:"date"`
	PricePerLottery      float64                `json:"price_per_lottery"`
	LotteryQuantity      int                    `json:"lottery_quantity"`
	TotalWorth           float64                `json:"total_worth"`
	CashGiven            float64                `json:"cash_given"`
	GotTicketsTotalPrice float64                `json:"got_tickets_total_price"`
	NLB                  models.TicketBreakdown `json:"nlb"`
	NLBTotalPrice        float64                `json:"nlb_total_price"`
	DLB                  models.TicketBreakdown `json:"dlb"`
	DLBTotalPrice        float64                `json:"dlb_total_price"`
	Faulty               models.TicketBreakdown `json:"faulty"`
	FaultyTotalPrice     float64                `json:"faulty_total_price"`
	SpecialLotteriesNote string                 `json:"special_lotteries_note"`
	EqualityCheck        bool                   `json:"equality_check"`
	Balanced             bool                   `json:"balanced"`
	Step                 int                    `json:"step"`
	Completed            bool                   `json:"completed"`
}

func toResponse(rec *models.DailyRecord) DailyRecordResponse {
	nlb := rec.NLB
	if nlb == nil {
		nlb = models.TicketBreakdown{}
	}
	dlb := rec.DLB
	if dlb == nil {
		dlb = models.TicketBreakdown{}
	}
	faulty := rec.Faulty
	if faulty == nil {
		faulty = models.TicketBreakdown{}
	}
	return DailyRecordResponse{
		ID:                   rec.ID,
		ShopID:               rec.ShopID,
		Date:                 rec.Date.Format("2006-01-02"),
		PricePerLottery:      rec.PricePerLottery,
		LotteryQuantity:      rec.LotteryQuantity,
		TotalWorth:           rec.TotalWorth,
		CashGiven:            rec.CashGiven,
		GotTicketsTotalPrice: rec.GotTicketsTotalPrice,
		NLB:                  nlb,
		NLBTotalPrice:        rec.NLBTotalPrice,
		DLB:                  dlb,
		DLBTotalPrice:        rec.DLBTotalPrice,
		Faulty:               faulty,
		FaultyTotalPrice:     rec.FaultyTotalPrice,
		SpecialLotteriesNote: rec.SpecialLotteriesNote,
		EqualityCheck:        rec.EqualityCheck,
		Balanced:             rec.Balanced,
		Step:                 rec.Step,
		Completed:            rec.Completed,
	}
}

func getUserInfo(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return userID, ""
	}
	return userID, user.Name
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// -------------------------------------------------
// POST /api/daily-records/initialise
// Upserts the (shop, date) record with its step 1 data.
// -------------------------------------------------
func InitialiseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body InitialiseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ShopID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shop_id is required")
		}
		date, err := parseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ? AND active = ?", body.ShopID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}

		var rec models.DailyRecord
		err = database.DB.Where("shop_id = ? AND date = ?", body.ShopID, date).First(&rec).Error
		created := false
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rec = models.DailyRecord{
				ShopID: body.ShopID,
				Date:   date,
				NLB:    models.TicketBreakdown{},
				DLB:    models.TicketBreakdown{},
				Faulty: models.TicketBreakdown{},
				Step:   1,
			}
			created = true
		} else if err != nil {
			logger.LogError("dailyrecord", "InitialiseHandler", "lookup", body, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load record")
		}

		if err := ApplyStep(&rec, 1, body.Data); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return fiber.NewError(fiber.StatusBadRequest, ve.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not apply step")
		}

		if err := database.DB.Save(&rec).Error; err != nil {
			logger.LogError("dailyrecord", "InitialiseHandler", "save", body, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save record")
		}

		action := models.AuditActionUpdate
		msg := "Daily record updated"
		if created {
			action = models.AuditActionCreate
			msg = "Daily record initialised"
		}
		userID, userName := getUserInfo(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			ShopID:      &rec.ShopID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "daily_record",
			EntityID:    rec.ID,
			Action:      action,
			Description: fmt.Sprintf("Daily record %s for shop %d on %s", action, rec.ShopID, body.Date),
			After:       toResponse(&rec),
		}); logErr != nil {
			logger.LogError("dailyrecord", "InitialiseHandler", "audit", nil, logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"record_id": rec.ID,
			"message":   msg,
		})
	}
}

// -------------------------------------------------
// POST /api/daily-records
// Applies one step of the entry sequence to an existing record.
// -------------------------------------------------
func ApplyStepHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ApplyStepRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is required")
		}

		var rec models.DailyRecord
		var before DailyRecordResponse

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&rec, "id = ?", body.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Daily record not found")
				}
				return err
			}
			before = toResponse(&rec)

			if err := ApplyStep(&rec, body.Step, body.Data); err != nil {
				var ve *ValidationError
				if errors.As(err, &ve) {
					return fiber.NewError(fiber.StatusBadRequest, ve.Error())
				}
				return err
			}

			return tx.Save(&rec).Error
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			logger.LogError("dailyrecord", "ApplyStepHandler", "transaction", body, txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save record")
		}

		userID, userName := getUserInfo(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			ShopID:      &rec.ShopID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "daily_record",
			EntityID:    rec.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Step %d applied to daily record %d", body.Step, rec.ID),
			Before:      before,
			After:       toResponse(&rec),
		}); logErr != nil {
			logger.LogError("dailyrecord", "ApplyStepHandler", "audit", nil, logErr)
		}

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("Step %d saved", body.Step),
			"id":      rec.ID,
			"record":  toResponse(&rec),
		})
	}
}

// -------------------------------------------------
// GET /api/daily-records?shop_id=1&date=2025-12-09
// Returns the record, or an empty template when none exists yet.
// -------------------------------------------------
func GetDailyRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shopID uint
		if _, err := fmt.Sscan(c.Query("shop_id"), &shopID); err != nil || shopID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shop_id is required")
		}
		date, err := parseDate(c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var rec models.DailyRecord
		err = database.DB.Where("shop_id = ? AND date = ?", shopID, date).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(DailyRecordResponse{
				ShopID: shopID,
				Date:   date.Format("2006-01-02"),
				NLB:    models.TicketBreakdown{},
				DLB:    models.TicketBreakdown{},
				Faulty: models.TicketBreakdown{},
			})
		}
		if err != nil {
			logger.LogError("dailyrecord", "GetDailyRecordHandler", "lookup", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load record")
		}

		return c.JSON(toResponse(&rec))
	}
}

// -------------------------------------------------
// DELETE /api/daily-records?shop_id=1&date=2025-12-09
// -------------------------------------------------
func DeleteDailyRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shopID uint
		if _, err := fmt.Sscan(c.Query("shop_id"), &shopID); err != nil || shopID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shop_id is required")
		}
		date, err := parseDate(c.Query("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var rec models.DailyRecord
		if err := database.DB.Where("shop_id = ? AND date = ?", shopID, date).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Daily record not found")
			}
			logger.LogError("dailyrecord", "DeleteDailyRecordHandler", "lookup", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load record")
		}

		if err := database.DB.Delete(&rec).Error; err != nil {
			logger.LogError("dailyrecord", "DeleteDailyRecordHandler", "delete", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete record")
		}

		userID, userName := getUserInfo(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			ShopID:      &rec.ShopID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "daily_record",
			EntityID:    rec.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Daily record deleted for shop %d on %s", shopID, date.Format("2006-01-02")),
			Before:      toResponse(&rec),
		}); logErr != nil {
			logger.LogError("dailyrecord", "DeleteDailyRecordHandler", "audit", nil, logErr)
		}

		return c.JSON(fiber.Map{"message": "Daily record deleted"})
	}
}
