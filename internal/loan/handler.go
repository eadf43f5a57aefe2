package loan

import (
	"errors"
	"fmt"
	"time"

	"lottery-backend/internal/audit"
	"lottery-backend/internal/auth"
	"lottery-backend/internal/config"
	"lottery-backend/internal/database"
	"lottery-backend/internal/logger"
	"lottery-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var validate = validator.New()

type ApplyLoanRequest struct {
	ShopID      uint    `json:"shop_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate string  `json:"payment_date" validate:"required"`
}

type ApplyLoanResponse struct {
	ShopID          uint              `json:"shop_id"`
	TotalPayment    float64           `json:"total_payment"`
	PaymentDate     string            `json:"payment_date"`
	RemainingAmount float64           `json:"remaining_amount"`
	UpdatedRecords  []AllocationEntry `json:"updated_records"`
	IsAdditional    bool              `json:"is_additional"`
}

// -------------------------------------------------
// POST /api/loans
// Applies a loan payment FIFO across the shop's unbalanced daily records.
// The loan upsert and every record update run in one transaction; concurrent
// payments against the same shop serialize on the row locks.
// -------------------------------------------------
func ApplyLoanHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ApplyLoanRequest
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

		paymentDate, err := time.Parse("2006-01-02", body.PaymentDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "payment_date must be 'YYYY-MM-DD'")
		}

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ? AND active = ?", body.ShopID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}

		var resp ApplyLoanResponse
		var loanRec models.LoanRecord

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			isAdditional := false
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("shop_id = ? AND date = ?", body.ShopID, paymentDate).
				First(&loanRec).Error
			switch {
			case err == nil:
				isAdditional = true
			case errors.Is(err, gorm.ErrRecordNotFound):
				loanRec = models.LoanRecord{ShopID: body.ShopID, Date: paymentDate}
			default:
				return err
			}

			var recs []*models.DailyRecord
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("shop_id = ? AND balanced = ? AND date >= ?", body.ShopID, false, cfg.LoansTrackedFrom).
				Order("date asc, id asc").
				Find(&recs).Error; err != nil {
				return err
			}

			entries, remaining := Allocate(recs, body.Amount)

			for _, e := range entries {
				for _, rec := range recs {
					if rec.ID != e.RecordID {
						continue
					}
					if err := tx.Model(&models.DailyRecord{}).
						Where("id = ?", rec.ID).
						Updates(map[string]interface{}{
							"cash_given": rec.CashGiven,
							"balanced":   rec.Balanced,
						}).Error; err != nil {
						return err
					}
					break
				}
			}

			total := decimal.NewFromFloat(loanRec.Amount).
				Add(decimal.NewFromFloat(body.Amount)).Round(2)
			loanRec.Amount, _ = total.Float64()
			if err := tx.Save(&loanRec).Error; err != nil {
				return err
			}

			for _, e := range entries {
				line := models.LoanAllocation{
					LoanRecordID:  loanRec.ID,
					DailyRecordID: e.RecordID,
					Amount:        e.PaymentAmount,
					Balanced:      e.IsBalanced,
				}
				if err := tx.Create(&line).Error; err != nil {
					return err
				}
			}

			resp = ApplyLoanResponse{
				ShopID:          body.ShopID,
				TotalPayment:    loanRec.Amount,
				PaymentDate:     paymentDate.Format("2006-01-02"),
				RemainingAmount: remaining,
				UpdatedRecords:  entries,
				IsAdditional:    isAdditional,
			}
			return nil
		})
		if txErr != nil {
			logger.LogError("loan", "ApplyLoanHandler", "transaction", body, txErr)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not apply loan payment")
		}

		userID, userName := getUserInfo(c)
		if logErr := audit.WriteLog(audit.LogOptions{
			ShopID:      &body.ShopID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "loan",
			EntityID:    loanRec.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Loan payment %.2f applied for shop %d (%d records)", body.Amount, body.ShopID, len(resp.UpdatedRecords)),
			After:       resp,
		}); logErr != nil {
			logger.LogError("loan", "ApplyLoanHandler", "audit", nil, logErr)
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/loans?shop_id=1
// GET /api/loans?type=loan_records&date=2025-12-09
// -------------------------------------------------
func GetLoansHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("type") == "loan_records" {
			return listLoanRecordsByDate(c)
		}

		var shopID uint
		if _, err := fmt.Sscan(c.Query("shop_id"), &shopID); err != nil || shopID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shop_id is required")
		}

		var recs []*models.DailyRecord
		if err := database.DB.
			Where("shop_id = ? AND balanced = ? AND date >= ?", shopID, false, cfg.LoansTrackedFrom).
			Find(&recs).Error; err != nil {
			logger.LogError("loan", "GetLoansHandler", "query", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute unbalanced amount")
		}

		total := decimal.Zero
		for _, rec := range recs {
			if s := Shortfall(rec); s.IsPositive() {
				total = total.Add(s)
			}
		}
		unbalanced, _ := total.Round(2).Float64()

		return c.JSON(fiber.Map{
			"shop_id":           shopID,
			"unbalanced_amount": unbalanced,
		})
	}
}

type LoanRecordItem struct {
	ID       uint    `json:"id"`
	ShopID   uint    `json:"shop_id"`
	ShopName string  `json:"shop_name"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
}

func listLoanRecordsByDate(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
	}

	var loans []models.LoanRecord
	if err := database.DB.Preload("Shop").
		Where("date = ?", date).
		Order("shop_id asc").
		Find(&loans).Error; err != nil {
		logger.LogError("loan", "listLoanRecordsByDate", "query", nil, err)
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list loan records")
	}

	items := make([]LoanRecordItem, 0, len(loans))
	total := decimal.Zero
	for _, l := range loans {
		items = append(items, LoanRecordItem{
			ID:       l.ID,
			ShopID:   l.ShopID,
			ShopName: l.Shop.Name,
			Date:     l.Date.Format("2006-01-02"),
			Amount:   l.Amount,
		})
		total = total.Add(decimal.NewFromFloat(l.Amount))
	}
	totalF, _ := total.Round(2).Float64()

	return c.JSON(fiber.Map{
		"date":  date.Format("2006-01-02"),
		"loans": items,
		"total": totalF,
	})
}

// -------------------------------------------------
// GET /api/loans/allocations?loan_id=1
// -------------------------------------------------
func ListAllocationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var loanID uint
		if _, err := fmt.Sscan(c.Query("loan_id"), &loanID); err != nil || loanID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "loan_id is required")
		}

		var loanRec models.LoanRecord
		if err := database.DB.First(&loanRec, "id = ?", loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Loan record not found")
			}
			logger.LogError("loan", "ListAllocationsHandler", "lookup", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load loan record")
		}

		var lines []models.LoanAllocation
		if err := database.DB.Preload("DailyRecord").
			Where("loan_record_id = ?", loanID).
			Order("id asc").
			Find(&lines).Error; err != nil {
			logger.LogError("loan", "ListAllocationsHandler", "query", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list allocations")
		}

		entries := make([]AllocationEntry, 0, len(lines))
		for _, l := range lines {
			entries = append(entries, AllocationEntry{
				RecordID:      l.DailyRecordID,
				Date:          l.DailyRecord.Date.Format("2006-01-02"),
				PaymentAmount: l.Amount,
				IsBalanced:    l.Balanced,
			})
		}

		return c.JSON(fiber.Map{
			"loan_id":     loanRec.ID,
			"shop_id":     loanRec.ShopID,
			"date":        loanRec.Date.Format("2006-01-02"),
			"amount":      loanRec.Amount,
			"allocations": entries,
		})
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
