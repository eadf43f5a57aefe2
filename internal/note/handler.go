package note

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"lottery-backend/internal/database"
	"lottery-backend/internal/logger"
	"lottery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NoteResponse struct {
	ID     uint   `json:"id"`
	ShopID uint   `json:"shop_id"`
	Date   string `json:"date"`
	Body   string `json:"body"`
}

type CreateNoteRequest struct {
	ShopID uint   `json:"shop_id"`
	Date   string `json:"date"`
	Body   string `json:"body"`
}

type UpdateNoteRequest struct {
	Body string `json:"body"`
}

func toResponse(n *models.ShopNote) NoteResponse {
	return NoteResponse{ID: n.ID, ShopID: n.ShopID, Date: n.Date.Format("2006-01-02"), Body: n.Body}
}

// -------------------------------------------------
// POST /api/shop-notes
// One note per (shop, date); a second submission is a conflict.
// -------------------------------------------------
func CreateNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.ShopID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shop_id is required")
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}
		body.Body = strings.TrimSpace(body.Body)
		if body.Body == "" {
			return fiber.NewError(fiber.StatusBadRequest, "body must not be empty")
		}

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ? AND active = ?", body.ShopID, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}

		var existing models.ShopNote
		err = database.DB.Where("shop_id = ? AND date = ?", body.ShopID, date).First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict, "A note for that shop and date already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.LogError("note", "CreateNoteHandler", "lookup", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create note")
		}

		n := models.ShopNote{ShopID: body.ShopID, Date: date, Body: body.Body}
		if err := database.DB.Create(&n).Error; err != nil {
			logger.LogError("note", "CreateNoteHandler", "create", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create note")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&n))
	}
}

// -------------------------------------------------
// GET /api/shop-notes?shop_id=1&from=&to=
// -------------------------------------------------
func ListNotesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shopID uint
		if _, err := fmt.Sscan(c.Query("shop_id"), &shopID); err != nil || shopID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shop_id is required")
		}

		dbq := database.DB.Where("shop_id = ?", shopID)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from date is invalid")
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to date is invalid")
			}
			dbq = dbq.Where("date <= ?", to)
		}

		var notes []models.ShopNote
		if err := dbq.Order("date asc, id asc").Find(&notes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notes")
		}

		res := make([]NoteResponse, 0, len(notes))
		for i := range notes {
			res = append(res, toResponse(&notes[i]))
		}
		return c.JSON(res)
	}
}

// -------------------------------------------------
// PUT /api/shop-notes/:id
// -------------------------------------------------
func UpdateNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var n models.ShopNote
		if err := database.DB.First(&n, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Note not found")
		}

		var body UpdateNoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Body = strings.TrimSpace(body.Body)
		if body.Body == "" {
			return fiber.NewError(fiber.StatusBadRequest, "body must not be empty")
		}

		n.Body = body.Body
		if err := database.DB.Save(&n).Error; err != nil {
			logger.LogError("note", "UpdateNoteHandler", "save", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update note")
		}

		return c.JSON(toResponse(&n))
	}
}

// -------------------------------------------------
// DELETE /api/shop-notes/:id
// -------------------------------------------------
func DeleteNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var n models.ShopNote
		if err := database.DB.First(&n, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Note not found")
		}

		if err := database.DB.Delete(&n).Error; err != nil {
			logger.LogError("note", "DeleteNoteHandler", "delete", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete note")
		}

		return c.JSON(fiber.Map{"message": "Note deleted"})
	}
}
