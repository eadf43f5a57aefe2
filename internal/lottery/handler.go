package lottery

import (
	"strings"

	"lottery-backend/internal/database"
	"lottery-backend/internal/logger"
	"lottery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LotteryResponse struct {
	ID     uint                `json:"id"`
	Name   string              `json:"name"`
	Board  models.LotteryBoard `json:"board"`
	Active bool                `json:"active"`
}

type CreateLotteryRequest struct {
	Name  string              `json:"name"`
	Board models.LotteryBoard `json:"board"`
}

type UpdateLotteryRequest struct {
	Name   *string              `json:"name"`
	Board  *models.LotteryBoard `json:"board"`
	Active *bool                `json:"active"`
}

func toResponse(l *models.Lottery) LotteryResponse {
	return LotteryResponse{ID: l.ID, Name: l.Name, Board: l.Board, Active: l.Active}
}

func CreateLotteryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateLotteryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Lottery name must not be empty")
		}
		if body.Board != models.BoardNLB && body.Board != models.BoardDLB {
			return fiber.NewError(fiber.StatusBadRequest, "board must be 'nlb' or 'dlb'")
		}

		l := models.Lottery{Name: body.Name, Board: body.Board, Active: true}
		if err := database.DB.Create(&l).Error; err != nil {
			logger.LogError("lottery", "CreateLotteryHandler", "create", body, err)
			return fiber.NewError(fiber.StatusConflict, "A lottery with that name already exists")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&l))
	}
}

func ListLotteriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Lottery{})
		if c.Query("include_inactive") != "true" {
			dbq = dbq.Where("active = ?", true)
		}

		var lotteries []models.Lottery
		if err := dbq.Order("id asc").Find(&lotteries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list lotteries")
		}

		res := make([]LotteryResponse, 0, len(lotteries))
		for i := range lotteries {
			res = append(res, toResponse(&lotteries[i]))
		}
		return c.JSON(res)
	}
}

func UpdateLotteryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var l models.Lottery
		if err := database.DB.First(&l, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lottery not found")
		}

		var body UpdateLotteryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Lottery name must not be empty")
			}
			l.Name = name
		}
		if body.Board != nil {
			if *body.Board != models.BoardNLB && *body.Board != models.BoardDLB {
				return fiber.NewError(fiber.StatusBadRequest, "board must be 'nlb' or 'dlb'")
			}
			l.Board = *body.Board
		}
		if body.Active != nil {
			l.Active = *body.Active
		}

		if err := database.DB.Save(&l).Error; err != nil {
			logger.LogError("lottery", "UpdateLotteryHandler", "save", body, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update lottery")
		}

		return c.JSON(toResponse(&l))
	}
}
