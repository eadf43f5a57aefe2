package shop

import (
	"strings"

	"lottery-backend/internal/audit"
	"lottery-backend/internal/auth"
	"lottery-backend/internal/database"
	"lottery-backend/internal/logger"
	"lottery-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type ShopResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Address   string `json:"address"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type CreateShopRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

type UpdateShopRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Address *string `json:"address"`
}

type CreateOperatorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func toResponse(s *models.Shop) ShopResponse {
	return ShopResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// SHOP CRUD (admin only)
// ----------------------------------------

func CreateShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateShopRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Shop name must not be empty")
		}

		shop := models.Shop{
			Name:    body.Name,
			Contact: strings.TrimSpace(body.Contact),
			Address: body.Address,
			Active:  true,
		}

		if err := database.DB.Create(&shop).Error; err != nil {
			logger.LogError("shop", "CreateShopHandler", "create", body, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create shop")
		}

		writeAuditLog(c, &shop, models.AuditActionCreate, "Shop created: "+shop.Name)

		return c.Status(fiber.StatusCreated).JSON(toResponse(&shop))
	}
}

func ListShopsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Shop{})
		if c.Query("include_inactive") != "true" {
			dbq = dbq.Where("active = ?", true)
		}

		var shops []models.Shop
		if err := dbq.Order("id asc").Find(&shops).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list shops")
		}

		res := make([]ShopResponse, 0, len(shops))
		for i := range shops {
			res = append(res, toResponse(&shops[i]))
		}

		return c.JSON(res)
	}
}

func GetShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}

		return c.JSON(toResponse(&shop))
	}
}

func UpdateShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}
		before := toResponse(&shop)

		var body UpdateShopRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Shop name must not be empty")
			}
			shop.Name = name
		}
		if body.Contact != nil {
			shop.Contact = strings.TrimSpace(*body.Contact)
		}
		if body.Address != nil {
			shop.Address = *body.Address
		}

		if err := database.DB.Save(&shop).Error; err != nil {
			logger.LogError("shop", "UpdateShopHandler", "save", body, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update shop")
		}

		userID, userName := getUserInfo(c)
		if err := audit.WriteLog(audit.LogOptions{
			ShopID:      &shop.ID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "shop",
			EntityID:    shop.ID,
			Action:      models.AuditActionUpdate,
			Description: "Shop updated: " + shop.Name,
			Before:      before,
			After:       toResponse(&shop),
		}); err != nil {
			logger.LogError("shop", "UpdateShopHandler", "audit", nil, err)
		}

		return c.JSON(toResponse(&shop))
	}
}

// DeleteShopHandler soft-deletes: the shop stays in place with active=false so
// its historical ledger rows keep resolving.
func DeleteShopHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}

		if err := database.DB.Model(&shop).Update("active", false).Error; err != nil {
			logger.LogError("shop", "DeleteShopHandler", "update", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not deactivate shop")
		}

		writeAuditLog(c, &shop, models.AuditActionDelete, "Shop deactivated: "+shop.Name)

		return c.JSON(fiber.Map{"message": "Shop deactivated"})
	}
}

// ----------------------------------------
// Operator accounts attached to a shop
// ----------------------------------------

func CreateShopOperatorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var shop models.Shop
		if err := database.DB.First(&shop, "id = ? AND active = ?", id, true).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}

		var body CreateOperatorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			ShopID:       &shop.ID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleOperator,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "A user with that email already exists")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":      user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"role":    user.Role,
			"shop_id": user.ShopID,
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

func writeAuditLog(c *fiber.Ctx, shop *models.Shop, action models.AuditAction, description string) {
	userID, userName := getUserInfo(c)
	if err := audit.WriteLog(audit.LogOptions{
		ShopID:      &shop.ID,
		UserID:      userID,
		UserName:    userName,
		EntityType:  "shop",
		EntityID:    shop.ID,
		Action:      action,
		Description: description,
		After:       toResponse(shop),
	}); err != nil {
		logger.LogError("shop", "writeAuditLog", "audit", nil, err)
	}
}
