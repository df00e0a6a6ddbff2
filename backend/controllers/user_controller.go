package controllers

import (
	"errors"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/models"
	"kiswahili-kwanza/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var progress models.UserProgress
	uc.DB.Where("user_id = ?", userID).First(&progress)

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":             user.ID,
			"username":       user.Username,
			"email":          user.Email,
			"role":           user.Role,
			"guardian_email": user.GuardianEmail,
		},
		"stats": fiber.Map{
			"streak_days":       progress.StreakDays,
			"lessons_completed": progress.LessonsCompleted,
			"quizzes_completed": progress.QuizzesCompleted,
			"points_earned":     progress.PointsEarned,
			"last_active":       progress.LastActive,
		},
	})
}

func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input struct {
		Username      string `json:"username"`
		GuardianEmail string `json:"guardianEmail"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.GuardianEmail != "" {
		user.GuardianEmail = input.GuardianEmail
	}
	if err := uc.DB.Save(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return utils.BadRequest(c, "Username already taken")
		}
		return utils.InternalServerError(c, "Could not update user")
	}

	return c.JSON(fiber.Map{"success": true})
}
