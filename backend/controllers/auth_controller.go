package controllers

import (
	"errors"
	"time"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/models"
	"kiswahili-kwanza/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

// Register godoc
// @Summary Register a new learner account
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Username      string `json:"username"`
		Email         string `json:"email"`
		Password      string `json:"password"`
		GuardianEmail string `json:"guardianEmail"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Missing required fields: username, email, password")
	}
	if len(input.Password) < 6 {
		return utils.BadRequest(c, "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Username:      input.Username,
		Email:         input.Email,
		PasswordHash:  string(hash),
		Role:          "user",
		GuardianEmail: input.GuardianEmail,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return utils.BadRequest(c, "Username or email already taken")
		}
		return utils.InternalServerError(c, "Could not create user")
	}

	ac.DB.Create(&models.UserProgress{UserID: user.ID, LastActive: time.Now(), StreakDays: 1})

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Login godoc
// @Summary Authenticate and receive a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	ac.DB.Create(&models.LoginHistory{UserID: user.ID, LoginTime: time.Now(), IP: c.IP()})
	ac.touchStreak(user.ID)
	ReconcileAchievements(ac.DB, user.ID)

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// touchStreak extends the daily streak when the previous activity was less
// than 48 hours ago, otherwise restarts it at 1.
func (ac *AuthController) touchStreak(userID uint) {
	var progress models.UserProgress
	if err := ac.DB.Where("user_id = ?", userID).First(&progress).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return
		}
		progress = models.UserProgress{UserID: userID, StreakDays: 1}
	} else {
		sinceLast := time.Since(progress.LastActive)
		switch {
		case sinceLast >= 48*time.Hour:
			progress.StreakDays = 1
		case sinceLast >= 24*time.Hour:
			progress.StreakDays++
		}
	}
	progress.LastActive = time.Now()
	ac.DB.Save(&progress)
}
