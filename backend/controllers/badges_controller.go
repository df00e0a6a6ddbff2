package controllers

import (
	"errors"
	"strings"
	"time"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/models"
	"kiswahili-kwanza/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BadgesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewBadgesController(db *gorm.DB, cfg *config.Config) *BadgesController {
	return &BadgesController{DB: db, Cfg: cfg}
}

// IssueBadge grants a badge to a user at most once. The insert is the check:
// the composite unique index on (user_id, badge_id) makes the second grant a
// duplicate-key error, reported as issued=false.
func IssueBadge(db *gorm.DB, userID, badgeID uint) (bool, error) {
	userBadge := models.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: time.Now(),
		Level:    1,
	}
	if err := db.Create(&userBadge).Error; err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers without error translation.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key")
}

// ReconcileAchievements evaluates every active badge rule against the user's
// aggregate stats and grants whatever is missing. Safe to call after any
// stat-mutating event; repeated calls are no-ops thanks to IssueBadge.
func ReconcileAchievements(db *gorm.DB, userID uint) error {
	var progress models.UserProgress
	if err := db.Where("user_id = ?", userID).First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var badges []models.Badge
	if err := db.Where("is_active = ?", true).Order("display_order").Find(&badges).Error; err != nil {
		return err
	}

	rewarded := 0
	for _, badge := range badges {
		if statValue(&progress, badge.RequirementType) < badge.RequirementValue {
			continue
		}
		issued, err := IssueBadge(db, userID, badge.ID)
		if err != nil {
			return err
		}
		if issued {
			rewarded += badge.Points
		}
	}

	if rewarded > 0 {
		return db.Model(&models.UserProgress{}).
			Where("user_id = ?", userID).
			UpdateColumn("points_earned", gorm.Expr("points_earned + ?", rewarded)).Error
	}
	return nil
}

func statValue(progress *models.UserProgress, requirementType string) int {
	switch requirementType {
	case models.RequirementLessonsCompleted:
		return progress.LessonsCompleted
	case models.RequirementStreakDays:
		return progress.StreakDays
	case models.RequirementPointsEarned:
		return progress.PointsEarned
	case models.RequirementQuizzesCompleted:
		return progress.QuizzesCompleted
	default:
		return 0
	}
}

// GetBadges godoc
// @Summary List badges for the current user
// @Tags badges
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /badges [get]
func (bc *BadgesController) GetBadges(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var userBadges []models.UserBadge
	if err := bc.DB.Where("user_id = ?", userID).Find(&userBadges).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	badgeIDs := make([]uint, 0, len(userBadges))
	for _, ub := range userBadges {
		badgeIDs = append(badgeIDs, ub.BadgeID)
	}

	var badges []models.Badge
	if len(badgeIDs) > 0 {
		if err := bc.DB.Where("id IN ?", badgeIDs).Find(&badges).Error; err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
	}

	return c.JSON(fiber.Map{
		"badges":      badges,
		"user_badges": userBadges,
	})
}

// IssueBadge godoc
// @Summary Issue a badge to the current user
// @Tags badges
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /badges [post]
func (bc *BadgesController) IssueBadge(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input struct {
		BadgeID uint `json:"badgeId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.BadgeID == 0 {
		return utils.BadRequest(c, "Missing badgeId")
	}

	var badge models.Badge
	if err := bc.DB.First(&badge, input.BadgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Badge not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	issued, err := IssueBadge(bc.DB, userID, badge.ID)
	if err != nil {
		return utils.InternalServerError(c, "Could not issue badge")
	}
	if !issued {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Badge already issued",
			"issued":  false,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"issued":  true,
	})
}
