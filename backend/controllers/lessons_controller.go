package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/models"
	"kiswahili-kwanza/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LessonsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLessonsController(db *gorm.DB, cfg *config.Config) *LessonsController {
	return &LessonsController{DB: db, Cfg: cfg}
}

// GetLessons godoc
// @Summary List active lessons with the caller's progress
// @Tags lessons
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Security ApiKeyAuth
// @Router /lessons [get]
func (lc *LessonsController) GetLessons(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var lessons []models.Lesson
	if err := lc.DB.Where("is_active = ?", true).
		Order("difficulty, sequence_order").
		Find(&lessons).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var result []fiber.Map
	for _, lesson := range lessons {
		var progress models.ReadingProgress
		lc.DB.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&progress)

		var prerequisites []string
		json.Unmarshal([]byte(lesson.Prerequisites), &prerequisites)

		result = append(result, fiber.Map{
			"id":                    lesson.ID,
			"slug":                  lesson.Slug,
			"title":                 lesson.Title,
			"title_english":         lesson.TitleEnglish,
			"description":           lesson.Description,
			"difficulty":            lesson.Difficulty,
			"prerequisites":         prerequisites,
			"quiz_unlock_threshold": lesson.QuizUnlockThreshold,
			"unlocked":              len(prerequisites) == 0 || progress.Unlocked,
			"flashcards_completed":  progress.FlashcardsCompleted,
			"story_completed":       progress.StoryCompleted,
		})
	}

	return c.JSON(result)
}

func (lc *LessonsController) GetLessonDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	lesson, err := lc.findLesson(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var progress models.ReadingProgress
	lc.DB.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&progress)

	var vocabulary []fiber.Map
	for _, card := range lesson.Flashcards {
		vocabulary = append(vocabulary, fiber.Map{
			"kiswahili": card.Kiswahili,
			"english":   card.English,
		})
	}

	return c.JSON(fiber.Map{
		"lesson": fiber.Map{
			"id":                    lesson.ID,
			"slug":                  lesson.Slug,
			"title":                 lesson.Title,
			"title_english":         lesson.TitleEnglish,
			"description":           lesson.Description,
			"difficulty":            lesson.Difficulty,
			"quiz_unlock_threshold": lesson.QuizUnlockThreshold,
			"reading_material":      lesson.ReadingMaterial,
			"vocabulary":            vocabulary,
		},
		"progress": progress,
	})
}

func (lc *LessonsController) GetFlashcards(c *fiber.Ctx) error {
	lesson, err := lc.findLesson(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var cards []models.Flashcard
	if err := lc.DB.Where("lesson_id = ?", lesson.ID).
		Order("sequence_order").
		Find(&cards).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(cards)
}

// GetStory serves the lesson's story. The story phase stays closed until the
// flashcard phase of the same lesson is complete.
func (lc *LessonsController) GetStory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	lesson, err := lc.findLesson(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var progress models.ReadingProgress
	lc.DB.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&progress)
	if !progress.CanAccessStory() {
		return utils.Forbidden(c, "Complete the flashcards first to unlock this story")
	}

	var story models.Story
	if err := lc.DB.Where("lesson_id = ?", lesson.ID).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Story not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var highlighted []fiber.Map
	json.Unmarshal([]byte(story.HighlightedWords), &highlighted)

	return c.JSON(fiber.Map{
		"lesson_id":         lesson.ID,
		"title":             story.Title,
		"title_english":     story.TitleEnglish,
		"content":           story.Content,
		"highlighted_words": highlighted,
	})
}

// CompleteLesson godoc
// @Summary Mark a lesson phase as completed
// @Description Records flashcard or story completion, unlocks the next lesson and optionally issues a badge
// @Tags lessons
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /lessons/complete [post]
func (lc *LessonsController) CompleteLesson(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input struct {
		LessonID json.RawMessage `json:"lessonId"`
		BadgeID  uint            `json:"badgeId"`
		Type     string          `json:"type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Type != "flashcards" && input.Type != "story" {
		return utils.BadRequest(c, "Type must be 'flashcards' or 'story'")
	}

	lesson, err := lc.findLesson(rawLessonID(input.LessonID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var progress models.ReadingProgress
	if err := lc.DB.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&progress).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}
		progress = models.ReadingProgress{UserID: userID, LessonID: lesson.ID}
	}

	switch input.Type {
	case "flashcards":
		progress.FlashcardsCompleted = true
		progress.Unlocked = true
	case "story":
		if !progress.CanAccessStory() {
			return utils.Forbidden(c, "Complete the flashcards first")
		}
		progress.StoryCompleted = true
	}
	progress.LastAttempt = time.Now()

	if err := lc.DB.Save(&progress).Error; err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	// Unlock the successor in the ordered lesson list; no-op when this is
	// the final lesson.
	if err := lc.unlockNextLesson(userID, lesson); err != nil {
		return utils.InternalServerError(c, "Could not unlock next lesson")
	}

	if input.Type == "story" {
		bumpUserStats(lc.DB, userID, 25, 1, 0)
	} else {
		bumpUserStats(lc.DB, userID, 10, 0, 0)
	}

	badgeIssued := false
	if input.BadgeID != 0 {
		badgeIssued, err = IssueBadge(lc.DB, userID, input.BadgeID)
		if err != nil {
			return utils.InternalServerError(c, "Could not issue badge")
		}
	}

	ReconcileAchievements(lc.DB, userID)

	return c.JSON(fiber.Map{
		"success":      true,
		"badge_issued": badgeIssued,
	})
}

// findLesson resolves a lesson by numeric id or by slug.
func (lc *LessonsController) findLesson(id string) (*models.Lesson, error) {
	var lesson models.Lesson
	query := lc.DB.Preload("Flashcards", func(db *gorm.DB) *gorm.DB {
		return db.Order("flashcards.sequence_order")
	}).Where("is_active = ?", true)

	if numeric, err := strconv.Atoi(id); err == nil {
		query = query.Where("lessons.id = ?", numeric)
	} else {
		query = query.Where("slug = ?", id)
	}
	if err := query.First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (lc *LessonsController) unlockNextLesson(userID uint, current *models.Lesson) error {
	var next models.Lesson
	err := lc.DB.Where("is_active = ? AND (difficulty > ? OR (difficulty = ? AND sequence_order > ?))",
		true, current.Difficulty, current.Difficulty, current.SequenceOrder).
		Order("difficulty, sequence_order").
		First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var progress models.ReadingProgress
	if err := lc.DB.Where("user_id = ? AND lesson_id = ?", userID, next.ID).First(&progress).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		progress = models.ReadingProgress{UserID: userID, LessonID: next.ID}
	}
	progress.Unlocked = true
	return lc.DB.Save(&progress).Error
}

// rawLessonID tolerates both JSON numbers and strings for lessonId.
func rawLessonID(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber int
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.Itoa(asNumber)
	}
	return string(raw)
}

// bumpUserStats adds to the caller's aggregate counters, creating the row on
// first interaction.
func bumpUserStats(db *gorm.DB, userID uint, points, lessons, quizzes int) {
	var progress models.UserProgress
	if err := db.Where("user_id = ?", userID).First(&progress).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return
		}
		progress = models.UserProgress{UserID: userID, LastActive: time.Now()}
	}
	progress.PointsEarned += points
	progress.LessonsCompleted += lessons
	progress.QuizzesCompleted += quizzes
	progress.LastActive = time.Now()
	db.Save(&progress)
}
