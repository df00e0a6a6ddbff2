package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/llm"
	"kiswahili-kwanza/backend/models"
	"kiswahili-kwanza/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizGenerator abstracts the LLM so tests can stub it out.
type QuizGenerator interface {
	GenerateQuiz(req llm.QuizRequest) (*models.Quiz, error)
}

type QuizController struct {
	DB  *gorm.DB
	Cfg *config.Config
	LLM QuizGenerator
}

func NewQuizController(db *gorm.DB, cfg *config.Config, generator QuizGenerator) *QuizController {
	return &QuizController{DB: db, Cfg: cfg, LLM: generator}
}

// Topic progression per learner level, in the order they should be studied.
var levelTopics = map[string][]string{
	"beginner":     {"nambari", "rangi"},
	"intermediate": {"familia_ndogo", "siku_za_wiki"},
	"advanced":     {"matunda", "familia_kubwa", "miezi_ya_mwaka"},
}

// GenerateQuiz godoc
// @Summary Generate a quiz for a topic
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /quiz/generate [post]
func (qc *QuizController) GenerateQuiz(c *fiber.Ctx) error {
	var input llm.QuizRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Topic == "" || input.Difficulty == "" || input.QuestionCount == 0 {
		return utils.BadRequest(c, "Missing required fields: topic, difficulty, questionCount")
	}
	if input.Category == "" {
		input.Category = input.Topic
	}

	quiz, err := qc.generate(input)
	if err != nil {
		return utils.InternalServerError(c, "Failed to generate quiz")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"quiz":    quiz,
	})
}

// AutoGenerateQuiz derives topic and difficulty from the caller's recorded
// level, then generates a five-question quiz for the first topic of that level
// the learner has not finished yet.
func (qc *QuizController) AutoGenerateQuiz(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var progress models.UserProgress
	qc.DB.Where("user_id = ?", userID).First(&progress)

	level := levelForLessons(progress.LessonsCompleted)
	topics := levelTopics[level]

	currentTopic := topics[0]
	completed := 0
	for _, topic := range topics {
		if qc.topicCompleted(userID, topic) {
			completed++
			continue
		}
		currentTopic = topic
		break
	}

	quiz, err := qc.generate(llm.QuizRequest{
		Topic:           currentTopic,
		Category:        currentTopic,
		Difficulty:      level,
		QuestionCount:   5,
		QuestionTypes:   []string{"multiple-choice", "fill-blank"},
		CulturalContext: true,
	})
	if err != nil {
		return utils.InternalServerError(c, "Failed to generate quiz")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"quiz":    quiz,
		"user_level": fiber.Map{
			"level":         level,
			"current_topic": currentTopic,
			"progress":      fmt.Sprintf("%d/%d", completed, len(topics)),
		},
	})
}

// generate builds image-category quizzes locally from flashcards and sends
// everything else to the LLM, falling back to the local builder when the
// model is unreachable and the category has cards.
func (qc *QuizController) generate(req llm.QuizRequest) (*models.Quiz, error) {
	category := strings.ToLower(req.Category)
	if imageCategories[category] {
		if lesson, err := qc.lessonBySlug(category); err == nil && len(lesson.Flashcards) > 0 {
			return buildFlashcardQuiz(lesson, req.Difficulty, req.QuestionCount), nil
		}
	}

	quiz, err := qc.LLM.GenerateQuiz(req)
	if err == nil {
		return quiz, nil
	}

	if lesson, fallbackErr := qc.lessonBySlug(category); fallbackErr == nil && len(lesson.Flashcards) > 0 {
		return buildFlashcardQuiz(lesson, req.Difficulty, req.QuestionCount), nil
	}
	return nil, err
}

func (qc *QuizController) lessonBySlug(slug string) (*models.Lesson, error) {
	var lesson models.Lesson
	err := qc.DB.Preload("Flashcards", func(db *gorm.DB) *gorm.DB {
		return db.Order("flashcards.sequence_order")
	}).Where("slug = ? AND is_active = ?", slug, true).First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (qc *QuizController) topicCompleted(userID uint, slug string) bool {
	var lesson models.Lesson
	if err := qc.DB.Where("slug = ?", slug).First(&lesson).Error; err != nil {
		return false
	}
	var progress models.ReadingProgress
	if err := qc.DB.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&progress).Error; err != nil {
		return false
	}
	return progress.StoryCompleted
}

func levelForLessons(lessonsCompleted int) string {
	switch {
	case lessonsCompleted < 2:
		return "beginner"
	case lessonsCompleted < 4:
		return "intermediate"
	default:
		return "advanced"
	}
}

// SubmitQuiz godoc
// @Summary Grade a quiz submission server-side
// @Description Scores the submitted answers, persists the attempt and updates the per-quiz summary
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /quiz/submit [post]
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input struct {
		Quiz      models.Quiz                   `json:"quiz"`
		Answers   map[string]models.AnswerValue `json:"answers"`
		StartedAt *time.Time                    `json:"startedAt"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Quiz.ID == "" || len(input.Quiz.Questions) == 0 {
		return utils.BadRequest(c, "Missing quiz definition")
	}

	result := ScoreQuiz(&input.Quiz, input.Answers)

	startedAt := time.Now()
	if input.StartedAt != nil {
		startedAt = *input.StartedAt
	}

	attempt, err := qc.persistAttempt(userID, attemptRecord{
		QuizID:      input.Quiz.ID,
		Score:       result.Score,
		TotalPoints: result.TotalPoints,
		Percentage:  result.Percentage,
		Passed:      result.Passed,
		Answers:     input.Answers,
		Mistakes:    result.Mistakes,
		Category:    input.Quiz.Category,
		Difficulty:  input.Quiz.Difficulty,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not save attempt")
	}

	bumpUserStats(qc.DB, userID, result.Score, 0, 1)
	ReconcileAchievements(qc.DB, userID)

	return c.JSON(fiber.Map{
		"success":        true,
		"attempt_id":     attempt.AttemptID,
		"score":          result.Score,
		"total_points":   result.TotalPoints,
		"percentage":     result.Percentage,
		"passed":         result.Passed,
		"mistakes":       result.Mistakes,
		"recommendation": GetRecommendation(result.Percentage, input.Quiz.Category),
	})
}

// SaveQuizProgress godoc
// @Summary Record a quiz attempt scored by the client
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/progress [post]
func (qc *QuizController) SaveQuizProgress(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var input struct {
		QuizID      string                        `json:"quizId"`
		Score       *int                          `json:"score"`
		TotalPoints int                           `json:"totalPoints"`
		Percentage  int                           `json:"percentage"`
		Answers     map[string]models.AnswerValue `json:"answers"`
		Mistakes    []models.QuizMistake          `json:"mistakes"`
		CompletedAt *time.Time                    `json:"completedAt"`
		Category    string                        `json:"category"`
		Difficulty  string                        `json:"difficulty"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.QuizID == "" || input.Score == nil {
		return utils.BadRequest(c, "Missing quizId or score")
	}

	completedAt := time.Now()
	if input.CompletedAt != nil {
		completedAt = *input.CompletedAt
	}

	_, err := qc.persistAttempt(userID, attemptRecord{
		QuizID:      input.QuizID,
		Score:       *input.Score,
		TotalPoints: input.TotalPoints,
		Percentage:  input.Percentage,
		Passed:      input.Percentage >= defaultPassingScore,
		Answers:     input.Answers,
		Mistakes:    input.Mistakes,
		Category:    input.Category,
		Difficulty:  input.Difficulty,
		StartedAt:   completedAt,
		CompletedAt: completedAt,
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not save attempt")
	}

	bumpUserStats(qc.DB, userID, *input.Score, 0, 1)
	ReconcileAchievements(qc.DB, userID)

	return c.JSON(fiber.Map{"success": true})
}

// GetQuizProgress lists the caller's attempts, newest first.
func (qc *QuizController) GetQuizProgress(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var attempts []models.QuizAttempt
	if err := qc.DB.Where("user_id = ?", userID).
		Order("completed_at desc, created_at desc").
		Find(&attempts).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(fiber.Map{"attempts": attempts})
}

type attemptRecord struct {
	QuizID      string
	Score       int
	TotalPoints int
	Percentage  int
	Passed      bool
	Answers     map[string]models.AnswerValue
	Mistakes    []models.QuizMistake
	Category    string
	Difficulty  string
	StartedAt   time.Time
	CompletedAt time.Time
}

// persistAttempt stores the immutable attempt row, then folds it into the
// per-(user, quiz) summary: last* fields overwritten, attempt counter bumped,
// best* raised via max.
func (qc *QuizController) persistAttempt(userID uint, rec attemptRecord) (*models.QuizAttempt, error) {
	answersJSON, err := json.Marshal(rec.Answers)
	if err != nil {
		return nil, err
	}
	mistakesJSON, err := json.Marshal(rec.Mistakes)
	if err != nil {
		return nil, err
	}

	attempt := models.QuizAttempt{
		AttemptID:   "attempt_" + uuid.New().String(),
		UserID:      userID,
		QuizID:      rec.QuizID,
		Score:       rec.Score,
		TotalPoints: rec.TotalPoints,
		Percentage:  rec.Percentage,
		Passed:      rec.Passed,
		Answers:     string(answersJSON),
		Mistakes:    string(mistakesJSON),
		Category:    rec.Category,
		Difficulty:  rec.Difficulty,
		StartedAt:   rec.StartedAt,
		CompletedAt: rec.CompletedAt,
	}
	if err := qc.DB.Create(&attempt).Error; err != nil {
		return nil, err
	}

	var summary models.QuizProgress
	if err := qc.DB.Where("user_id = ? AND quiz_id = ?", userID, rec.QuizID).First(&summary).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		summary = models.QuizProgress{UserID: userID, QuizID: rec.QuizID}
	}
	summary.LastScore = rec.Score
	summary.LastPercentage = rec.Percentage
	summary.LastCompletedAt = rec.CompletedAt
	summary.Attempts++
	if rec.Score > summary.BestScore {
		summary.BestScore = rec.Score
	}
	if rec.Percentage > summary.BestPercentage {
		summary.BestPercentage = rec.Percentage
	}
	if err := qc.DB.Save(&summary).Error; err != nil {
		return nil, err
	}

	return &attempt, nil
}
