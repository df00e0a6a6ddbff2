package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/models"
	"kiswahili-kwanza/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg}
}

// GetProgress godoc
// @Summary Reading progress and aggregate stats for the current user
// @Tags progress
// @Produce json
// @Param lessonId query string false "Restrict to one lesson"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	query := pc.DB.Where("user_id = ?", userID)
	if lessonID := c.Query("lessonId"); lessonID != "" {
		query = query.Where("lesson_id = ?", lessonID)
	}

	var reading []models.ReadingProgress
	if err := query.Find(&reading).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var stats models.UserProgress
	if err := pc.DB.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}
	}

	return c.JSON(fiber.Map{
		"reading_progress": reading,
		"stats": fiber.Map{
			"streak_days":       stats.StreakDays,
			"lessons_completed": stats.LessonsCompleted,
			"quizzes_completed": stats.QuizzesCompleted,
			"points_earned":     stats.PointsEarned,
			"last_active":       stats.LastActive,
		},
	})
}

// GetProgressReport renders a guardian-friendly PDF summary of the learner's
// progress and streams it back inline.
func (pc *ProgressController) GetProgressReport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var stats models.UserProgress
	pc.DB.Where("user_id = ?", userID).First(&stats)

	var reading []models.ReadingProgress
	pc.DB.Where("user_id = ?", userID).Find(&reading)

	lessonTitles := map[uint]string{}
	var lessons []models.Lesson
	pc.DB.Order("difficulty, sequence_order").Find(&lessons)
	for _, lesson := range lessons {
		lessonTitles[lesson.ID] = lesson.Title
	}

	var attempts []models.QuizAttempt
	pc.DB.Where("user_id = ?", userID).
		Order("completed_at desc").
		Limit(10).
		Find(&attempts)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Ripoti ya Maendeleo - Kiswahili Kwanza", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Mwanafunzi: %s", user.Username), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, time.Now().Format("2 January 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Muhtasari", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		fmt.Sprintf("Masomo yaliyokamilika: %d", stats.LessonsCompleted),
		fmt.Sprintf("Majaribio yaliyokamilika: %d", stats.QuizzesCompleted),
		fmt.Sprintf("Pointi zilizopatikana: %d", stats.PointsEarned),
		fmt.Sprintf("Mfululizo wa siku: %d", stats.StreakDays),
	} {
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Masomo", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, p := range reading {
		status := "Haijaanza"
		switch {
		case p.StoryCompleted:
			status = "Imekamilika"
		case p.FlashcardsCompleted:
			status = "Kadi zimekamilika"
		case p.Unlocked:
			status = "Imefunguliwa"
		}
		title := lessonTitles[p.LessonID]
		if title == "" {
			title = fmt.Sprintf("Somo #%d", p.LessonID)
		}
		pdf.CellFormat(0, 7, fmt.Sprintf("%s: %s", title, status), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(attempts) > 0 {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, "Majaribio ya Hivi Karibuni", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, a := range attempts {
			verdict := "Hakufaulu"
			if a.Passed {
				verdict = "Amefaulu"
			}
			pdf.CellFormat(0, 7, fmt.Sprintf("%s - %d%% (%s)",
				a.CompletedAt.Format("02/01/2006"), a.Percentage, verdict),
				"", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return utils.InternalServerError(c, "Could not render report")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="ripoti-ya-maendeleo.pdf"`)
	return c.Send(buf.Bytes())
}
