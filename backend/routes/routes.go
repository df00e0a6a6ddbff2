package routes

import (
	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/controllers"
	"kiswahili-kwanza/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, generator controllers.QuizGenerator) {
	authController := controllers.NewAuthController(db, cfg)
	userController := controllers.NewUserController(db, cfg)
	lessonsController := controllers.NewLessonsController(db, cfg)
	progressController := controllers.NewProgressController(db, cfg)
	quizController := controllers.NewQuizController(db, cfg, generator)
	badgesController := controllers.NewBadgesController(db, cfg)

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)

	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/user/profile", userController.GetProfile)
	protected.Put("/user/profile", userController.UpdateProfile)

	lessons := protected.Group("/lessons")
	lessons.Get("/", lessonsController.GetLessons)
	lessons.Post("/complete", lessonsController.CompleteLesson)
	lessons.Get("/:id", lessonsController.GetLessonDetails)
	lessons.Get("/:id/flashcards", lessonsController.GetFlashcards)
	lessons.Get("/:id/story", lessonsController.GetStory)

	progress := protected.Group("/progress")
	progress.Get("/", progressController.GetProgress)
	progress.Get("/report", progressController.GetProgressReport)

	quiz := protected.Group("/quiz")
	quiz.Post("/generate", quizController.GenerateQuiz)
	quiz.Get("/auto-generate", quizController.AutoGenerateQuiz)
	quiz.Post("/submit", quizController.SubmitQuiz)
	quiz.Post("/progress", quizController.SaveQuizProgress)
	quiz.Get("/progress", quizController.GetQuizProgress)

	badges := protected.Group("/badges")
	badges.Get("/", badgesController.GetBadges)
	badges.Post("/", badgesController.IssueBadge)
}
