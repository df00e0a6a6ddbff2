package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"kiswahili-kwanza/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuiz() models.Quiz {
	return models.Quiz{
		ID:           "quiz_sample",
		Title:        "Jaribio la Matunda",
		Category:     "matunda",
		Difficulty:   "beginner",
		TotalPoints:  20,
		PassingScore: 70,
		Questions: []models.QuizQuestion{
			{
				ID:       "q1",
				Type:     "multiple-choice",
				Question: "Ni tunda gani hili?",
				CorrectAnswer: models.AnswerValue{
					Values: []string{"a"},
				},
				Points: 10,
			},
			{
				ID:       "q2",
				Type:     "multiple-choice",
				Question: "Chagua matunda mawili",
				CorrectAnswer: models.AnswerValue{
					Values: []string{"a", "b"},
					IsSet:  true,
				},
				Points: 10,
			},
		},
	}
}

func TestSubmitQuizPersistsAttemptAndSummary(t *testing.T) {
	env := newTestEnv(t, nil)
	token, userID := env.registerUser(t, "rehema")

	status, body := env.request(t, http.MethodPost, "/api/quiz/submit", token, fiber.Map{
		"quiz": sampleQuiz(),
		"answers": fiber.Map{
			"q1": "a",
			"q2": []string{"b", "a"},
		},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(20), body["score"])
	assert.Equal(t, float64(100), body["percentage"])
	assert.Equal(t, true, body["passed"])
	assert.NotEmpty(t, body["recommendation"])

	var attempt models.QuizAttempt
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&attempt).Error)
	assert.Equal(t, "quiz_sample", attempt.QuizID)
	assert.True(t, attempt.Passed)
	assert.NotEmpty(t, attempt.AttemptID)

	var summary models.QuizProgress
	require.NoError(t, env.db.Where("user_id = ? AND quiz_id = ?", userID, "quiz_sample").First(&summary).Error)
	assert.Equal(t, 1, summary.Attempts)
	assert.Equal(t, 20, summary.BestScore)
	assert.Equal(t, 100, summary.BestPercentage)

	var stats models.UserProgress
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stats).Error)
	assert.Equal(t, 1, stats.QuizzesCompleted)
	assert.Equal(t, 20, stats.PointsEarned)
}

func TestSubmitQuizBestScoreNeverDecreases(t *testing.T) {
	env := newTestEnv(t, nil)
	token, userID := env.registerUser(t, "imani")

	// Perfect run first.
	status, _ := env.request(t, http.MethodPost, "/api/quiz/submit", token, fiber.Map{
		"quiz":    sampleQuiz(),
		"answers": fiber.Map{"q1": "a", "q2": []string{"a", "b"}},
	})
	require.Equal(t, http.StatusOK, status)

	// Then a worse one.
	status, body := env.request(t, http.MethodPost, "/api/quiz/submit", token, fiber.Map{
		"quiz":    sampleQuiz(),
		"answers": fiber.Map{"q1": "a", "q2": []string{"a"}},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(50), body["percentage"])
	assert.Equal(t, false, body["passed"])

	var summary models.QuizProgress
	require.NoError(t, env.db.Where("user_id = ? AND quiz_id = ?", userID, "quiz_sample").First(&summary).Error)
	assert.Equal(t, 2, summary.Attempts)
	assert.Equal(t, 10, summary.LastScore)
	assert.Equal(t, 50, summary.LastPercentage)
	assert.Equal(t, 20, summary.BestScore)
	assert.Equal(t, 100, summary.BestPercentage)
}

func TestSaveQuizProgressValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	token, _ := env.registerUser(t, "tabu")

	status, _ := env.request(t, http.MethodPost, "/api/quiz/progress", token, fiber.Map{
		"score": 10,
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = env.request(t, http.MethodPost, "/api/quiz/progress", token, fiber.Map{
		"quizId": "quiz_x",
	})
	require.Equal(t, http.StatusBadRequest, status)

	// A zero score is a real score, not a missing one.
	status, _ = env.request(t, http.MethodPost, "/api/quiz/progress", token, fiber.Map{
		"quizId":      "quiz_x",
		"score":       0,
		"totalPoints": 20,
		"percentage":  0,
	})
	require.Equal(t, http.StatusOK, status)
}

func TestGetQuizProgressNewestFirst(t *testing.T) {
	env := newTestEnv(t, nil)
	token, userID := env.registerUser(t, "halima")

	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)

	for i, completedAt := range []time.Time{older, newer} {
		status, _ := env.request(t, http.MethodPost, "/api/quiz/progress", token, fiber.Map{
			"quizId":      "quiz_history",
			"score":       10 * (i + 1),
			"totalPoints": 20,
			"percentage":  50 * (i + 1),
			"completedAt": completedAt,
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, body := env.request(t, http.MethodGet, "/api/quiz/progress", token, nil)
	require.Equal(t, http.StatusOK, status)

	attempts := body["attempts"].([]interface{})
	require.Len(t, attempts, 2)
	first := attempts[0].(map[string]interface{})
	assert.Equal(t, float64(100), first["Percentage"])

	var count int64
	env.db.Model(&models.QuizAttempt{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestGenerateQuizUsesFlashcardsForImageCategories(t *testing.T) {
	env := newTestEnv(t, nil) // stub generator always errors, so only the local path can succeed
	env.createLesson(t, "rangi", 1, 1, nil, "nyekundu", "kijani", "buluu", "njano")
	token, _ := env.registerUser(t, "penda")

	status, body := env.request(t, http.MethodPost, "/api/quiz/generate", token, fiber.Map{
		"topic":         "rangi",
		"category":      "rangi",
		"difficulty":    "beginner",
		"questionCount": 3,
	})
	require.Equal(t, http.StatusOK, status)

	quiz := body["quiz"].(map[string]interface{})
	assert.Equal(t, "rangi", quiz["category"])
	assert.Len(t, quiz["questions"], 3)
}

func TestGenerateQuizValidatesInput(t *testing.T) {
	env := newTestEnv(t, nil)
	token, _ := env.registerUser(t, "chausiku")

	status, _ := env.request(t, http.MethodPost, "/api/quiz/generate", token, fiber.Map{
		"topic": "rangi",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestAutoGenerateQuizPicksLevelAndTopic(t *testing.T) {
	generated := sampleQuiz()
	env := newTestEnv(t, stubGenerator{quiz: &generated})
	token, _ := env.registerUser(t, "mwalimu")

	status, body := env.request(t, http.MethodGet, "/api/quiz/auto-generate", token, nil)
	require.Equal(t, http.StatusOK, status)

	level := body["user_level"].(map[string]interface{})
	assert.Equal(t, "beginner", level["level"])
	assert.Equal(t, "nambari", level["current_topic"])
}
