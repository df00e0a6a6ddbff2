package controllers_test

import (
	"net/http"
	"testing"

	"kiswahili-kwanza/backend/controllers"
	"kiswahili-kwanza/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueBadgeIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	badge := env.createBadge(t, "First Steps", models.RequirementLessonsCompleted, 1, 50, 1)
	token, userID := env.registerUser(t, "asha")

	status, body := env.request(t, http.MethodPost, "/api/badges/", token, fiber.Map{
		"badgeId": badge.ID,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["issued"])

	status, body = env.request(t, http.MethodPost, "/api/badges/", token, fiber.Map{
		"badgeId": badge.ID,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["issued"])

	var count int64
	env.db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIssueBadgeUnknownBadge(t *testing.T) {
	env := newTestEnv(t, nil)
	token, _ := env.registerUser(t, "sifa")

	status, _ := env.request(t, http.MethodPost, "/api/badges/", token, fiber.Map{
		"badgeId": 4242,
	})
	require.Equal(t, http.StatusNotFound, status)
}

func TestReconcileGrantsEarnedBadges(t *testing.T) {
	env := newTestEnv(t, nil)
	firstSteps := env.createBadge(t, "First Steps", models.RequirementLessonsCompleted, 1, 50, 1)
	env.createBadge(t, "Point Master", models.RequirementPointsEarned, 1000, 300, 3)
	_, userID := env.registerUser(t, "dalila")

	require.NoError(t, env.db.Model(&models.UserProgress{}).
		Where("user_id = ?", userID).
		Update("lessons_completed", 1).Error)

	require.NoError(t, controllers.ReconcileAchievements(env.db, userID))

	var earned []models.UserBadge
	require.NoError(t, env.db.Where("user_id = ?", userID).Find(&earned).Error)
	require.Len(t, earned, 1)
	assert.Equal(t, firstSteps.ID, earned[0].BadgeID)

	// Badge points are credited to the learner's total.
	var stats models.UserProgress
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stats).Error)
	assert.Equal(t, 50, stats.PointsEarned)

	// Running again changes nothing.
	require.NoError(t, controllers.ReconcileAchievements(env.db, userID))
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stats).Error)
	assert.Equal(t, 50, stats.PointsEarned)
}

func TestStoryCompletionTriggersFirstStepsBadge(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createLesson(t, "nambari", 1, 1, nil, "moja")
	env.createBadge(t, "First Steps", models.RequirementLessonsCompleted, 1, 50, 1)
	token, userID := env.registerUser(t, "faraja")

	status, _ := env.request(t, http.MethodPost, "/api/lessons/complete", token, fiber.Map{
		"lessonId": "nambari",
		"type":     "flashcards",
	})
	require.Equal(t, http.StatusOK, status)

	// Flashcards alone don't finish the lesson, so no badge yet.
	var count int64
	env.db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(0), count)

	status, _ = env.request(t, http.MethodPost, "/api/lessons/complete", token, fiber.Map{
		"lessonId": "nambari",
		"type":     "story",
	})
	require.Equal(t, http.StatusOK, status)

	env.db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetBadgesListsEarnedOnly(t *testing.T) {
	env := newTestEnv(t, nil)
	earned := env.createBadge(t, "First Steps", models.RequirementLessonsCompleted, 1, 50, 1)
	env.createBadge(t, "Week Warrior", models.RequirementStreakDays, 7, 200, 2)
	token, userID := env.registerUser(t, "pendo")

	issued, err := controllers.IssueBadge(env.db, userID, earned.ID)
	require.NoError(t, err)
	require.True(t, issued)

	status, body := env.request(t, http.MethodGet, "/api/badges/", token, nil)
	require.Equal(t, http.StatusOK, status)

	badges := body["badges"].([]interface{})
	userBadges := body["user_badges"].([]interface{})
	assert.Len(t, badges, 1)
	assert.Len(t, userBadges, 1)
}
