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

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	status, body := env.request(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "zawadi",
		"email":    "zawadi@example.com",
		"password": "hakuna-matata",
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, body["token"])

	status, body = env.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "zawadi@example.com",
		"password": "hakuna-matata",
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "zawadi", user["username"])
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	status, _ := env.request(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "nopass",
		"email":    "nopass@example.com",
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = env.request(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "short",
		"email":    "short@example.com",
		"password": "abc",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	env.registerUser(t, "kwanza")

	status, _ := env.request(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": "mwingine",
		"email":    "kwanza@example.com",
		"password": "hakuna-matata",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t, nil)
	env.registerUser(t, "salama")

	status, _ := env.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "salama@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "ghost@example.com",
		"password": "whatever",
	})
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginStreakAccounting(t *testing.T) {
	env := newTestEnv(t, nil)
	_, userID := env.registerUser(t, "mfululizo")

	login := func() {
		status, _ := env.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
			"email":    "mfululizo@example.com",
			"password": "hakuna-matata",
		})
		require.Equal(t, http.StatusOK, status)
	}

	setLastActive := func(at time.Time) {
		require.NoError(t, env.db.Model(&models.UserProgress{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{"last_active": at, "streak_days": 3}).Error)
	}

	// Same-day login keeps the streak as is.
	setLastActive(time.Now().Add(-2 * time.Hour))
	login()
	var stats models.UserProgress
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stats).Error)
	assert.Equal(t, 3, stats.StreakDays)

	// A login the next day extends it.
	setLastActive(time.Now().Add(-30 * time.Hour))
	login()
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stats).Error)
	assert.Equal(t, 4, stats.StreakDays)

	// Two missed days reset it.
	setLastActive(time.Now().Add(-72 * time.Hour))
	login()
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&stats).Error)
	assert.Equal(t, 1, stats.StreakDays)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{
		"/api/lessons/",
		"/api/progress/",
		"/api/quiz/progress",
		"/api/badges/",
		"/api/user/profile",
	} {
		status, _ := env.request(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
}
