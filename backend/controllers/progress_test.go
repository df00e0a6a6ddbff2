package controllers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgressAggregates(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createLesson(t, "nambari", 1, 1, nil, "moja")
	env.createLesson(t, "rangi", 1, 2, nil, "nyekundu")
	token, _ := env.registerUser(t, "hamisi")

	status, _ := env.request(t, http.MethodPost, "/api/lessons/complete", token, fiber.Map{
		"lessonId": "nambari",
		"type":     "flashcards",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := env.request(t, http.MethodGet, "/api/progress/", token, nil)
	require.Equal(t, http.StatusOK, status)

	// nambari done plus rangi unlocked by it.
	reading := body["reading_progress"].([]interface{})
	assert.Len(t, reading, 2)

	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(10), stats["points_earned"])
}

func TestGetProgressFilterByLesson(t *testing.T) {
	env := newTestEnv(t, nil)
	lesson := env.createLesson(t, "nambari", 1, 1, nil, "moja")
	env.createLesson(t, "rangi", 1, 2, nil, "nyekundu")
	token, _ := env.registerUser(t, "koku")

	status, _ := env.request(t, http.MethodPost, "/api/lessons/complete", token, fiber.Map{
		"lessonId": "nambari",
		"type":     "flashcards",
	})
	require.Equal(t, http.StatusOK, status)

	status, body := env.request(t, http.MethodGet,
		"/api/progress/?lessonId="+itoa(lesson.ID), token, nil)
	require.Equal(t, http.StatusOK, status)

	reading := body["reading_progress"].([]interface{})
	require.Len(t, reading, 1)
	entry := reading[0].(map[string]interface{})
	assert.Equal(t, true, entry["FlashcardsCompleted"])
}

func TestProgressReportIsPDF(t *testing.T) {
	env := newTestEnv(t, nil)
	env.createLesson(t, "nambari", 1, 1, nil, "moja")
	token, _ := env.registerUser(t, "ripoti")

	req := httptest.NewRequest(http.MethodGet, "/api/progress/report", nil)
	req.Header.Set("Authorization", token)

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")), "report should be a PDF document")
}

func TestUserProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	token, _ := env.registerUser(t, "wema")

	status, body := env.request(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "wema", user["username"])

	status, _ = env.request(t, http.MethodPut, "/api/user/profile", token, fiber.Map{
		"guardianEmail": "mzazi@example.com",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = env.request(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "mzazi@example.com", user["guardian_email"])
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
