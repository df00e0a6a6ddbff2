package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"kiswahili-kwanza/backend/config"
	"kiswahili-kwanza/backend/controllers"
	"kiswahili-kwanza/backend/llm"
	"kiswahili-kwanza/backend/models"
	"kiswahili-kwanza/backend/routes"
	"kiswahili-kwanza/backend/utils"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubGenerator stands in for the LLM so tests never touch the network.
type stubGenerator struct {
	quiz *models.Quiz
	err  error
}

func (s stubGenerator) GenerateQuiz(req llm.QuizRequest) (*models.Quiz, error) {
	return s.quiz, s.err
}

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestEnv(t *testing.T, generator controllers.QuizGenerator) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, utils.AutoMigrate(db))

	cfg := &config.Config{JWTSecret: "test-secret"}

	app := fiber.New()
	if generator == nil {
		generator = stubGenerator{err: fmt.Errorf("no generator configured")}
	}
	routes.SetupRoutes(app, db, cfg, generator)

	return &testEnv{app: app, db: db, cfg: cfg}
}

// registerUser creates an account through the API and returns its token and id.
func (env *testEnv) registerUser(t *testing.T, username string) (string, uint) {
	t.Helper()

	status, body := env.request(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "hakuna-matata",
	})
	require.Equal(t, http.StatusOK, status, "register failed: %v", body)

	token := body["token"].(string)
	user := body["user"].(map[string]interface{})
	return token, uint(user["id"].(float64))
}

// request performs an HTTP round trip against the test app and decodes the
// JSON body into a map. Non-JSON responses return a nil map.
func (env *testEnv) request(t *testing.T, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func (env *testEnv) createLesson(t *testing.T, slug string, difficulty, sequenceOrder int, prerequisites []string, words ...string) *models.Lesson {
	t.Helper()

	prereqs, err := json.Marshal(prerequisites)
	require.NoError(t, err)

	lesson := models.Lesson{
		Slug:                slug,
		Title:               slug,
		Difficulty:          difficulty,
		SequenceOrder:       sequenceOrder,
		Prerequisites:       string(prereqs),
		QuizUnlockThreshold: 70,
		IsActive:            true,
	}
	for i, word := range words {
		lesson.Flashcards = append(lesson.Flashcards, models.Flashcard{
			Kiswahili:     word,
			English:       word + "-en",
			ImageURL:      "/images/" + slug + "/" + word + ".png",
			SequenceOrder: i + 1,
		})
	}
	require.NoError(t, env.db.Create(&lesson).Error)

	story := models.Story{
		LessonID: lesson.ID,
		Title:    "Hadithi ya " + slug,
		Content:  "Hadithi fupi kuhusu " + slug + ".",
	}
	require.NoError(t, env.db.Create(&story).Error)

	return &lesson
}

func (env *testEnv) createBadge(t *testing.T, title, requirementType string, requirementValue, points, displayOrder int) *models.Badge {
	t.Helper()

	badge := models.Badge{
		Title:            title,
		RequirementType:  requirementType,
		RequirementValue: requirementValue,
		Points:           points,
		IsActive:         true,
		DisplayOrder:     displayOrder,
	}
	require.NoError(t, env.db.Create(&badge).Error)
	return &badge
}
