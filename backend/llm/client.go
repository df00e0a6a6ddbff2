package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kiswahili-kwanza/backend/models"

	"github.com/google/uuid"
)

// Client talks to an Ollama-compatible /api/generate endpoint and turns
// free-form model output into quiz payloads.
type Client struct {
	url    string
	model  string
	client *http.Client
}

func NewClient(url, model string) *Client {
	return &Client{
		url:   url,
		model: model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type QuizRequest struct {
	Topic           string   `json:"topic"`
	Category        string   `json:"category"`
	Difficulty      string   `json:"difficulty"`
	QuestionCount   int      `json:"questionCount"`
	QuestionTypes   []string `json:"questionTypes"`
	Vocabulary      []string `json:"vocabulary,omitempty"`
	CulturalContext bool     `json:"culturalContext,omitempty"`
}

// GenerateQuiz asks the model for a complete quiz and normalises the result:
// question ids and points are filled in when missing, and totals are recomputed
// from the questions rather than trusted from the model.
func (c *Client) GenerateQuiz(req QuizRequest) (*models.Quiz, error) {
	response, err := c.generate(buildQuizPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	var quiz models.Quiz
	if err := json.Unmarshal([]byte(extractJSON(response)), &quiz); err != nil {
		return nil, fmt.Errorf("failed to parse generated quiz: %w", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, errors.New("model returned no questions")
	}

	quiz.ID = "quiz_" + uuid.New().String()
	quiz.Difficulty = req.Difficulty
	if quiz.Category == "" {
		quiz.Category = req.Category
	}
	total := 0
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		if q.Points == 0 {
			q.Points = 10
		}
		total += q.Points
	}
	quiz.TotalPoints = total
	if quiz.PassingScore == 0 {
		quiz.PassingScore = 70
	}
	quiz.EstimatedTime = len(quiz.Questions) * 2
	quiz.CreatedAt = time.Now()

	return &quiz, nil
}

func buildQuizPrompt(req QuizRequest) string {
	var b strings.Builder
	b.WriteString("You are a Swahili teacher creating a vocabulary quiz for children with dyslexia. ")
	fmt.Fprintf(&b, "Create %d questions on the topic %q at %s difficulty. ", req.QuestionCount, req.Topic, req.Difficulty)
	if len(req.QuestionTypes) > 0 {
		fmt.Fprintf(&b, "Use only these question types: %s. ", strings.Join(req.QuestionTypes, ", "))
	}
	if len(req.Vocabulary) > 0 {
		fmt.Fprintf(&b, "Build questions around this vocabulary: %s. ", strings.Join(req.Vocabulary, ", "))
	}
	if req.CulturalContext {
		b.WriteString("Use East African cultural context in the prompts. ")
	}
	b.WriteString("Answer options must be short and visually distinct from each other. ")
	b.WriteString(`Output ONLY minified JSON of the shape {"title":string,"description":string,` +
		`"questions":[{"type":string,"question":string,` +
		`"options":[{"id":string,"text":string,"isCorrect":bool}],` +
		`"correctAnswer":string,"explanation":string,"hints":[string],"points":10}]}.`)
	return b.String()
}

// extractJSON trims any prose the model wraps around the JSON object.
func extractJSON(response string) string {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start >= 0 && end > start {
		return response[start : end+1]
	}
	return response
}

func (c *Client) generate(prompt string) (string, error) {
	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  c.model,
		"prompt": prompt,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm returned HTTP %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Ollama streams one JSON object per line unless told otherwise;
	// aggregate the chunks into one response string.
	fullBody := string(bodyBytes)
	if strings.Contains(fullBody, "\n") {
		return aggregateStreamedResponse(fullBody), nil
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return "", err
	}
	if result.Response == "" {
		return "", errors.New("empty response from model")
	}
	return result.Response, nil
}

type responseChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func aggregateStreamedResponse(body string) string {
	var builder strings.Builder
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		var chunk responseChunk
		if err := json.Unmarshal([]byte(trimmed), &chunk); err != nil {
			continue
		}
		builder.WriteString(chunk.Response)
	}
	return builder.String()
}
