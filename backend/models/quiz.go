package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// AnswerValue is a submitted or expected answer. The wire format is either a
// bare string or an array of strings (multi-select); IsSet distinguishes the
// two so a one-element set is not confused with a scalar.
type AnswerValue struct {
	Values []string
	IsSet  bool
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		a.Values = []string{single}
		a.IsSet = false
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	a.Values = many
	a.IsSet = true
	return nil
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.IsSet {
		return json.Marshal(a.Values)
	}
	if len(a.Values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.Values[0])
}

type QuizOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	ImageURL  string `json:"imageUrl,omitempty"`
	AudioURL  string `json:"audioUrl,omitempty"`
}

// QuizQuestion is one question of a quiz payload. Quizzes are synthesized per
// request (locally or by the LLM) and attempted without being persisted, so
// questions travel as JSON rather than as rows.
type QuizQuestion struct {
	ID            string       `json:"id"`
	Type          string       `json:"type"` // multiple-choice, fill-blank, true-false, matching, audio-recognition, translation
	Question      string       `json:"question"`
	QuestionImage string       `json:"questionImage,omitempty"`
	QuestionAudio string       `json:"questionAudio,omitempty"`
	Options       []QuizOption `json:"options,omitempty"`
	CorrectAnswer AnswerValue  `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
	Hints         []string     `json:"hints,omitempty"`
	Points        int          `json:"points"`
	TimeLimit     int          `json:"timeLimit,omitempty"` // seconds
}

type Quiz struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Difficulty    string         `json:"difficulty"` // beginner, intermediate, advanced
	Category      string         `json:"category"`
	EstimatedTime int            `json:"estimatedTime"` // minutes
	TotalPoints   int            `json:"totalPoints"`
	PassingScore  int            `json:"passingScore"` // percent
	Questions     []QuizQuestion `json:"questions"`
	Tags          []string       `json:"tags,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// QuizMistake records one incorrectly answered question of an attempt.
type QuizMistake struct {
	QuestionID    string      `json:"questionId"`
	Question      string      `json:"question"`
	UserAnswer    AnswerValue `json:"userAnswer"`
	CorrectAnswer AnswerValue `json:"correctAnswer"`
	Explanation   string      `json:"explanation,omitempty"`
}

// QuizAttempt is one completed submission. A new attempt is a new row, never
// an edit.
type QuizAttempt struct {
	gorm.Model
	AttemptID   string `gorm:"uniqueIndex;not null"` // uuid
	UserID      uint   `gorm:"index;not null"`
	QuizID      string `gorm:"index;not null"`
	Score       int
	TotalPoints int
	Percentage  int
	Passed      bool
	Answers     string // JSON map of question id -> submitted answer
	Mistakes    string // JSON array of QuizMistake
	Category    string
	Difficulty  string
	StartedAt   time.Time
	CompletedAt time.Time
}

// QuizProgress summarises a learner's history with one quiz. bestScore and
// bestPercentage only ever increase.
type QuizProgress struct {
	gorm.Model
	UserID          uint   `gorm:"uniqueIndex:idx_quiz_user_quiz"`
	QuizID          string `gorm:"uniqueIndex:idx_quiz_user_quiz"`
	LastScore       int
	LastPercentage  int
	Attempts        int
	BestScore       int
	BestPercentage  int
	LastCompletedAt time.Time
}
