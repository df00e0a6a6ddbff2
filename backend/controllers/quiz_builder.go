package controllers

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"kiswahili-kwanza/backend/models"

	"github.com/google/uuid"
)

// Categories whose flashcards carry images; their quizzes are assembled
// locally from the cards instead of asking the LLM.
var imageCategories = map[string]bool{
	"nambari":        true,
	"rangi":          true,
	"familia_ndogo":  true,
	"siku_za_wiki":   true,
	"matunda":        true,
	"miezi_ya_mwaka": true,
}

var optionIDs = []string{"a", "b", "c", "d"}

// buildFlashcardQuiz assembles a picture quiz from a lesson's flashcards:
// each question shows a card image and asks which word it is, with distractors
// drawn from the other cards of the same set.
func buildFlashcardQuiz(lesson *models.Lesson, difficulty string, questionCount int) *models.Quiz {
	cards := append([]models.Flashcard(nil), lesson.Flashcards...)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	if questionCount > len(cards) {
		questionCount = len(cards)
	}

	subject := strings.ToLower(lesson.Title)
	var questions []models.QuizQuestion
	for i := 0; i < questionCount; i++ {
		card := cards[i]

		texts := []string{card.Kiswahili}
		for _, other := range cards {
			if len(texts) == len(optionIDs) {
				break
			}
			if other.Kiswahili != card.Kiswahili {
				texts = append(texts, other.Kiswahili)
			}
		}
		r.Shuffle(len(texts), func(i, j int) { texts[i], texts[j] = texts[j], texts[i] })

		options := make([]models.QuizOption, len(texts))
		var correctID string
		for j, text := range texts {
			options[j] = models.QuizOption{
				ID:        optionIDs[j],
				Text:      text,
				IsCorrect: text == card.Kiswahili,
			}
			if options[j].IsCorrect {
				correctID = options[j].ID
			}
		}

		questions = append(questions, models.QuizQuestion{
			ID:            fmt.Sprintf("q%d", i+1),
			Type:          "multiple-choice",
			Question:      fmt.Sprintf("Ni %s gani hii?", subject),
			QuestionImage: card.ImageURL,
			Options:       options,
			CorrectAnswer: models.AnswerValue{Values: []string{correctID}},
			Explanation:   fmt.Sprintf("Jibu sahihi ni %q.", card.Kiswahili),
			Hints:         []string{"Angalia picha kwa makini."},
			Points:        10,
		})
	}

	passing := lesson.QuizUnlockThreshold
	if passing == 0 {
		passing = defaultPassingScore
	}

	return &models.Quiz{
		ID:            "quiz_" + uuid.New().String(),
		Title:         fmt.Sprintf("Jaribio la %s", lesson.Title),
		Description:   "Chagua jibu sahihi kulingana na picha.",
		Difficulty:    difficulty,
		Category:      lesson.Slug,
		EstimatedTime: len(questions) * 2,
		TotalPoints:   len(questions) * 10,
		PassingScore:  passing,
		Questions:     questions,
		Tags:          []string{lesson.Title, difficulty},
		CreatedAt:     time.Now(),
	}
}
