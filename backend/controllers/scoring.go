package controllers

import (
	"fmt"
	"math"

	"kiswahili-kwanza/backend/models"
)

const defaultPassingScore = 70

// ScoreResult is the outcome of grading one submission.
type ScoreResult struct {
	Score       int
	TotalPoints int
	Percentage  int
	Passed      bool
	Mistakes    []models.QuizMistake
}

// ScoreQuiz grades a set of submitted answers against a quiz definition. It is
// a pure function of its inputs: questions are walked in quiz order, correct
// ones accumulate points, incorrect ones accumulate mistakes.
func ScoreQuiz(quiz *models.Quiz, answers map[string]models.AnswerValue) ScoreResult {
	result := ScoreResult{Mistakes: []models.QuizMistake{}}

	for _, q := range quiz.Questions {
		result.TotalPoints += q.Points
		submitted := answers[q.ID]
		if isAnswerCorrect(submitted, q.CorrectAnswer) {
			result.Score += q.Points
			continue
		}
		result.Mistakes = append(result.Mistakes, models.QuizMistake{
			QuestionID:    q.ID,
			Question:      q.Question,
			UserAnswer:    submitted,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	result.Percentage = percentage(result.Score, result.TotalPoints)
	passing := quiz.PassingScore
	if passing == 0 {
		passing = defaultPassingScore
	}
	result.Passed = result.Percentage >= passing

	return result
}

// isAnswerCorrect compares a submitted answer to the expected one. Set answers
// match order-independently but must have exactly the same size, so duplicates
// in the submission fail; scalar answers match by exact, case-sensitive
// equality.
func isAnswerCorrect(submitted, correct models.AnswerValue) bool {
	if correct.IsSet {
		if !submitted.IsSet || len(submitted.Values) != len(correct.Values) {
			return false
		}
		seen := make(map[string]struct{}, len(submitted.Values))
		for _, v := range submitted.Values {
			seen[v] = struct{}{}
		}
		if len(seen) != len(correct.Values) {
			return false
		}
		for _, v := range correct.Values {
			if _, ok := seen[v]; !ok {
				return false
			}
		}
		return true
	}

	if submitted.IsSet || len(submitted.Values) != 1 || len(correct.Values) != 1 {
		return false
	}
	return submitted.Values[0] == correct.Values[0]
}

// percentage rounds half-up. A quiz with zero total points scores zero rather
// than dividing by zero.
func percentage(score, totalPoints int) int {
	if totalPoints <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(totalPoints) * 100))
}

// GetRecommendation maps a percentage into one of six feedback bands,
// evaluated in ascending order with the first match winning.
func GetRecommendation(percentage int, category string) string {
	cat := ""
	if category != "" {
		cat = fmt.Sprintf(" kwenye mada ya %q", category)
	}
	switch {
	case percentage <= 20:
		return fmt.Sprintf("Jaribu tena! Inashauriwa usome zaidi%s na ujaribu maswali mengine.", cat)
	case percentage <= 50:
		return fmt.Sprintf("Endelea kujifunza%s. Soma tena na jaribu kufanya mazoezi zaidi.", cat)
	case percentage <= 70:
		return fmt.Sprintf("Umefanya vizuri%s, lakini bado kuna nafasi ya kuboresha. Rudia masomo na ujaribu tena.", cat)
	case percentage <= 80:
		return fmt.Sprintf("Karibu! Uko karibu kufaulu kikamilifu%s. Endelea kufanya mazoezi.", cat)
	case percentage <= 90:
		return fmt.Sprintf("Hongera! Umefanya vizuri sana%s. Jaribu maswali magumu zaidi ili uendelee kuboresha ujuzi wako.", cat)
	default:
		return fmt.Sprintf("Bingwa! Umefaulu kikamilifu%s. Endelea na changamoto mpya!", cat)
	}
}
