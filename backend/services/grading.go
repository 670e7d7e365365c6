package services

import (
	"errors"
	"math"

	"learnhub/backend/models"
)

var (
	ErrInvalidQuiz       = errors.New("invalid quiz")
	ErrIncompleteAnswers = errors.New("all questions must be answered")
)

type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer int    `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type GradeResult struct {
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Results        []QuestionResult `json:"results"`
}

// CheckComplete validates a submitted answer sheet: exactly one non-null
// entry per question. Returns the dense answer slice for Grade.
func CheckComplete(answers []*int, questionCount int) ([]int, error) {
	if len(answers) != questionCount {
		return nil, ErrIncompleteAnswers
	}
	dense := make([]int, len(answers))
	for i, a := range answers {
		if a == nil {
			return nil, ErrIncompleteAnswers
		}
		dense[i] = *a
	}
	return dense, nil
}

// Grade scores answers against the quiz. Stateless and side-effect free:
// the same (quiz, answers) pair always yields the same result. A retake
// is a fresh Grade call, not an update to prior results.
func Grade(quiz *models.QuizData, answers []int) (*GradeResult, error) {
	if quiz == nil {
		return nil, ErrInvalidQuiz
	}
	if len(answers) != len(quiz.Questions) {
		return nil, ErrIncompleteAnswers
	}

	correctCount := 0
	results := make([]QuestionResult, len(quiz.Questions))
	for i, question := range quiz.Questions {
		isCorrect := answers[i] == question.CorrectAnswer
		if isCorrect {
			correctCount++
		}
		results[i] = QuestionResult{
			QuestionID:    question.ID,
			IsCorrect:     isCorrect,
			CorrectAnswer: question.CorrectAnswer,
			Explanation:   question.Explanation,
		}
	}

	// An empty quiz grades to 0, not a division error.
	score := 0
	if len(quiz.Questions) > 0 {
		score = int(math.Round(float64(correctCount) / float64(len(quiz.Questions)) * 100))
	}

	return &GradeResult{
		Score:          score,
		Passed:         score >= quiz.PassingScore,
		CorrectCount:   correctCount,
		TotalQuestions: len(quiz.Questions),
		Results:        results,
	}, nil
}
