package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Quiz is attached to exactly one lesson. Questions are persisted as a
// JSON text blob, same as the lesson tree on Course.
type Quiz struct {
	gorm.Model
	LessonID     string `gorm:"index"`
	PassingScore int    // percentage 0-100
	Questions    string // JSON-encoded []Question
}

type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuizData is the decoded view handed to the grader and the handlers.
type QuizData struct {
	ID           uint
	LessonID     string
	PassingScore int
	Questions    []Question
}

func (q *Quiz) Decode() (*QuizData, error) {
	data := &QuizData{
		ID:           q.ID,
		LessonID:     q.LessonID,
		PassingScore: q.PassingScore,
		Questions:    []Question{},
	}
	if q.Questions == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(q.Questions), &data.Questions); err != nil {
		return nil, err
	}
	return data, nil
}

// SetQuestions re-encodes the question list onto the record.
func (q *Quiz) SetQuestions(questions []Question) error {
	if questions == nil {
		questions = []Question{}
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	q.Questions = string(raw)
	return nil
}
