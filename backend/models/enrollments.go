package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Enrollment is the progress record for the learner on one course. The
// record store holds the nested structures as encoded text blobs; the
// Decode/Encode pair is the mapping layer between that flat shape and
// the domain view, and must round-trip without loss.
type Enrollment struct {
	gorm.Model
	CourseID           string `gorm:"uniqueIndex"`
	EnrolledDate       string
	Progress           int    // 0-100, derived from CompletedLessons
	CompletedLessons   string // JSON array of lesson ids
	QuizScores         string // JSON map of lesson id -> score
	LastAccessedLesson string
	LessonNotes        string // JSON map of lesson id -> []Note
}

// Note is a timestamped annotation on a video lesson. Ids are unique
// within the lesson's note list and are never reassigned.
type Note struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Timestamp int    `json:"timestamp"` // seconds into the video
	CreatedAt string `json:"created_at"`
}

// EnrollmentData is the decoded domain view of an Enrollment record.
type EnrollmentData struct {
	ID                 uint              `json:"id"`
	CourseID           string            `json:"course_id"`
	EnrolledDate       string            `json:"enrolled_date"`
	Progress           int               `json:"progress"`
	CompletedLessons   []string          `json:"completed_lessons"`
	QuizScores         map[string]int    `json:"quiz_scores"`
	LastAccessedLesson string            `json:"last_accessed_lesson"`
	LessonNotes        map[string][]Note `json:"lesson_notes"`
}

func (e *Enrollment) Decode() (*EnrollmentData, error) {
	data := &EnrollmentData{
		ID:                 e.ID,
		CourseID:           e.CourseID,
		EnrolledDate:       e.EnrolledDate,
		Progress:           e.Progress,
		CompletedLessons:   []string{},
		QuizScores:         map[string]int{},
		LastAccessedLesson: e.LastAccessedLesson,
		LessonNotes:        map[string][]Note{},
	}
	if e.CompletedLessons != "" {
		if err := json.Unmarshal([]byte(e.CompletedLessons), &data.CompletedLessons); err != nil {
			return nil, err
		}
	}
	if e.QuizScores != "" {
		if err := json.Unmarshal([]byte(e.QuizScores), &data.QuizScores); err != nil {
			return nil, err
		}
	}
	if e.LessonNotes != "" {
		if err := json.Unmarshal([]byte(e.LessonNotes), &data.LessonNotes); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Encode writes the domain view back onto the record's blob columns.
func (d *EnrollmentData) Encode(e *Enrollment) error {
	completed, err := json.Marshal(d.CompletedLessons)
	if err != nil {
		return err
	}
	scores, err := json.Marshal(d.QuizScores)
	if err != nil {
		return err
	}
	notes, err := json.Marshal(d.LessonNotes)
	if err != nil {
		return err
	}
	e.CourseID = d.CourseID
	e.EnrolledDate = d.EnrolledDate
	e.Progress = d.Progress
	e.CompletedLessons = string(completed)
	e.QuizScores = string(scores)
	e.LastAccessedLesson = d.LastAccessedLesson
	e.LessonNotes = string(notes)
	return nil
}
