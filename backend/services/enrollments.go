package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"learnhub/backend/models"
)

var (
	ErrAlreadyEnrolled = errors.New("enrollment already exists for this course")
	ErrNoEnrollment    = errors.New("no enrollment for this course")
	ErrNoteNotFound    = errors.New("note not found")
)

// EnrollmentService owns all writes to enrollment records. Every mutation
// is a read-modify-write on one record, so mutations for the same course
// are serialized through a per-course mutex.
type EnrollmentService struct {
	store EnrollmentStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEnrollmentService(store EnrollmentStore) *EnrollmentService {
	return &EnrollmentService{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *EnrollmentService) courseLock(courseID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[courseID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[courseID] = lock
	}
	return lock
}

func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentData, error) {
	records, err := s.store.ListEnrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments: %w", err)
	}
	list := make([]models.EnrollmentData, 0, len(records))
	for i := range records {
		data, err := records[i].Decode()
		if err != nil {
			return nil, fmt.Errorf("decoding enrollment %d: %w", records[i].ID, err)
		}
		list = append(list, *data)
	}
	return list, nil
}

// GetByCourse returns nil for an absent enrollment; that is not an error.
func (s *EnrollmentService) GetByCourse(ctx context.Context, courseID string) (*models.EnrollmentData, error) {
	record, err := s.store.GetEnrollmentByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("reading enrollment: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return record.Decode()
}

// Create starts an enrollment for the course. At most one enrollment may
// exist per course.
func (s *EnrollmentService) Create(ctx context.Context, courseID, firstLessonID string) (*models.EnrollmentData, error) {
	lock := s.courseLock(courseID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.GetEnrollmentByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("reading enrollment: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}

	data := &models.EnrollmentData{
		CourseID:           courseID,
		EnrolledDate:       time.Now().UTC().Format("2006-01-02"),
		Progress:           0,
		CompletedLessons:   []string{},
		QuizScores:         map[string]int{},
		LastAccessedLesson: firstLessonID,
		LessonNotes:        map[string][]models.Note{},
	}

	var record models.Enrollment
	if err := data.Encode(&record); err != nil {
		return nil, err
	}
	if err := s.store.CreateEnrollment(ctx, &record); err != nil {
		return nil, fmt.Errorf("creating enrollment: %w", err)
	}
	data.ID = record.ID
	return data, nil
}

// MarkLessonComplete adds the lesson to the completed set (a no-op if it
// is already there), records it as last accessed and recomputes progress.
// totalLessons must be the course's authoritative lesson count.
func (s *EnrollmentService) MarkLessonComplete(ctx context.Context, courseID, lessonID string, totalLessons int) (*models.EnrollmentData, error) {
	return s.mutate(ctx, courseID, func(data *models.EnrollmentData) error {
		found := false
		for _, id := range data.CompletedLessons {
			if id == lessonID {
				found = true
				break
			}
		}
		if !found {
			data.CompletedLessons = append(data.CompletedLessons, lessonID)
		}
		data.LastAccessedLesson = lessonID
		data.Progress = progressPercent(len(data.CompletedLessons), totalLessons)
		return nil
	})
}

// RecordQuizScore keeps only the most recent submission per lesson. It
// does not touch completion or progress.
func (s *EnrollmentService) RecordQuizScore(ctx context.Context, courseID, lessonID string, score int) (*models.EnrollmentData, error) {
	return s.mutate(ctx, courseID, func(data *models.EnrollmentData) error {
		data.QuizScores[lessonID] = score
		return nil
	})
}

// AddNote appends a note to the lesson's list with the next sequential id
// (max existing id + 1). Deleted ids are never reused downward because
// the max is taken over survivors.
func (s *EnrollmentService) AddNote(ctx context.Context, courseID, lessonID, text string, timestampSeconds int) (*models.Note, error) {
	var note models.Note
	_, err := s.mutate(ctx, courseID, func(data *models.EnrollmentData) error {
		maxID := 0
		for _, n := range data.LessonNotes[lessonID] {
			if n.ID > maxID {
				maxID = n.ID
			}
		}
		note = models.Note{
			ID:        maxID + 1,
			Text:      text,
			Timestamp: timestampSeconds,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
		data.LessonNotes[lessonID] = append(data.LessonNotes[lessonID], note)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote removes a note by id. Surviving notes keep their ids.
func (s *EnrollmentService) DeleteNote(ctx context.Context, courseID, lessonID string, noteID int) error {
	_, err := s.mutate(ctx, courseID, func(data *models.EnrollmentData) error {
		bucket, ok := data.LessonNotes[lessonID]
		if !ok {
			return ErrNoteNotFound
		}
		for i, n := range bucket {
			if n.ID == noteID {
				data.LessonNotes[lessonID] = append(bucket[:i], bucket[i+1:]...)
				return nil
			}
		}
		return ErrNoteNotFound
	})
	return err
}

// ListNotes returns the lesson's notes in creation order. A lesson with
// no notes, or a course without an enrollment, yields an empty list.
func (s *EnrollmentService) ListNotes(ctx context.Context, courseID, lessonID string) ([]models.Note, error) {
	data, err := s.GetByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if data == nil || data.LessonNotes[lessonID] == nil {
		return []models.Note{}, nil
	}
	return data.LessonNotes[lessonID], nil
}

// mutate runs a read-modify-write cycle on the course's enrollment under
// its lock. Store failures surface to the caller, never a false success.
func (s *EnrollmentService) mutate(ctx context.Context, courseID string, fn func(*models.EnrollmentData) error) (*models.EnrollmentData, error) {
	lock := s.courseLock(courseID)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.store.GetEnrollmentByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("reading enrollment: %w", err)
	}
	if record == nil {
		return nil, ErrNoEnrollment
	}

	data, err := record.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding enrollment %d: %w", record.ID, err)
	}
	if err := fn(data); err != nil {
		return nil, err
	}
	if err := data.Encode(record); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEnrollment(ctx, record); err != nil {
		return nil, fmt.Errorf("updating enrollment: %w", err)
	}
	return data, nil
}

func progressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
