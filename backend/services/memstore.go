package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"learnhub/backend/models"
)

// MemoryStore is the swappable Store double used by tests. It keeps the
// same encoded-blob record shapes as the Postgres store, so decode/encode
// round-trips are exercised, not bypassed.
type MemoryStore struct {
	mu               sync.RWMutex
	courses          map[uint]models.Course
	quizzes          map[string]models.Quiz
	enrollments      map[string]models.Enrollment
	nextCourseID     uint
	nextQuizID       uint
	nextEnrollmentID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:          make(map[uint]models.Course),
		quizzes:          make(map[string]models.Quiz),
		enrollments:      make(map[string]models.Enrollment),
		nextCourseID:     1,
		nextQuizID:       1,
		nextEnrollmentID: 1,
	}
}

// SeedQuiz registers a quiz keyed by its lesson id.
func (s *MemoryStore) SeedQuiz(quiz models.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.ID == 0 {
		quiz.ID = s.nextQuizID
		s.nextQuizID++
	}
	s.quizzes[quiz.LessonID] = quiz
}

func (s *MemoryStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		courses = append(courses, course)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (s *MemoryStore) ListCoursesByCategory(ctx context.Context, category string) ([]models.Course, error) {
	all, _ := s.ListCourses(ctx)
	filtered := make([]models.Course, 0)
	for _, course := range all {
		if course.Category == category {
			filtered = append(filtered, course)
		}
	}
	return filtered, nil
}

func (s *MemoryStore) SearchCourses(ctx context.Context, query string) ([]models.Course, error) {
	all, _ := s.ListCourses(ctx)
	q := strings.ToLower(query)
	matched := make([]models.Course, 0)
	for _, course := range all {
		haystack := strings.ToLower(course.Title + " " + course.Description + " " + course.Instructor + " " + course.Category)
		if strings.Contains(haystack, q) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

func (s *MemoryStore) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, nil
	}
	return &course, nil
}

func (s *MemoryStore) CreateCourse(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if course.ID == 0 {
		course.ID = s.nextCourseID
		s.nextCourseID++
	}
	s.courses[course.ID] = *course
	return nil
}

func (s *MemoryStore) GetQuizByLesson(ctx context.Context, lessonID string) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[lessonID]
	if !ok {
		return nil, nil
	}
	return &quiz, nil
}

func (s *MemoryStore) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enrollments := make([]models.Enrollment, 0, len(s.enrollments))
	for _, enrollment := range s.enrollments {
		enrollments = append(enrollments, enrollment)
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].ID < enrollments[j].ID })
	return enrollments, nil
}

func (s *MemoryStore) GetEnrollmentByCourse(ctx context.Context, courseID string) (*models.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enrollment, ok := s.enrollments[courseID]
	if !ok {
		return nil, nil
	}
	return &enrollment, nil
}

func (s *MemoryStore) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enrollment.ID == 0 {
		enrollment.ID = s.nextEnrollmentID
		s.nextEnrollmentID++
	}
	s.enrollments[enrollment.CourseID] = *enrollment
	return nil
}

func (s *MemoryStore) UpdateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[enrollment.CourseID] = *enrollment
	return nil
}
